// seehuhn.de/go/shadowclock - a shadow-casting clock face renderer
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package pdfcanvas implements a drawing surface which writes a one page
// PDF file.
//
// The output is greyscale vector graphics.  Gradients are replaced by
// their colour at the gradient centre, translucent colours are blended
// with the most recent whole-page fill, blurring is ignored and images
// are skipped.  This is a good match for ambient frames, which only use
// flat fills.
package pdfcanvas

import (
	"image"
	stdcolor "image/color"
	"log/slog"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/shadowclock/canvas"
)

// Surface draws onto a PDF page.  Coordinates follow the image
// convention: the origin is in the top left corner and y grows
// downwards.  One unit is one PDF point.
type Surface struct {
	page   *document.Page
	width  float64
	height float64
	logger *slog.Logger

	backdrop float64 // grey level of the last whole-page fill
	skipped  int
}

var _ canvas.Surface = (*Surface)(nil)

// Create starts a new PDF file of the given size.  The file is written
// when Close is called.  If logger is nil, log messages are discarded.
func Create(fileName string, width, height int, logger *slog.Logger) (*Surface, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	paper := &pdf.Rectangle{
		URx: float64(width),
		URy: float64(height),
	}
	page, err := document.CreateSinglePage(fileName, paper, pdf.V1_7, nil)
	if err != nil {
		return nil, err
	}

	// PDF origin is bottom-left
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(height)})

	return &Surface{
		page:     page,
		width:    float64(width),
		height:   float64(height),
		logger:   logger,
		backdrop: 1,
	}, nil
}

// Close writes the PDF file.
func (s *Surface) Close() error {
	if s.skipped > 0 {
		s.logger.Debug("images skipped in PDF output", "count", s.skipped)
	}
	return s.page.Close()
}

// Fill implements the canvas.Surface interface.
func (s *Surface) Fill(c stdcolor.NRGBA) {
	if c.A == 0 {
		return
	}
	g := s.grey(c)
	s.page.SetFillColor(color.DeviceGray(g))
	s.page.Rectangle(0, 0, s.width, s.height)
	s.page.Fill()
	s.backdrop = g
}

// FillRect implements the canvas.Surface interface.
func (s *Surface) FillRect(r rect.Rect, p *canvas.Paint) {
	s.FillPath(canvas.RectPath(r), p)
}

// FillPath implements the canvas.Surface interface.
func (s *Surface) FillPath(p *path.Data, paint *canvas.Paint) {
	if p == nil || paint == nil || len(p.Cmds) == 0 {
		return
	}
	c := paint.Color
	if g, ok := paint.Shader.(*canvas.RadialGradient); ok {
		c = g.At(0)
	}
	if c.A == 0 {
		return
	}
	gray := color.DeviceGray(s.grey(c))

	if paint.Style == canvas.StyleStroke {
		width := paint.StrokeWidth
		if width <= 0 {
			width = 1
		}
		s.page.SetStrokeColor(gray)
		s.page.SetLineWidth(width)
		s.page.SetLineCap(graphics.LineCapButt)
		s.page.SetLineJoin(graphics.LineJoinMiter)
	} else {
		s.page.SetFillColor(gray)
	}

	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			s.page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			s.page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			s.page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			s.page.ClosePath()
		}
	}

	switch {
	case paint.Style == canvas.StyleStroke:
		s.page.Stroke()
	case paint.Rule == canvas.NonZero:
		s.page.Fill()
	default:
		s.page.FillEvenOdd()
	}
}

// DrawImage implements the canvas.Surface interface.  Images are not
// included in the PDF output.
func (s *Surface) DrawImage(img image.Image, dst rect.Rect) {
	s.skipped++
}

// Skipped returns the number of images which were left out.
func (s *Surface) Skipped() int {
	return s.skipped
}

// grey converts c to a grey level, blending translucent colours with the
// current backdrop.
func (s *Surface) grey(c stdcolor.NRGBA) float64 {
	y := Luminance(c)
	a := float64(c.A) / 255
	return a*y + (1-a)*s.backdrop
}

// Luminance returns the Rec. 601 luma of c in the range [0, 1], ignoring
// alpha.
func Luminance(c stdcolor.NRGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}
