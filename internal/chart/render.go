package chart

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	faceOnce sync.Once
	faceErr  error
	face     font.Face
)

func fontFace() (font.Face, error) {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			faceErr = fmt.Errorf("failed to parse embedded font: %w", err)
			return
		}
		face = truetype.NewFace(f, &truetype.Options{Size: 13})
	})
	return face, faceErr
}

// RenderPNG draws the spec and writes it to path.
func RenderPNG(s *Spec, path string, width, height int) error {
	dc, err := render(s, width, height)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

func render(s *Spec, width, height int) (*gg.Context, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 480
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	ff, err := fontFace()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(ff)

	const margin = 50.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin

	maxVal := 0.0
	for _, v := range s.Values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Axes
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1.5)
	dc.DrawLine(margin, margin, margin, margin+plotH)
	dc.DrawLine(margin, margin+plotH, margin+plotW, margin+plotH)
	dc.Stroke()

	// Title
	if s.Title != "" {
		dc.DrawStringAnchored(s.Title, float64(width)/2, margin/2, 0.5, 0.5)
	}

	n := len(s.Values)
	step := plotW / float64(n)

	switch s.Kind {
	case KindBar:
		dc.SetRGB(0.26, 0.45, 0.76)
		for i, v := range s.Values {
			h := (v / maxVal) * plotH
			x := margin + float64(i)*step + step*0.15
			dc.DrawRectangle(x, margin+plotH-h, step*0.7, h)
		}
		dc.Fill()
	case KindLine:
		dc.SetRGB(0.76, 0.33, 0.26)
		dc.SetLineWidth(2)
		for i, v := range s.Values {
			x := margin + (float64(i)+0.5)*step
			y := margin + plotH - (v/maxVal)*plotH
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	// X labels
	dc.SetRGB(0.2, 0.2, 0.2)
	for i, label := range s.Labels {
		x := margin + (float64(i)+0.5)*step
		dc.DrawStringAnchored(truncateLabel(label, 12), x, margin+plotH+14, 0.5, 0.5)
	}
	dc.DrawStringAnchored(fmt.Sprintf("%.0f", maxVal), margin-6, margin, 1, 0.5)
	dc.DrawStringAnchored("0", margin-6, margin+plotH, 1, 0.5)

	return dc, nil
}

func truncateLabel(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
