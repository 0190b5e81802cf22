package image

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Normalized is a decoded image converted to straight NRGBA pixels.
// In ModeRGB every pixel is opaque.
type Normalized struct {
	*image.NRGBA
	Mode ColorMode
}

// Normalize converts m to the channel layout of mode.
// Dropping alpha keeps each pixel's color values, transparent pixels do not turn black.
func Normalize(m image.Image, mode ColorMode) *Normalized {
	dst := cloneNRGBA(m)
	if mode != ModeRGBA {
		mode = ModeRGB
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 0xff
		}
	}
	return &Normalized{NRGBA: dst, Mode: mode}
}

// Opaque reports whether every pixel is fully opaque
func (n *Normalized) Opaque() bool {
	if n.Mode == ModeRGB {
		return true
	}
	return n.NRGBA.Opaque()
}

// cloneNRGBA copies m into a zero-origin NRGBA.
// Palette entries are converted directly so a transparent entry keeps its color.
func cloneNRGBA(m image.Image) *image.NRGBA {
	p, ok := m.(*image.Paletted)
	if !ok {
		return imaging.Clone(m)
	}
	pal := make([]color.NRGBA, len(p.Palette))
	for i, c := range p.Palette {
		pal[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	b := p.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := p.Pix[y*p.Stride : y*p.Stride+b.Dx()]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for x, idx := range src {
			if int(idx) >= len(pal) {
				continue
			}
			c := pal[idx]
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
	return dst
}
