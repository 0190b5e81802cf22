package image

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ThumbOption bounds the long edge of a proportional resize
type ThumbOption struct {
	MaxEdge uint
	WriteOption
}

func (topt ThumbOption) String() string {
	return fmt.Sprintf("edge %d q%d m%d", topt.MaxEdge, topt.Quality, topt.Method)
}

// Resized describes one proportional resize
type Resized struct {
	FromW, FromH int
	ToW, ToH     int
}

// Changed reports whether the dimensions differ
func (r Resized) Changed() bool {
	return r.FromW != r.ToW || r.FromH != r.ToH
}

func (r Resized) String() string {
	if !r.Changed() {
		return "unchanged"
	}
	return fmt.Sprintf("%dx%d -> %dx%d", r.FromW, r.FromH, r.ToW, r.ToH)
}

// Fit scales w x h so the long edge does not exceed edge, keeping the aspect ratio.
// Images already within edge keep their size.
func Fit(w, h int, edge uint) Resized {
	r := Resized{FromW: w, FromH: h, ToW: w, ToH: h}
	long := w
	if h > long {
		long = h
	}
	if edge == 0 || long <= int(edge) {
		return r
	}
	scale := float64(edge) / float64(long)
	r.ToW = roundDim(float64(w) * scale)
	r.ToH = roundDim(float64(h) * scale)
	return r
}

func roundDim(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// ThumbnailImage resizes img with Lanczos so it fits topt.MaxEdge.
// An image already within bounds is returned as is.
func ThumbnailImage(img image.Image, topt ThumbOption) (image.Image, Resized, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, Resized{}, ErrEmpty
	}
	r := Fit(b.Dx(), b.Dy(), topt.MaxEdge)
	if !r.Changed() {
		return img, r, nil
	}
	return Resize(img, r.ToW, r.ToH), r, nil
}

// Resize scales img to exactly w x h with Lanczos3 resampling.
func Resize(img image.Image, w, h int) *image.NRGBA {
	m := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	// nfnt hands back premultiplied RGBA for NRGBA input
	return imaging.Clone(m)
}
