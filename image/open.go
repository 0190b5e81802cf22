package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Open decodes the image file at filename with its EXIF orientation applied.
// The returned Attr carries the color mode the source should be normalized to.
func Open(filename string) (image.Image, *Attr, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	m, attr, err := Decode(f)
	if err != nil {
		return nil, nil, err
	}
	attr.Name = filepath.Base(filename)
	if fi, err := f.Stat(); err == nil {
		attr.Size = Size(fi.Size())
	}
	return m, attr, nil
}

// Decode reads a whole image from rs, the reader is rewound between the
// header probe and the pixel decode.
func Decode(rs io.ReadSeeker) (image.Image, *Attr, error) {
	rr := asReader(rs)
	t := GuessType(readHead(rr))
	if t == TypeNone {
		return nil, nil, ErrorFormat
	}

	cfg, _, err := image.DecodeConfig(rr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, nil, ErrEmpty
	}

	if _, err = rs.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	m, err := imaging.Decode(rs, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	b := m.Bounds()
	attr := NewAttr(b.Dx(), b.Dy(), modeOf(cfg.ColorModel, m))
	attr.setType(t)
	return m, attr, nil
}

// ReadWebPAttr reads dimensions and alpha presence of an encoded webp file
// without decoding its pixels.
func ReadWebPAttr(filename string) (*Attr, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := webp.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	attr := NewAttr(cfg.Width, cfg.Height, modeOf(cfg.ColorModel, nil))
	attr.setType(TypeWebP)
	attr.Name = filepath.Base(filename)
	if fi, err := f.Stat(); err == nil {
		attr.Size = Size(fi.Size())
	}
	return attr, nil
}
