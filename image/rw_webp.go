package image

import (
	"fmt"
	"image"
	"io"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/go-imsto/imwebp/utils"
)

const (
	// MaxMethod is libwebp's slowest and smallest compression effort
	MaxMethod = 6

	MinQuality Quality = 1
	MaxQuality Quality = 100
)

// WriteOption ...
type WriteOption struct {
	Quality Quality
	Method  int
}

// DefaultWriteOption is lossy at quality q with the maximum effort
func DefaultWriteOption(q Quality) WriteOption {
	return WriteOption{Quality: q, Method: MaxMethod}
}

func (wopt WriteOption) encoderOptions() (*encoder.Options, error) {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(wopt.Quality))
	if err != nil {
		return nil, err
	}
	if wopt.Method >= 0 && wopt.Method <= MaxMethod {
		opts.Method = wopt.Method
	}
	return opts, nil
}

// EncodeWebP writes m to w as webp and returns the encoded size
func EncodeWebP(w io.Writer, m image.Image, wopt WriteOption) (int, error) {
	if wopt.Quality < MinQuality || wopt.Quality > MaxQuality {
		return 0, fmt.Errorf("%w: quality %d out of range", ErrEncode, wopt.Quality)
	}
	if m.Bounds().Empty() {
		return 0, ErrEmpty
	}
	opts, err := wopt.encoderOptions()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	var cw CountWriter
	if err = webp.Encode(io.MultiWriter(w, &cw), asEncodable(m), opts); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return cw.Len(), nil
}

// SaveWebP encodes m into filename, replacing an existing file only on success
func SaveWebP(filename string, m image.Image, wopt WriteOption) (int, error) {
	var size int
	err := utils.WriteFile(filename, func(w io.Writer) (err error) {
		size, err = EncodeWebP(w, m, wopt)
		return
	})
	return size, err
}

// asEncodable hands the encoder a straight NRGBA image
func asEncodable(m image.Image) image.Image {
	switch v := m.(type) {
	case *Normalized:
		return v.NRGBA
	case *image.NRGBA:
		return v
	}
	return cloneNRGBA(m)
}
