package image

import (
	"errors"
)

var (
	ErrorFormat = errors.New("invalid or unsupported image format")
	ErrDecode   = errors.New("decode image")
	ErrEncode   = errors.New("encode webp")
	ErrEmpty    = errors.New("image has no pixels")
)
