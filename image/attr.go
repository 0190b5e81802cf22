package image

import (
	"fmt"
	"image/color"
	"mime"
)

type Dimension uint32
type Size int64
type Quality uint8

// ColorMode is the channel layout an image is normalized to
type ColorMode uint8

const (
	ModeRGB ColorMode = iota + 1
	ModeRGBA
)

// Channels returns 3 for RGB and 4 for RGBA
func (m ColorMode) Channels() int {
	if m == ModeRGBA {
		return 4
	}
	return 3
}

func (m ColorMode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	}
	return "unknown"
}

// Attr ...
type Attr struct {
	Width  Dimension `json:"width"`
	Height Dimension `json:"height"`
	Size   Size      `json:"size"`
	Mode   ColorMode `json:"mode"`
	Ext    string    `json:"ext,omitempty"`
	Mime   string    `json:"mime,omitempty"`
	Name   string    `json:"name,omitempty"`
}

// NewAttr ...
func NewAttr(w, h int, mode ColorMode) *Attr {
	return &Attr{
		Width:  Dimension(w),
		Height: Dimension(h),
		Mode:   mode,
	}
}

func (a *Attr) setType(t TypeID) {
	a.Ext = ExtByType(t)
	a.Mime = mime.TypeByExtension(a.Ext)
	if a.Mime == "" && t == TypeWebP {
		a.Mime = "image/webp"
	}
}

// LongEdge returns the larger of width and height
func (a Attr) LongEdge() int {
	if a.Width > a.Height {
		return int(a.Width)
	}
	return int(a.Height)
}

func (a Attr) String() string {
	return fmt.Sprintf("%dx%d %s", a.Width, a.Height, a.Mode)
}

// ToMap ...
func (a Attr) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"width":  a.Width,
		"height": a.Height,
		"mode":   a.Mode.String(),
		"ext":    a.Ext,
		"mime":   a.Mime,
	}
	if a.Size > 0 {
		m["size"] = a.Size
	}
	return m
}

// modeOf picks the target mode from the decoded color model.
// Alpha and luminance-alpha sources decode to the N* models; RGBA models are
// shared by plain RGB sources, so those count as alpha only when m is not opaque.
func modeOf(cm color.Model, m interface{}) ColorMode {
	switch cm {
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model, color.NYCbCrAModel:
		return ModeRGBA
	case color.RGBAModel, color.RGBA64Model:
		if o, ok := m.(interface{ Opaque() bool }); ok && !o.Opaque() {
			return ModeRGBA
		}
	}
	return ModeRGB
}
