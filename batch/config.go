package batch

import (
	"path/filepath"
	"strconv"
	"strings"

	cimg "github.com/go-imsto/imwebp/image"
	"github.com/go-imsto/imwebp/utils"
)

const (
	OutputDirName = "output_webp"
	ThumbSuffix   = "_thumb"
	OutputExt     = ".webp"

	DefaultMaxEdge   = 1600
	DefaultQuality   = 75
	DefaultThumbEdge = 300
)

// Config is the immutable setting of one run
type Config struct {
	InputDir       string
	OutputDir      string
	MaxEdge        uint
	Quality        int
	DeleteOriginal bool
	Thumbnail      bool
	ThumbEdge      uint
}

// Validate checks the invariants a run relies on
func (c Config) Validate() error {
	if c.InputDir == "" {
		return &ConfigError{Field: "dir", Reason: "no folder selected"}
	}
	if c.OutputDir == "" {
		return &ConfigError{Field: "output", Reason: "empty output folder"}
	}
	if c.MaxEdge == 0 {
		return &ConfigError{Field: "size", Value: "0", Reason: "must be a positive number of pixels"}
	}
	if c.Quality < int(cimg.MinQuality) || c.Quality > int(cimg.MaxQuality) {
		return &ConfigError{Field: "quality", Value: strconv.Itoa(c.Quality), Reason: "must be between 1 and 100"}
	}
	if c.Thumbnail && c.ThumbEdge == 0 {
		return &ConfigError{Field: "thumb-size", Value: "0", Reason: "must be a positive number of pixels"}
	}
	return nil
}

// WriteOption is the encoder setting shared by main images and thumbnails
func (c Config) WriteOption() cimg.WriteOption {
	return cimg.DefaultWriteOption(cimg.Quality(c.Quality))
}

// Form holds the raw values typed by the user
type Form struct {
	Dir            string `form:"dir"`
	MaxEdge        string `form:"size"`
	Quality        string `form:"quality"`
	Thumbnail      bool   `form:"thumb"`
	ThumbEdge      string `form:"thumb_size"`
	DeleteOriginal bool   `form:"delete"`
	// OutputDirName overrides OutputDirName when set
	OutputDirName string `form:"output"`
}

// ParseConfig turns a Form into a validated Config.
// It only reads the filesystem, nothing is created.
func ParseConfig(f Form) (Config, error) {
	dir := strings.TrimSpace(f.Dir)
	if dir == "" {
		return Config{}, &ConfigError{Field: "dir", Reason: "no folder selected"}
	}
	if !utils.IsDir(dir) {
		return Config{}, &ConfigError{Field: "dir", Value: dir, Reason: "not a folder"}
	}

	maxEdge, err := parseEdge("size", f.MaxEdge)
	if err != nil {
		return Config{}, err
	}
	quality, err := strconv.Atoi(strings.TrimSpace(f.Quality))
	if err != nil {
		return Config{}, &ConfigError{Field: "quality", Value: f.Quality, Reason: "must be a number"}
	}

	name := f.OutputDirName
	if name == "" {
		name = OutputDirName
	}
	c := Config{
		InputDir:       dir,
		OutputDir:      filepath.Join(dir, name),
		MaxEdge:        maxEdge,
		Quality:        quality,
		DeleteOriginal: f.DeleteOriginal,
		Thumbnail:      f.Thumbnail,
		ThumbEdge:      DefaultThumbEdge,
	}
	if f.Thumbnail {
		if c.ThumbEdge, err = parseEdge("thumb-size", f.ThumbEdge); err != nil {
			return Config{}, err
		}
	}
	if err = c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func parseEdge(field, s string) (uint, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ConfigError{Field: field, Value: s, Reason: "must be a number"}
	}
	if n <= 0 {
		return 0, &ConfigError{Field: field, Value: s, Reason: "must be a positive number of pixels"}
	}
	return uint(n), nil
}
