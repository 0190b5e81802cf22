// Package config loads the application settings from the environment
// and optional preset files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/go-imsto/imwebp/batch"
)

// Prefix of all environment variables, e.g. IMWEBP_QUALITY
const Prefix = "imwebp"

// color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// vars
var (
	// Version is stamped at build time
	Version = "0.1.0"

	ErrColorMode = errors.New("color must be auto, always or never")
)

// Settings are the defaults offered to every front end
type Settings struct {
	Develop        bool   `envconfig:"DEVELOP"`
	MaxEdge        uint   `envconfig:"MAX_EDGE" default:"1600"`
	Quality        int    `envconfig:"QUALITY" default:"75"`
	Thumbnail      bool   `envconfig:"THUMBNAIL"`
	ThumbEdge      uint   `envconfig:"THUMB_EDGE" default:"300"`
	DeleteOriginal bool   `envconfig:"DELETE_ORIGINAL"`
	OutputDirName  string `envconfig:"OUTPUT_DIR_NAME" default:"output_webp"`
	SentryDSN      string `envconfig:"SENTRY_DSN"`
	Color          string `envconfig:"COLOR" default:"auto"`
}

// Load reads Settings from the environment
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process(Prefix, &s); err != nil {
		return s, err
	}
	s.Color = strings.ToLower(s.Color)
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return s, fmt.Errorf("%s: %w", s.Color, ErrColorMode)
	}
	return s, nil
}

// Usage writes the list of environment variables to stdout
func Usage() error {
	var s Settings
	return envconfig.Usage(Prefix, &s)
}

// Preset overrides some Settings, unset fields keep their value
type Preset struct {
	MaxEdge        *uint   `yaml:"max_edge"`
	Quality        *int    `yaml:"quality"`
	Thumbnail      *bool   `yaml:"thumbnail"`
	ThumbEdge      *uint   `yaml:"thumb_edge"`
	DeleteOriginal *bool   `yaml:"delete_original"`
	OutputDirName  *string `yaml:"output_dir"`
}

// LoadPreset reads a yaml preset, unknown keys are rejected
func LoadPreset(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var p Preset
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return &p, nil
}

// Apply returns s with the fields set in p
func (s Settings) Apply(p *Preset) Settings {
	if p == nil {
		return s
	}
	if p.MaxEdge != nil {
		s.MaxEdge = *p.MaxEdge
	}
	if p.Quality != nil {
		s.Quality = *p.Quality
	}
	if p.Thumbnail != nil {
		s.Thumbnail = *p.Thumbnail
	}
	if p.ThumbEdge != nil {
		s.ThumbEdge = *p.ThumbEdge
	}
	if p.DeleteOriginal != nil {
		s.DeleteOriginal = *p.DeleteOriginal
	}
	if p.OutputDirName != nil && *p.OutputDirName != "" {
		s.OutputDirName = *p.OutputDirName
	}
	return s
}

// Form prefills a batch.Form for dir with the settings
func (s Settings) Form(dir string) batch.Form {
	return batch.Form{
		Dir:            dir,
		MaxEdge:        strconv.FormatUint(uint64(s.MaxEdge), 10),
		Quality:        strconv.Itoa(s.Quality),
		Thumbnail:      s.Thumbnail,
		ThumbEdge:      strconv.FormatUint(uint64(s.ThumbEdge), 10),
		DeleteOriginal: s.DeleteOriginal,
		OutputDirName:  s.OutputDirName,
	}
}
