package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// Mode selects what the renderer draws for each face.
type Mode string

const (
	ModeShaded Mode = "shaded" // flat directional shading
	ModeFlat   Mode = "flat"   // one color, no lighting
	ModeWire   Mode = "wire"   // face edges only
)

// Config holds render settings as written in a JSON file or on the
// command line. Colors and vectors stay strings until Settings parses them.
type Config struct {
	// Output
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"` // file extension for batch output, without the dot

	// Scene
	Light      string `json:"light"` // "x,y,z"
	Color      string `json:"color"` // "R,G,B"
	Background string `json:"background"`
	Backdrop   string `json:"backdrop"` // image path drawn behind the mesh
	Strategy   string `json:"strategy"`
	Mode       string `json:"mode"`
	Fit        bool   `json:"fit"`

	Workers int `json:"workers"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width      int
	Height     int
	OutputDir  string
	Format     string
	Light      string
	Color      string
	Background string
	Backdrop   string
	Strategy   string
	Mode       string
	Fit        bool
	Workers    int
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Light != "" {
		c.Light = flags.Light
	}
	if flags.Color != "" {
		c.Color = flags.Color
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Backdrop != "" {
		c.Backdrop = flags.Backdrop
	}
	if flags.Strategy != "" {
		c.Strategy = flags.Strategy
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Fit {
		c.Fit = true
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 800
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Light == "" {
		c.Light = "0,0,1"
	}
	if c.Color == "" {
		c.Color = "255,255,255"
	}
	if c.Background == "" {
		c.Background = "0,0,0"
	}
	if c.Strategy == "" {
		c.Strategy = render.FillBarycentric.String()
	}
	if c.Mode == "" {
		c.Mode = string(ModeShaded)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Settings is a resolved Config with every field parsed.
type Settings struct {
	Width, Height int
	OutputDir     string
	Format        string
	Light         math3d.Vec3 // unit length
	Color         render.Color
	Background    render.Color
	Backdrop      string
	Strategy      render.FillStrategy
	Mode          Mode
	Fit           bool
	Workers       int
}

// Settings parses the string fields. Call Resolve first.
func (c Config) Settings() (Settings, error) {
	s := Settings{
		Width:     c.Width,
		Height:    c.Height,
		OutputDir: c.OutputDir,
		Format:    strings.TrimPrefix(strings.ToLower(c.Format), "."),
		Backdrop:  c.Backdrop,
		Fit:       c.Fit,
		Workers:   c.Workers,
	}
	if s.Width <= 0 || s.Height <= 0 {
		return Settings{}, fmt.Errorf("config: size %dx%d must be positive", s.Width, s.Height)
	}

	var err error
	if s.Light, err = ParseVec3(c.Light); err != nil {
		return Settings{}, fmt.Errorf("config: light: %w", err)
	}
	if s.Light, err = s.Light.Normalize(); err != nil {
		return Settings{}, fmt.Errorf("config: light: %w", err)
	}
	if s.Color, err = render.ParseColor(c.Color); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	if s.Background, err = render.ParseColor(c.Background); err != nil {
		return Settings{}, fmt.Errorf("config: background: %w", err)
	}
	if s.Strategy, err = render.ParseFillStrategy(c.Strategy); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	if _, err = render.FormatFromPath("out." + s.Format); err != nil {
		return Settings{}, fmt.Errorf("config: format: %w", err)
	}

	switch m := Mode(strings.ToLower(c.Mode)); m {
	case ModeShaded, ModeFlat, ModeWire:
		s.Mode = m
	default:
		return Settings{}, fmt.Errorf("config: unknown mode %q", c.Mode)
	}

	return s, nil
}

// ParseVec3 parses "x,y,z".
func ParseVec3(str string) (math3d.Vec3, error) {
	parts := strings.Split(str, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("vector %q: want x,y,z", str)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("vector %q: %w", str, err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}
