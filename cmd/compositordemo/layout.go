package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// layout describes the desktop the demo composites.
type layout struct {
	Background string         `toml:"background"`
	Outputs    []outputLayout `toml:"outputs"`
	Windows    []windowLayout `toml:"windows"`
	Cursor     *cursorLayout  `toml:"cursor"`
}

type outputLayout struct {
	Name   string  `toml:"name"`
	X      int     `toml:"x"`
	Y      int     `toml:"y"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"`
}

type windowLayout struct {
	X          int     `toml:"x"`
	Y          int     `toml:"y"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Color      string  `toml:"color"`
	Opacity    float64 `toml:"opacity"`
	Fullscreen bool    `toml:"fullscreen"`
}

type cursorLayout struct {
	X        int    `toml:"x"`
	Y        int    `toml:"y"`
	Size     int    `toml:"size"`
	HotspotX int    `toml:"hotspot_x"`
	HotspotY int    `toml:"hotspot_y"`
	Color    string `toml:"color"`
	Software bool   `toml:"software"`
}

// defaultLayout is one output with three overlapping windows and a cursor.
func defaultLayout(width, height int, scale float64) *layout {
	return &layout{
		Background: "#1d1f21",
		Outputs: []outputLayout{
			{Name: "DP-1", Width: width, Height: height, Scale: scale},
		},
		Windows: []windowLayout{
			{X: 60, Y: 60, Width: 320, Height: 240, Color: "#cc6666"},
			{X: 220, Y: 160, Width: 320, Height: 240, Color: "#b5bd68", Opacity: 0.8},
			{X: 420, Y: 260, Width: 280, Height: 200, Color: "#81a2be"},
		},
		Cursor: &cursorLayout{X: 100, Y: 100, Size: 16, Color: "#ffffff"},
	}
}

func loadLayout(path string) (*layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeLayout(f)
}

// decodeLayout reads a TOML layout. Unknown keys are errors.
func decodeLayout(r io.Reader) (*layout, error) {
	var l layout
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&l); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("layout: %s", strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("layout: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *layout) validate() error {
	if len(l.Outputs) == 0 {
		return errors.New("layout: no outputs")
	}
	for i, o := range l.Outputs {
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("layout: output %d: invalid size %dx%d", i, o.Width, o.Height)
		}
		if o.Scale < 0 {
			return fmt.Errorf("layout: output %d: negative scale", i)
		}
	}
	for i, w := range l.Windows {
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("layout: window %d: invalid size %dx%d", i, w.Width, w.Height)
		}
		if _, err := parseColor(w.Color); err != nil {
			return fmt.Errorf("layout: window %d: %w", i, err)
		}
	}
	if l.Background != "" {
		if _, err := parseColor(l.Background); err != nil {
			return fmt.Errorf("layout: background: %w", err)
		}
	}
	if c := l.Cursor; c != nil {
		if c.Size <= 0 {
			return errors.New("layout: cursor: size must be positive")
		}
		if _, err := parseColor(c.Color); err != nil {
			return fmt.Errorf("layout: cursor: %w", err)
		}
	}
	return nil
}

func (o outputLayout) geometry() image.Rectangle {
	return image.Rect(o.X, o.Y, o.X+o.Width, o.Y+o.Height)
}

func (w windowLayout) geometry() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// parseColor parses "#rrggbb" and "#rrggbbaa". An empty string is white.
func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	}
	c := color.RGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = errors.New("want #rrggbb or #rrggbbaa")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
