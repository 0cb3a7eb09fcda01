// Package platform holds the capability table of the supported watch display classes.
// The entry is resolved once at startup and handed to every component that needs
// shape, size or colour dependent constants.
package platform

import (
	"errors"
	"fmt"
	"image"
	"sort"
)

// ErrUnknownPlatform is returned by Lookup for names missing from the table.
var ErrUnknownPlatform = errors.New("unknown platform")

// Shape of the display.
type Shape int

// Display shapes.
const (
	ShapeRect Shape = iota
	ShapeRound
)

func (s Shape) String() string {
	if s == ShapeRound {
		return "round"
	}

	return "rect"
}

// Font selects one of the numeral faces provided by the canvas.
type Font int

// Numeral faces.
const (
	FontSmall Font = iota
	FontLarge
)

// Capabilities describes a display class.
type Capabilities struct {
	Name   string
	Width  int
	Height int
	Shape  Shape
	Colour bool

	// BorderInsets are the insets of the four decorative rings, outermost first.
	BorderInsets [4]int
	// NumeralInset is the distance of the numeral ring from the face edge.
	NumeralInset int
	NumeralFont  Font
	// ObstructedFont replaces NumeralFont while part of the screen is obstructed.
	ObstructedFont Font

	// HandScale scales the hand artwork; the origins are relative to the face centre
	// and mark the top left corner of the upright hand.
	HandScale        float64
	HourHandOrigin   image.Point
	MinuteHandOrigin image.Point

	PatternOffset           image.Point
	PatternScale            float64
	ObstructedPatternOffset image.Point
	ObstructedPatternScale  float64
}

// Bounds returns the full screen rectangle.
func (c Capabilities) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

var rectDefaults = Capabilities{
	Width:                   144,
	Height:                  168,
	Shape:                   ShapeRect,
	BorderInsets:            [4]int{4, 6, 48, 50},
	NumeralInset:            16,
	NumeralFont:             FontSmall,
	ObstructedFont:          FontSmall,
	HandScale:               10,
	HourHandOrigin:          image.Pt(-8, -40),
	MinuteHandOrigin:        image.Pt(-8, -60),
	PatternOffset:           image.Pt(-52, -50),
	PatternScale:            1,
	ObstructedPatternOffset: image.Pt(-39, -48),
	ObstructedPatternScale:  0.75,
}

var table = map[string]Capabilities{
	"aplite":  with(rectDefaults, "aplite", false),
	"basalt":  with(rectDefaults, "basalt", true),
	"diorite": with(rectDefaults, "diorite", false),
	"chalk": {
		Name:                    "chalk",
		Width:                   180,
		Height:                  180,
		Shape:                   ShapeRound,
		Colour:                  true,
		BorderInsets:            [4]int{8, 10, 64, 66},
		NumeralInset:            24,
		NumeralFont:             FontLarge,
		ObstructedFont:          FontSmall,
		HandScale:               12.5,
		HourHandOrigin:          image.Pt(-10, -45),
		MinuteHandOrigin:        image.Pt(-10, -72),
		PatternOffset:           image.Pt(-52, -50),
		PatternScale:            1,
		ObstructedPatternOffset: image.Pt(-39, -52),
		ObstructedPatternScale:  0.75,
	},
	"emery": {
		Name:                    "emery",
		Width:                   200,
		Height:                  228,
		Shape:                   ShapeRect,
		Colour:                  true,
		BorderInsets:            [4]int{6, 8, 66, 68},
		NumeralInset:            20,
		NumeralFont:             FontLarge,
		ObstructedFont:          FontSmall,
		HandScale:               14,
		HourHandOrigin:          image.Pt(-11, -54),
		MinuteHandOrigin:        image.Pt(-11, -82),
		PatternOffset:           image.Pt(-72, -70),
		PatternScale:            1.4,
		ObstructedPatternOffset: image.Pt(-54, -66),
		ObstructedPatternScale:  1.05,
	},
}

func with(base Capabilities, name string, colour bool) Capabilities {
	base.Name = name
	base.Colour = colour

	return base
}

// Lookup resolves a platform by name.
func Lookup(name string) (Capabilities, error) {
	caps, ok := table[name]
	if !ok {
		return Capabilities{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}

	return caps, nil
}

// Names lists all known platforms in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
