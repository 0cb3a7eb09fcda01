package display

import (
	"image"

	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/platform"
)

// HandKind tells the hour hand from the minute hand.
type HandKind int

// Hands.
const (
	HourHand HandKind = iota
	MinuteHand
)

func (h HandKind) String() string {
	if h == MinuteHand {
		return "minute"
	}

	return "hour"
}

// Hand describes one hand draw call. Origin is the top left corner of the upright
// hand relative to Centre; Scale is the artwork scale of the platform. Angle is in
// degrees clockwise from twelve.
type Hand struct {
	Kind    HandKind
	Centre  image.Point
	Origin  image.Point
	Scale   float64
	Angle   int
	Fill    colour.Colour
	Outline colour.Colour
}

// Canvas is the immediate mode drawing surface provided by the host.
type Canvas interface {
	Bounds() image.Rectangle
	Fill(c colour.Colour)
	FillCircle(centre image.Point, radius int, c colour.Colour)
	StrokeCircle(centre image.Point, radius, width int, c colour.Colour)
	DrawPattern(origin image.Point, scale float64, c colour.Colour)
	DrawText(text string, font platform.Font, box image.Rectangle, c colour.Colour)
	DrawHand(h Hand)
}
