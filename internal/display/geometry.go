package display

import (
	"image"
	"math"
	"time"

	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/platform"
)

// Numeral label box size in pixels.
const (
	LabelWidth  = 24
	LabelHeight = 16
)

// Numeral colours.
const (
	AccentColour = colour.Red
	BaseColour   = colour.Black
)

// BorderColour strokes the decorative rings.
const BorderColour = colour.DarkGray

const viiiNudge = 2

var numeralText = [12]string{"XII", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI"}

// Numeral is one placed Roman numeral label.
type Numeral struct {
	Text   string
	Box    image.Rectangle
	Colour colour.Colour
}

// MinuteAngle is the minute hand angle in degrees clockwise from twelve.
func MinuteAngle(t time.Time) int {
	return 360 * t.Minute() / 60
}

// HourAngle is the hour hand angle in degrees. It creeps forward in ten minute steps.
func HourAngle(t time.Time) int {
	return 360 * ((t.Hour()%12)*6 + t.Minute()/10) / 72
}

// Centre of the screen.
func Centre(caps platform.Capabilities) image.Point {
	return image.Pt(caps.Width/2, caps.Height/2)
}

// FaceRadius is the radius of the circle fitted into the screen.
func FaceRadius(caps platform.Capabilities) int {
	return min(caps.Width, caps.Height) / 2
}

// DotRadius is the radius of the centre dot.
func DotRadius(caps platform.Capabilities) int {
	return caps.Width / 24
}

// Numerals places the twelve labels on a ring inset from the face edge. Twelve gets
// the accent colour, all others the base colour.
func Numerals(caps platform.Capabilities) []Numeral {
	c := Centre(caps)
	r := float64(caps.Width/2 - caps.NumeralInset)
	out := make([]Numeral, len(numeralText))

	for i, text := range numeralText {
		a := float64(i) * math.Pi / 6
		x := c.X - LabelWidth/2 + trunc(math.Sin(a)*r)
		y := c.Y - LabelHeight/2 + trunc(-math.Cos(a)*r)
		w := LabelWidth

		if i == 8 {
			x += viiiNudge
			w += viiiNudge
		}

		col := BaseColour
		if i == 0 {
			col = AccentColour
		}

		out[i] = Numeral{Text: text, Box: image.Rect(x, y, x+w, y+LabelHeight), Colour: col}
	}

	return out
}

// RingRadii are the radii of the four decorative rings, outermost first.
func RingRadii(caps platform.Capabilities) [4]int {
	var out [4]int

	fr := FaceRadius(caps)
	for i, inset := range caps.BorderInsets {
		out[i] = fr - inset
	}

	return out
}

// QuickViewBox is where the digital time goes while the screen is obstructed.
func QuickViewBox(caps platform.Capabilities) image.Rectangle {
	return image.Rect(0, 2, caps.Width, 2+LabelHeight)
}

// trunc truncates toward zero like integer trig tables do, after dropping float noise.
func trunc(v float64) int {
	return int(math.Round(v*1e6) / 1e6)
}
