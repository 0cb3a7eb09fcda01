// Package colour implements the 8-bit ARGB2222 colour model used by the watch firmware.
package colour

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Colour is a packed ARGB2222 value: two bits per channel, alpha in the top bits.
type Colour uint8

// Named colours used by the default settings and the clock face.
const (
	Clear        Colour = 0x00
	Black        Colour = 0xC0
	White        Colour = 0xFF
	Red          Colour = 0xF0
	DarkGray     Colour = 0xD5
	LightGray    Colour = 0xEA
	PastelYellow Colour = 0xFE
	ChromeYellow Colour = 0xF8
	WindsorTan   Colour = 0xE4
)

const (
	channelStep = 85 // 255 / 3
	lumaCutoff  = 128
)

// FromRGB builds an opaque colour from 8-bit channels, keeping the two most significant bits.
func FromRGB(r, g, b uint8) Colour {
	return Colour(0xC0 | (r>>6)<<4 | (g>>6)<<2 | b>>6)
}

// FromHEX converts a packed 0xRRGGBB value. Bits above the 24-bit range are ignored.
func FromHEX(hex uint32) Colour {
	return FromRGB(uint8(hex>>16), uint8(hex>>8), uint8(hex))
}

// ParseHEX accepts "#RRGGBB", "0xRRGGBB" or bare "RRGGBB".
func ParseHEX(s string) (Colour, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")

	if len(raw) != 6 { //nolint:mnd
		return Clear, fmt.Errorf("colour %q: %w", s, ErrInvalidHEX)
	}

	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Clear, fmt.Errorf("colour %q: %w", s, ErrInvalidHEX)
	}

	return FromHEX(uint32(v)), nil
}

// FromPacked converts a colour code as sent by the companion, a 32-bit integer
// holding 0xRRGGBB. Signed and unsigned 32-bit values are both accepted and the upper
// byte is ignored. ok is false for values outside 32 bits.
func FromPacked(v int64) (c Colour, ok bool) {
	if v < math.MinInt32 || v > math.MaxUint32 {
		return Clear, false
	}

	return FromHEX(uint32(v)), true
}

func (c Colour) channels() (a, r, g, b uint8) {
	return uint8(c>>6) & 3, uint8(c>>4) & 3, uint8(c>>2) & 3, uint8(c) & 3
}

// HEX returns the colour expanded back to 0xRRGGBB.
func (c Colour) HEX() uint32 {
	_, r, g, b := c.channels()

	return uint32(r)*channelStep<<16 | uint32(g)*channelStep<<8 | uint32(b)*channelStep
}

// String renders the colour as "#rrggbb".
func (c Colour) String() string {
	return fmt.Sprintf("#%06x", c.HEX())
}

// RGBA converts to a standard library colour.
func (c Colour) RGBA() color.RGBA {
	a, r, g, b := c.channels()

	return color.RGBA{
		R: r * channelStep,
		G: g * channelStep,
		B: b * channelStep,
		A: a * channelStep,
	}
}

// Mono maps the colour onto the black and white palette of monochrome displays.
// Transparent colours stay transparent.
func (c Colour) Mono() Colour {
	a, _, _, _ := c.channels()
	if a == 0 {
		return Clear
	}

	rgba := c.RGBA()
	luma := (299*int(rgba.R) + 587*int(rgba.G) + 114*int(rgba.B)) / 1000 //nolint:mnd

	if luma >= lumaCutoff {
		return White
	}

	return Black
}
