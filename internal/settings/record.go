// Package settings owns the canonical appearance and behaviour configuration of the
// watchface: default synthesis, merging of sparse updates from the configuration
// channel, and write-through persistence as a versioned blob.
package settings

import (
	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/platform"
)

// Record is the full settings record. Every field always carries a valid value.
type Record struct {
	BackgroundColour   colour.Colour `json:"BackgroundColour"   toml:"BackgroundColour"   yaml:"BackgroundColour"`
	ClockColour        colour.Colour `json:"ClockColour"        toml:"ClockColour"        yaml:"ClockColour"`
	HandColour         colour.Colour `json:"HandColour"         toml:"HandColour"         yaml:"HandColour"`
	HandOutlineColour  colour.Colour `json:"HandOutlineColour"  toml:"HandOutlineColour"  yaml:"HandOutlineColour"`
	BtBackgroundColour colour.Colour `json:"BtBackgroundColour" toml:"BtBackgroundColour" yaml:"BtBackgroundColour"`

	ShowClockPattern bool `json:"ShowClockPattern" toml:"ShowClockPattern" yaml:"ShowClockPattern"`
	HourOverMinute   bool `json:"HourOverMinute"   toml:"HourOverMinute"   yaml:"HourOverMinute"`
	HourlyVibration  bool `json:"HourlyVibration"  toml:"HourlyVibration"  yaml:"HourlyVibration"`
	BtVibration      bool `json:"BtVibration"      toml:"BtVibration"      yaml:"BtVibration"`
	DigitalQuickView bool `json:"DigitalQuickView" toml:"DigitalQuickView" yaml:"DigitalQuickView"`

	ClockPatternColour     colour.Colour `json:"ClockPatternColour"     toml:"ClockPatternColour"     yaml:"ClockPatternColour"`
	DigitalQuickViewColour colour.Colour `json:"DigitalQuickViewColour" toml:"DigitalQuickViewColour" yaml:"DigitalQuickViewColour"`
}

// Defaults synthesises the fallback record for a display class.
func Defaults(caps platform.Capabilities) Record {
	r := Record{
		BackgroundColour:       colour.Black,
		ClockColour:            colour.White,
		HandColour:             colour.Black,
		HandOutlineColour:      colour.White,
		BtBackgroundColour:     colour.White,
		ShowClockPattern:       true,
		HourOverMinute:         false,
		HourlyVibration:        false,
		BtVibration:            true,
		DigitalQuickView:       false,
		ClockPatternColour:     colour.Black,
		DigitalQuickViewColour: colour.White,
	}

	if caps.Colour {
		r.ClockColour = colour.PastelYellow
		r.HandColour = colour.ChromeYellow
		r.HandOutlineColour = colour.WindsorTan
		r.BtBackgroundColour = colour.Red
		r.ClockPatternColour = colour.DarkGray
	}

	return r
}
