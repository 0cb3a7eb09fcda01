package settings

import (
	"github.com/rokkenjima/watchface/internal/colour"
)

// Key identifies a settings field on the configuration channel.
type Key string

// Message keys delivered by the configuration channel.
const (
	KeyBackgroundColour       Key = "BackgroundColour"
	KeyClockColour            Key = "ClockColour"
	KeyHandColour             Key = "HandColour"
	KeyHandOutlineColour      Key = "HandOutlineColour"
	KeyBtBackgroundColour     Key = "BtBackgroundColour"
	KeyShowClockPattern       Key = "ShowClockPattern"
	KeyHourOverMinute         Key = "HourOverMinute"
	KeyHourlyVibration        Key = "HourlyVibration"
	KeyBtVibration            Key = "BtVibration"
	KeyDigitalQuickView       Key = "DigitalQuickView"
	KeyClockPatternColour     Key = "ClockPatternColour"
	KeyDigitalQuickViewColour Key = "DigitalQuickViewColour"
)

// Kind is the wire type of a field.
type Kind int

// Field kinds.
const (
	KindColour Kind = iota
	KindBool
)

// field binds a message key to its slot in the record. The order of the table is the
// persisted layout order; since is the first layout version carrying the field.
type field struct {
	key    Key
	kind   Kind
	since  uint8
	colour func(*Record) *colour.Colour
	flag   func(*Record) *bool
}

var fields = []field{
	{key: KeyBackgroundColour, kind: KindColour, since: layoutV1, colour: func(r *Record) *colour.Colour { return &r.BackgroundColour }},
	{key: KeyClockColour, kind: KindColour, since: layoutV1, colour: func(r *Record) *colour.Colour { return &r.ClockColour }},
	{key: KeyHandColour, kind: KindColour, since: layoutV1, colour: func(r *Record) *colour.Colour { return &r.HandColour }},
	{key: KeyHandOutlineColour, kind: KindColour, since: layoutV1, colour: func(r *Record) *colour.Colour { return &r.HandOutlineColour }},
	{key: KeyBtBackgroundColour, kind: KindColour, since: layoutV1, colour: func(r *Record) *colour.Colour { return &r.BtBackgroundColour }},
	{key: KeyShowClockPattern, kind: KindBool, since: layoutV1, flag: func(r *Record) *bool { return &r.ShowClockPattern }},
	{key: KeyHourOverMinute, kind: KindBool, since: layoutV1, flag: func(r *Record) *bool { return &r.HourOverMinute }},
	{key: KeyHourlyVibration, kind: KindBool, since: layoutV1, flag: func(r *Record) *bool { return &r.HourlyVibration }},
	{key: KeyBtVibration, kind: KindBool, since: layoutV1, flag: func(r *Record) *bool { return &r.BtVibration }},
	{key: KeyDigitalQuickView, kind: KindBool, since: layoutV2, flag: func(r *Record) *bool { return &r.DigitalQuickView }},
	{key: KeyClockPatternColour, kind: KindColour, since: layoutV2, colour: func(r *Record) *colour.Colour { return &r.ClockPatternColour }},
	{key: KeyDigitalQuickViewColour, kind: KindColour, since: layoutV2, colour: func(r *Record) *colour.Colour { return &r.DigitalQuickViewColour }},
}

// Keys lists every known message key in layout order.
func Keys() []Key {
	keys := make([]Key, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}

	return keys
}

// KindOf reports the wire type of a key.
func KindOf(k Key) (Kind, bool) {
	for _, f := range fields {
		if f.key == k {
			return f.kind, true
		}
	}

	return 0, false
}

// Value returns the value r holds for k, a colour.Colour or a bool.
func (r Record) Value(k Key) (any, bool) {
	for _, f := range fields {
		if f.key != k {
			continue
		}

		if f.kind == KindColour {
			return *f.colour(&r), true
		}

		return *f.flag(&r), true
	}

	return nil, false
}
