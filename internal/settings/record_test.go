package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rokkenjima/watchface/internal/colour"
)

func TestDefaults(t *testing.T) {
	testCases := []struct {
		platform string
		expected Record
	}{
		{
			platform: "basalt",
			expected: Record{
				BackgroundColour:       colour.Black,
				ClockColour:            colour.PastelYellow,
				HandColour:             colour.ChromeYellow,
				HandOutlineColour:      colour.WindsorTan,
				BtBackgroundColour:     colour.Red,
				ShowClockPattern:       true,
				HourOverMinute:         false,
				HourlyVibration:        false,
				BtVibration:            true,
				DigitalQuickView:       false,
				ClockPatternColour:     colour.DarkGray,
				DigitalQuickViewColour: colour.White,
			},
		},
		{
			platform: "aplite",
			expected: Record{
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
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.platform, func(t *testing.T) {
			assert.Equal(t, tc.expected, Defaults(capsFor(t, tc.platform)))
		})
	}
}

func TestDefaultsAreStable(t *testing.T) {
	for _, name := range []string{"aplite", "basalt", "chalk", "diorite", "emery"} {
		caps := capsFor(t, name)
		assert.Equal(t, Defaults(caps), Defaults(caps), name)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()

	assert.Len(t, keys, 12)
	assert.Equal(t, KeyBackgroundColour, keys[0])
	assert.Equal(t, KeyDigitalQuickViewColour, keys[11])

	kind, ok := KindOf(KeyHourlyVibration)
	assert.True(t, ok)
	assert.Equal(t, KindBool, kind)

	kind, ok = KindOf(KeyClockPatternColour)
	assert.True(t, ok)
	assert.Equal(t, KindColour, kind)

	_, ok = KindOf("Brightness")
	assert.False(t, ok)
}

func TestRecordValue(t *testing.T) {
	r := Defaults(capsFor(t, "basalt"))

	v, ok := r.Value(KeyHandColour)
	assert.True(t, ok)
	assert.Equal(t, colour.ChromeYellow, v)

	v, ok = r.Value(KeyBtVibration)
	assert.True(t, ok)
	assert.Equal(t, true, v)

	_, ok = r.Value("Brightness")
	assert.False(t, ok)
}
