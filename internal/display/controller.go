// Package display decides what the watchface shows. The controller reacts to ticks,
// connectivity, obstruction and settings changes by invalidating regions, and draws
// the full face on a Canvas when asked to render.
package display

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/haptics"
	"github.com/rokkenjima/watchface/internal/host"
	"github.com/rokkenjima/watchface/internal/platform"
	"github.com/rokkenjima/watchface/internal/settings"
)

const quickViewLayout = "15:04"

// Source hands out the current settings record.
type Source interface {
	Current() settings.Record
}

// Frame summarises one render pass.
type Frame struct {
	Time        time.Time
	Background  colour.Colour
	MinuteAngle int
	HourAngle   int
	Numerals    []Numeral
	HandOrder   [2]HandKind
	NumeralFont platform.Font
	QuickView   bool
	Redrawn     []Region
}

// Options configure a Controller. Now and OnFrame are optional.
type Options struct {
	Caps     platform.Capabilities
	Canvas   Canvas
	Source   Source
	Vibrator haptics.Vibrator
	Now      func() time.Time
	OnFrame  func(Frame)
}

// Controller owns the display state. It is not safe for concurrent use; the host
// loop serialises every call.
type Controller struct {
	caps     platform.Capabilities
	canvas   Canvas
	source   Source
	vibrator haptics.Vibrator
	now      func() time.Time
	onFrame  func(Frame)

	regions    [regionCount]State
	background colour.Colour
	connected  bool
	obstructed bool
	last       Frame
}

// New returns a controller with every region dirty, assuming a connected phone and
// an unobstructed screen.
func New(opts Options) *Controller {
	c := &Controller{
		caps:      opts.Caps,
		canvas:    opts.Canvas,
		source:    opts.Source,
		vibrator:  opts.Vibrator,
		now:       opts.Now,
		onFrame:   opts.OnFrame,
		connected: true,
	}

	if c.now == nil {
		c.now = time.Now
	}

	c.background = c.source.Current().BackgroundColour
	c.invalidateAll()

	return c
}

// OnTick invalidates the hands. At the top of the hour it also requests the hourly
// pulse when enabled.
func (c *Controller) OnTick(_ time.Time, units host.TimeUnits) {
	c.invalidate(RegionHands)

	if c.obstructed && c.source.Current().DigitalQuickView {
		c.invalidate(RegionQuickView)
	}

	if units.Has(host.HourUnit) && c.source.Current().HourlyVibration {
		c.vibrate(haptics.Hourly)
	}
}

// OnConnectivityChange re-evaluates the background colour from scratch. While
// disconnected every call requests the disconnect pattern when enabled; the vibrator
// drops a copy that is still queued.
func (c *Controller) OnConnectivityChange(connected bool) {
	rec := c.source.Current()

	c.connected = connected
	c.setBackground(rec)

	if !connected && rec.BtVibration {
		c.vibrate(haptics.Disconnect)
	}
}

// OnObstructionChange swaps numeral font and pattern placement, and shows the
// digital quick view while obstructed when it is enabled.
func (c *Controller) OnObstructionChange(obstructed bool) {
	if c.obstructed == obstructed {
		return
	}

	c.obstructed = obstructed
	c.invalidate(RegionClock)

	if c.source.Current().DigitalQuickView {
		c.invalidate(RegionQuickView)
	}
}

// SettingsChanged invalidates everything and renders immediately.
func (c *Controller) SettingsChanged() {
	c.setBackground(c.source.Current())
	c.invalidateAll()
	c.Render(c.now())
}

// Flush renders if any region is dirty.
func (c *Controller) Flush() (Frame, bool) {
	for _, s := range c.regions {
		if s == Dirty {
			return c.Render(c.now()), true
		}
	}

	return Frame{}, false
}

// State of a region.
func (c *Controller) State(r Region) State {
	return c.regions[r]
}

// Background is the colour currently used behind the face.
func (c *Controller) Background() colour.Colour {
	return c.background
}

// Connected reports the last connectivity state seen.
func (c *Controller) Connected() bool {
	return c.connected
}

// Obstructed reports the last obstruction state seen.
func (c *Controller) Obstructed() bool {
	return c.obstructed
}

// LastFrame returns the summary of the most recent render.
func (c *Controller) LastFrame() Frame {
	return c.last
}

// Render draws the full face for now and marks every region clean. Geometry is
// recomputed on every pass.
func (c *Controller) Render(now time.Time) Frame {
	rec := c.source.Current()
	centre := Centre(c.caps)

	f := Frame{
		Time:        now,
		Background:  c.background,
		MinuteAngle: MinuteAngle(now),
		HourAngle:   HourAngle(now),
		Numerals:    Numerals(c.caps),
		HandOrder:   [2]HandKind{HourHand, MinuteHand},
		NumeralFont: c.caps.NumeralFont,
		QuickView:   rec.DigitalQuickView && c.obstructed,
	}

	if rec.HourOverMinute {
		f.HandOrder = [2]HandKind{MinuteHand, HourHand}
	}

	patternOffset, patternScale := c.caps.PatternOffset, c.caps.PatternScale
	if c.obstructed {
		f.NumeralFont = c.caps.ObstructedFont
		patternOffset, patternScale = c.caps.ObstructedPatternOffset, c.caps.ObstructedPatternScale
	}

	c.canvas.Fill(f.Background)
	c.canvas.FillCircle(centre, FaceRadius(c.caps), rec.ClockColour)

	if rec.ShowClockPattern {
		c.canvas.DrawPattern(centre.Add(patternOffset), patternScale, rec.ClockPatternColour)
	}

	for _, r := range RingRadii(c.caps) {
		c.canvas.StrokeCircle(centre, r, 1, BorderColour)
	}

	for _, n := range f.Numerals {
		c.canvas.DrawText(n.Text, f.NumeralFont, n.Box, n.Colour)
	}

	for _, kind := range f.HandOrder {
		h := Hand{
			Kind:    kind,
			Centre:  centre,
			Origin:  c.caps.HourHandOrigin,
			Scale:   c.caps.HandScale,
			Angle:   f.HourAngle,
			Fill:    rec.HandColour,
			Outline: rec.HandOutlineColour,
		}

		if kind == MinuteHand {
			h.Origin = c.caps.MinuteHandOrigin
			h.Angle = f.MinuteAngle
		}

		c.canvas.DrawHand(h)
	}

	dot := DotRadius(c.caps)
	c.canvas.FillCircle(centre, dot, rec.HandColour)
	c.canvas.StrokeCircle(centre, dot, 1, rec.HandOutlineColour)

	if f.QuickView {
		c.canvas.DrawText(now.Format(quickViewLayout), c.caps.ObstructedFont, QuickViewBox(c.caps),
			rec.DigitalQuickViewColour)
	}

	for r, s := range c.regions {
		if s == Dirty {
			f.Redrawn = append(f.Redrawn, Region(r))
			renders.WithLabelValues(Region(r).String()).Inc()
		}

		c.regions[r] = Clean
	}

	c.last = f

	log.Trace().
		Int("minute_angle", f.MinuteAngle).
		Int("hour_angle", f.HourAngle).
		Str("background", f.Background.String()).
		Bool("quick_view", f.QuickView).
		Msg("rendered frame")

	if c.onFrame != nil {
		c.onFrame(f)
	}

	return f
}

func (c *Controller) setBackground(rec settings.Record) {
	bg := rec.BackgroundColour
	if !c.connected {
		bg = rec.BtBackgroundColour
	}

	c.background = bg
	c.invalidate(RegionBackground)
}

func (c *Controller) vibrate(p haptics.Pattern) {
	if c.vibrator == nil {
		return
	}

	c.vibrator.Enqueue(p)
}

func (c *Controller) invalidate(r Region) {
	c.regions[r] = Dirty
}

func (c *Controller) invalidateAll() {
	for r := range c.regions {
		c.regions[r] = Dirty
	}
}
