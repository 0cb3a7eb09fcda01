// Package form serves the HTML settings page, the browser stand-in for the
// companion's configuration screen.
package form

import (
	"errors"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/channel"
	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/settings"
	"github.com/rokkenjima/watchface/internal/web/handler"
	"github.com/rokkenjima/watchface/internal/web/navigation"
)

const (
	// Path is the path of the settings page.
	Path = "/settings"

	// Template is the template rendered for the page.
	Template = "settings"

	pageTitle = "Settings"
)

// Service is the settings page handler service.
type Service struct {
	cfg  *config.Config
	face handler.Watchface
}

// Field is one form row.
type Field struct {
	Key     string
	Label   string
	Colour  bool
	Value   string
	Checked bool
}

// Init registers the settings page routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, face handler.Watchface) error {
	if app == nil || cfg == nil || face == nil {
		return errors.New(handler.ErrNilACFLogMsg)
	}

	s.cfg = cfg
	s.face = face

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the form with the current record.
func (s *Service) Get(c fiber.Ctx) error {
	rec, err := s.face.Settings(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to read settings")
		return c.Status(fiber.StatusServiceUnavailable).SendString("watchface is not running")
	}

	return s.render(c, rec, "", "")
}

// Post applies the submitted form. Unchecked boxes are not submitted by browsers, so
// every boolean missing from the form is switched off.
func (s *Service) Post(c fiber.Ctx) error {
	payload := PayloadFromForm(c.FormValue)

	d := channel.Delivery{
		ID:      channel.NewID(),
		Source:  channel.SourceWeb,
		Payload: payload,
	}

	res, err := s.face.Apply(c.Context(), d)

	rec, rerr := s.face.Settings(c.Context())
	if rerr != nil {
		log.Error().Err(rerr).Msg("failed to read settings")
		return c.Status(fiber.StatusServiceUnavailable).SendString("watchface is not running")
	}

	if err != nil {
		log.Warn().Err(err).Str("delivery", d.ID).Msg("settings form applied but not persisted")
		return s.render(c, rec, "", "Settings applied but could not be saved: "+err.Error())
	}

	log.Info().Str("delivery", d.ID).Int("applied", len(res.Applied)).Int("skipped", len(res.Skipped)).
		Msg("settings form applied")

	if len(res.Skipped) > 0 {
		return s.render(c, rec, "", "Ignored invalid values for: "+joinKeys(res.Skipped))
	}

	return s.render(c, rec, "Settings saved", "")
}

func (s *Service) render(c fiber.Ctx, rec settings.Record, success, failure string) error {
	nav := navigation.NewContext(s.cfg.Title, pageTitle, s.cfg.Platform, Path)

	return c.Render(Template, fiber.Map{
		"Navigation": nav,
		"Fields":     Fields(rec),
		"Success":    success,
		"Error":      failure,
	}, handler.BaseLayout)
}

// Fields lists the form rows of rec in layout order.
func Fields(rec settings.Record) []Field {
	keys := settings.Keys()
	out := make([]Field, 0, len(keys))

	for _, k := range keys {
		v, _ := rec.Value(k)
		f := Field{Key: string(k), Label: Label(k)}

		switch val := v.(type) {
		case colour.Colour:
			f.Colour = true
			f.Value = val.String()
		case bool:
			f.Checked = val
		}

		out = append(out, f)
	}

	return out
}

// PayloadFromForm builds a full update from form values looked up by get.
func PayloadFromForm(get func(key string, defaultValue ...string) string) settings.Payload {
	p := settings.Payload{}

	for _, k := range settings.Keys() {
		v := strings.TrimSpace(get(string(k)))
		kind, _ := settings.KindOf(k)

		switch kind {
		case settings.KindColour:
			if v != "" {
				p[k] = v
			}
		case settings.KindBool:
			p[k] = v != ""
		}
	}

	return p
}

// Label turns a message key into a human readable label.
func Label(k settings.Key) string {
	var b strings.Builder

	for i, r := range string(k) {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return strings.Replace(b.String(), "Bt ", "Bluetooth ", 1)
}

func joinKeys(keys []settings.Key) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = string(k)
	}

	return strings.Join(s, ", ")
}
