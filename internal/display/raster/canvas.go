// Package raster implements the display canvas on an in-memory RGBA image, so frames
// can be inspected, served and written as PNG.
package raster

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/display"
	"github.com/rokkenjima/watchface/internal/platform"
)

//go:embed assets/pattern.svg
var patternSVG []byte

// Canvas draws on an RGBA image sized to the platform screen. Monochrome platforms
// have every colour mapped to black or white.
type Canvas struct {
	caps    platform.Capabilities
	img     *image.RGBA
	filler  *rasterx.Filler
	pattern *oksvg.SvgIcon
	masks   map[float64]*image.Alpha
	faces   map[platform.Font]font.Face
}

var _ display.Canvas = (*Canvas)(nil)

// New returns a blank canvas for caps.
func New(caps platform.Capabilities) (*Canvas, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(patternSVG))
	if err != nil {
		return nil, fmt.Errorf("read pattern artwork: %w", err)
	}

	img := image.NewRGBA(caps.Bounds())
	w, h := caps.Width, caps.Height
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())

	return &Canvas{
		caps:    caps,
		img:     img,
		filler:  rasterx.NewFiller(w, h, scanner),
		pattern: icon,
		masks:   make(map[float64]*image.Alpha),
		faces: map[platform.Font]font.Face{
			platform.FontSmall: basicfont.Face7x13,
			platform.FontLarge: inconsolata.Regular8x16,
		},
	}, nil
}

// Bounds implements display.Canvas.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image returns the backing image. It changes with every draw call.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Fill implements display.Canvas.
func (c *Canvas) Fill(col colour.Colour) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.rgba(col)), image.Point{}, draw.Src)
}

// FillCircle implements display.Canvas.
func (c *Canvas) FillCircle(centre image.Point, radius int, col colour.Colour) {
	if radius <= 0 {
		return
	}

	rasterx.AddCircle(float64(centre.X), float64(centre.Y), float64(radius), c.filler)
	c.fill(col)
}

// StrokeCircle implements display.Canvas. The ring is centred on radius.
func (c *Canvas) StrokeCircle(centre image.Point, radius, width int, col colour.Colour) {
	if radius <= 0 || width <= 0 {
		return
	}

	half := float64(width) / 2
	cx, cy := float64(centre.X), float64(centre.Y)

	// even-odd filling leaves the inner disc empty
	rasterx.AddCircle(cx, cy, float64(radius)+half, c.filler)
	rasterx.AddCircle(cx, cy, math.Max(float64(radius)-half, 0), c.filler)
	c.fill(col)
}

// DrawPattern implements display.Canvas.
func (c *Canvas) DrawPattern(origin image.Point, scale float64, col colour.Colour) {
	mask := c.patternMask(scale)
	r := mask.Bounds().Add(origin)

	draw.DrawMask(c.img, r, image.NewUniform(c.rgba(col)), image.Point{}, mask, image.Point{}, draw.Over)
}

// DrawText implements display.Canvas. Text is centred horizontally in box.
func (c *Canvas) DrawText(text string, f platform.Font, box image.Rectangle, col colour.Colour) {
	face, ok := c.faces[f]
	if !ok {
		face = basicfont.Face7x13
	}

	width := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	x := box.Min.X + (box.Dx()-width)/2
	y := box.Min.Y + (box.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.rgba(col)),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// DrawHand implements display.Canvas. The hand is an elongated kite, drawn once
// enlarged in the outline colour and then in the fill colour.
func (c *Canvas) DrawHand(h display.Hand) {
	halfWidth := float64(-h.Origin.X)
	length := float64(-h.Origin.Y)
	border := math.Max(1, math.Round(h.Scale/10))

	c.kite(h.Centre, h.Angle, halfWidth+border, length+border)
	c.fill(h.Outline)

	c.kite(h.Centre, h.Angle, halfWidth, length)
	c.fill(h.Fill)
}

// EncodePNG writes the current image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img) //nolint:wrapcheck
}

// Snapshot returns the current image as PNG bytes.
func (c *Canvas) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c *Canvas) kite(centre image.Point, angle int, halfWidth, length float64) {
	// upright outline, y grows downwards
	points := [][2]float64{
		{0, -length},
		{halfWidth * 0.6, -length * 0.3},
		{halfWidth * 0.4, length * 0.15},
		{-halfWidth * 0.4, length * 0.15},
		{-halfWidth * 0.6, -length * 0.3},
	}

	sin, cos := math.Sincos(float64(angle) * math.Pi / 180)
	cx, cy := float64(centre.X), float64(centre.Y)

	for i, p := range points {
		x := cx + p[0]*cos - p[1]*sin
		y := cy + p[0]*sin + p[1]*cos

		if i == 0 {
			c.filler.Start(rasterx.ToFixedP(x, y))
			continue
		}

		c.filler.Line(rasterx.ToFixedP(x, y))
	}

	c.filler.Stop(true)
}

func (c *Canvas) fill(col colour.Colour) {
	c.filler.SetColor(c.rgba(col))
	c.filler.Draw()
	c.filler.Clear()
}

func (c *Canvas) patternMask(scale float64) *image.Alpha {
	if m, ok := c.masks[scale]; ok {
		return m
	}

	w := int(math.Ceil(c.pattern.ViewBox.W * scale))
	h := int(math.Ceil(c.pattern.ViewBox.H * scale))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	c.pattern.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	c.pattern.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	mask := image.NewAlpha(rgba.Bounds())
	draw.Draw(mask, mask.Bounds(), rgba, image.Point{}, draw.Src)

	c.masks[scale] = mask

	return mask
}

func (c *Canvas) rgba(col colour.Colour) color.RGBA {
	if !c.caps.Colour {
		col = col.Mono()
	}

	return col.RGBA()
}
