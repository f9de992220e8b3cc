package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// canvas is a small 2D drawing surface with fill-only primitives.
type canvas struct {
	img  *image.RGBA
	w, h int
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

func (c *canvas) fill(src image.Image, path func(z *vector.Rasterizer)) {
	z := vector.NewRasterizer(c.w, c.h)
	path(z)
	z.Draw(c.img, c.img.Bounds(), src, image.Point{})
}

func (c *canvas) fillRect(x, y, w, h float64, src image.Image) {
	r := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h))).Intersect(c.img.Bounds())
	draw.Draw(c.img, r, src, r.Min, draw.Over)
}

func (c *canvas) fillCircle(cx, cy, r float64, src image.Image) {
	c.fill(src, func(z *vector.Rasterizer) { circlePath(z, cx, cy, r) })
}

func (c *canvas) fillRoundRect(x, y, w, h, r float64, src image.Image) {
	c.fill(src, func(z *vector.Rasterizer) { roundRectPath(z, x, y, w, h, r, false) })
}

// strokeRoundRect draws a centered outline of the given width.
func (c *canvas) strokeRoundRect(x, y, w, h, r, width float64, src image.Image) {
	half := width / 2
	c.fill(src, func(z *vector.Rasterizer) {
		roundRectPath(z, x-half, y-half, w+width, h+width, r+half, false)
		roundRectPath(z, x+half, y+half, w-width, h-width, math.Max(r-half, 0), true)
	})
}

func (c *canvas) fillPolygon(src image.Image, pts ...[2]float64) {
	if len(pts) < 3 {
		return
	}
	c.fill(src, func(z *vector.Rasterizer) {
		z.MoveTo(f32(pts[0][0]), f32(pts[0][1]))
		for _, p := range pts[1:] {
			z.LineTo(f32(p[0]), f32(p[1]))
		}
		z.ClosePath()
	})
}

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
)

type textStyle struct {
	size   float64
	bold   bool
	align  textAlign
	middle bool // vertical centering instead of alphabetic baseline
}

func (c *canvas) fillText(s string, x, y float64, style textStyle, src image.Image) {
	face := fontFace(style.bold, style.size)

	d := &font.Drawer{Dst: c.img, Src: src, Face: face}
	if style.align == alignCenter {
		x -= float64(d.MeasureString(s)) / 64 / 2
	}
	if style.middle {
		m := face.Metrics()
		y += float64(m.Ascent-m.Descent) / 64 / 2
	}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	d.DrawString(s)
}

func circlePath(z *vector.Rasterizer, cx, cy, r float64) {
	const kappa = 0.5522847498
	k := r * kappa
	z.MoveTo(f32(cx+r), f32(cy))
	z.CubeTo(f32(cx+r), f32(cy+k), f32(cx+k), f32(cy+r), f32(cx), f32(cy+r))
	z.CubeTo(f32(cx-k), f32(cy+r), f32(cx-r), f32(cy+k), f32(cx-r), f32(cy))
	z.CubeTo(f32(cx-r), f32(cy-k), f32(cx-k), f32(cy-r), f32(cx), f32(cy-r))
	z.CubeTo(f32(cx+k), f32(cy-r), f32(cx+r), f32(cy-k), f32(cx+r), f32(cy))
	z.ClosePath()
}

// roundRectPath traces a rounded rectangle; reverse flips the winding so a
// reversed inner path cuts a hole in an outer one.
func roundRectPath(z *vector.Rasterizer, x, y, w, h, r float64, reverse bool) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Min(r, math.Min(w, h)/2)
	if !reverse {
		z.MoveTo(f32(x+r), f32(y))
		z.LineTo(f32(x+w-r), f32(y))
		z.QuadTo(f32(x+w), f32(y), f32(x+w), f32(y+r))
		z.LineTo(f32(x+w), f32(y+h-r))
		z.QuadTo(f32(x+w), f32(y+h), f32(x+w-r), f32(y+h))
		z.LineTo(f32(x+r), f32(y+h))
		z.QuadTo(f32(x), f32(y+h), f32(x), f32(y+h-r))
		z.LineTo(f32(x), f32(y+r))
		z.QuadTo(f32(x), f32(y), f32(x+r), f32(y))
	} else {
		z.MoveTo(f32(x+r), f32(y))
		z.QuadTo(f32(x), f32(y), f32(x), f32(y+r))
		z.LineTo(f32(x), f32(y+h-r))
		z.QuadTo(f32(x), f32(y+h), f32(x+r), f32(y+h))
		z.LineTo(f32(x+w-r), f32(y+h))
		z.QuadTo(f32(x+w), f32(y+h), f32(x+w), f32(y+h-r))
		z.LineTo(f32(x+w), f32(y+r))
		z.QuadTo(f32(x+w), f32(y), f32(x+w-r), f32(y))
	}
	z.ClosePath()
}

func f32(v float64) float32 { return float32(v) }

// Colors and gradients

func hex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	if len(s) == 8 {
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func solid(c color.Color) image.Image { return image.NewUniform(c) }

type stop struct {
	pos float64
	c   color.NRGBA
}

var farBounds = image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)

type linearGradient struct {
	x0, y0, x1, y1 float64
	stops          []stop
}

func (g *linearGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *linearGradient) Bounds() image.Rectangle { return farBounds }

func (g *linearGradient) At(x, y int) color.Color {
	dx, dy := g.x1-g.x0, g.y1-g.y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return g.stops[0].c
	}
	t := ((float64(x)+0.5-g.x0)*dx + (float64(y)+0.5-g.y0)*dy) / l2
	return sample(g.stops, t)
}

// radialGradient runs from the center outwards to radius r.
type radialGradient struct {
	cx, cy, r float64
	stops     []stop
}

func (g *radialGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *radialGradient) Bounds() image.Rectangle { return farBounds }

func (g *radialGradient) At(x, y int) color.Color {
	if g.r <= 0 {
		return g.stops[len(g.stops)-1].c
	}
	t := math.Hypot(float64(x)+0.5-g.cx, float64(y)+0.5-g.cy) / g.r
	return sample(g.stops, t)
}

func linear(x0, y0, x1, y1 float64, colors ...color.NRGBA) image.Image {
	return &linearGradient{x0: x0, y0: y0, x1: x1, y1: y1, stops: evenStops(colors)}
}

func radial(cx, cy, r float64, colors ...color.NRGBA) image.Image {
	return &radialGradient{cx: cx, cy: cy, r: r, stops: evenStops(colors)}
}

func evenStops(colors []color.NRGBA) []stop {
	if len(colors) == 1 {
		return []stop{{0, colors[0]}}
	}
	out := make([]stop, len(colors))
	for i, c := range colors {
		out[i] = stop{pos: float64(i) / float64(len(colors)-1), c: c}
	}
	return out
}

func sample(stops []stop, t float64) color.NRGBA {
	if t <= stops[0].pos {
		return stops[0].c
	}
	last := stops[len(stops)-1]
	if t >= last.pos {
		return last.c
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].pos {
			a, b := stops[i-1], stops[i]
			f := (t - a.pos) / (b.pos - a.pos)
			return color.NRGBA{
				R: lerp(a.c.R, b.c.R, f),
				G: lerp(a.c.G, b.c.G, f),
				B: lerp(a.c.B, b.c.B, f),
				A: lerp(a.c.A, b.c.A, f),
			}
		}
	}
	return last.c
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// Fonts

var (
	fontsOnce   sync.Once
	boldFont    *opentype.Font
	regularFont *opentype.Font
	fontsErr    error

	facesMu   sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

type faceKey struct {
	bold bool
	size float64
}

func loadFonts() error {
	fontsOnce.Do(func() {
		if boldFont, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
			return
		}
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
	})
	return fontsErr
}

// fontFace returns a cached face; sizes are in pixels. The embedded Go fonts
// always parse, so a failure here is a programming error.
func fontFace(bold bool, size float64) font.Face {
	if err := loadFonts(); err != nil {
		panic("render: parsing embedded fonts: " + err.Error())
	}

	facesMu.Lock()
	defer facesMu.Unlock()

	key := faceKey{bold: bold, size: size}
	if f, ok := faceCache[key]; ok {
		return f
	}

	f := regularFont
	if bold {
		f = boldFont
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		panic("render: building font face: " + err.Error())
	}
	faceCache[key] = face
	return face
}
