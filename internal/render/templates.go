package render

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
)

var (
	white  = hex("#ffffff")
	black  = hex("#000000")
	indigo = hex("#667eea")
	purple = hex("#764ba2")
)

var logoPalettes = [][3]color.NRGBA{
	{hex("#667eea"), hex("#764ba2"), hex("#f093fb")},
	{hex("#4facfe"), hex("#00f2fe"), hex("#43e97b")},
	{hex("#fa709a"), hex("#fee140"), hex("#30cfd0")},
	{hex("#a8edea"), hex("#fed6e3"), hex("#fbc2eb")},
	{hex("#ff9a9e"), hex("#fecfef"), hex("#ffecd2")},
}

func pick[T any](dark bool, onDark, onLight T) T {
	if dark {
		return onDark
	}
	return onLight
}

// Logos

const logoSize = 400

func drawLogo(c *canvas, tmpl Template, rng *rand.Rand) {
	palette := logoPalettes[rng.IntN(len(logoPalettes))]
	w, h := float64(c.w), float64(c.h)
	cx, cy := w/2, h/2

	c.fillRect(0, 0, w, h, linear(0, 0, w, h, palette[0], palette[1], palette[2]))
	c.fillCircle(cx, cy, logoSize/2, solid(rgba(255, 255, 255, 0.1)))

	switch tmpl {
	case TemplateGeometricLogo:
		s := float64(logoSize) / 3
		c.fillPolygon(solid(indigo), [2]float64{cx, cy - s}, [2]float64{cx + s, cy}, [2]float64{cx, cy + s}, [2]float64{cx - s, cy})
		c.fillCircle(cx, cy, s/2, solid(purple))
	case TemplateFluidLogo:
		for i, col := range palette {
			x := cx + float64(i-1)*(logoSize/6.0)
			c.fillCircle(x, cy, logoSize/3.0, radial(x, cy, logoSize/4.0, withAlpha(col, 0xcc), withAlpha(col, 0x00)))
		}
	case TemplateLettermarkLogo:
		c.fillText("A", cx, cy, textStyle{size: logoSize, bold: true, align: alignCenter, middle: true}, solid(indigo))
	default:
		s := float64(logoSize) / 4
		for i := range 4 {
			angle := math.Pi * 2 * float64(i) / 4
			c.fillCircle(cx+math.Cos(angle)*s, cy+math.Sin(angle)*s, s/2, solid(palette[i%len(palette)]))
		}
	}
}

// UI mockups

func drawUI(c *canvas, tmpl Template, dark bool, rng *rand.Rand) {
	w, h := float64(c.w), float64(c.h)
	if dark {
		c.fillRect(0, 0, w, h, linear(0, 0, 0, h, hex("#1a1a2e"), hex("#16213e")))
	} else {
		c.fillRect(0, 0, w, h, solid(hex("#f8f9fa")))
	}

	switch tmpl {
	case TemplateGlassmorphism:
		drawGlassmorphicCard(c, dark, rng)
	case TemplateNeumorphism:
		drawNeumorphicCard(c, dark)
	case TemplateDashboard:
		drawDashboard(c, dark)
	case TemplatePricingCards:
		drawPricingCards(c, dark)
	default:
		drawModernCard(c)
	}
}

func drawGlassmorphicCard(c *canvas, dark bool, rng *rand.Rand) {
	w, h := float64(c.w), float64(c.h)
	cx, cy := w/2, h/2
	const cardW, cardH = 800, 600

	blobs := []color.NRGBA{indigo, purple, hex("#f093fb")}
	for _, col := range blobs {
		x, y := rng.Float64()*w, rng.Float64()*h
		c.fillCircle(x, y, 200, radial(x, y, 200, withAlpha(col, 0x80), withAlpha(col, 0x00)))
	}

	x, y := cx-cardW/2, cy-cardH/2
	c.fillRoundRect(x, y, cardW, cardH, 30, solid(pick(dark, rgba(255, 255, 255, 0.1), rgba(255, 255, 255, 0.3))))
	c.strokeRoundRect(x, y, cardW, cardH, 30, 2, solid(rgba(255, 255, 255, 0.2)))

	c.fillText("Glassmorphic Design", cx, cy-100, textStyle{size: 48, bold: true, align: alignCenter}, solid(pick(dark, white, black)))
	c.fillText("Modern UI with blur effects", cx, cy, textStyle{size: 24, align: alignCenter},
		solid(pick(dark, rgba(255, 255, 255, 0.7), rgba(0, 0, 0, 0.7))))

	c.fillRoundRect(cx-100, cy+100, 200, 60, 15, linear(cx-100, 0, cx+100, 0, indigo, purple))
	c.fillText("Get Started", cx, cy+140, textStyle{size: 20, bold: true, align: alignCenter}, solid(white))
}

func drawNeumorphicCard(c *canvas, dark bool) {
	cx, cy := float64(c.w)/2, float64(c.h)/2
	const cardW, cardH = 700, 500
	bg := solid(pick(dark, hex("#2d2d2d"), hex("#e0e5ec")))

	c.fillRoundRect(cx-cardW/2, cy-cardH/2, cardW, cardH, 40, bg)
	for i := range 3 {
		c.fillRoundRect(cx-250, cy-100+float64(i)*100, 500, 60, 15, bg)
	}
	c.fillText("Neumorphic Form", cx, cy-180, textStyle{size: 36, bold: true, align: alignCenter}, solid(pick(dark, white, black)))
}

var dashboardCards = []struct {
	x, y     float64
	from, to color.NRGBA
}{
	{320, 150, hex("#667eea"), hex("#764ba2")},
	{620, 150, hex("#f093fb"), hex("#f5576c")},
	{320, 450, hex("#4facfe"), hex("#00f2fe")},
	{620, 450, hex("#43e97b"), hex("#38f9d7")},
}

func drawDashboard(c *canvas, dark bool) {
	w, h := float64(c.w), float64(c.h)

	c.fillRect(0, 0, 250, h, solid(pick(dark, hex("#1e1e2e"), hex("#2d3748"))))
	c.fillRect(250, 0, w-250, h, solid(pick(dark, hex("#0f0f1e"), hex("#f7fafc"))))
	c.fillRect(250, 0, w-250, 100, solid(pick(dark, hex("#2d2d3d"), hex("#ffffff"))))

	for i, card := range dashboardCards {
		c.fillRoundRect(card.x, card.y, 280, 250, 20, linear(card.x, card.y, card.x+280, card.y+250, card.from, card.to))
		c.fillText(fmt.Sprintf("Card %d", i+1), card.x+20, card.y+50, textStyle{size: 28, bold: true}, solid(white))
	}

	for i := range 5 {
		c.fillRoundRect(20, 100+float64(i)*80, 210, 50, 10, solid(indigo))
	}
}

var pricingTiers = []struct {
	name  string
	price int
}{
	{"Basic", 29},
	{"Pro", 79},
	{"Enterprise", 199},
}

func drawPricingCards(c *canvas, dark bool) {
	w, h := float64(c.w), float64(c.h)
	const cardW, cardH, spacing = 280, 700, 50

	for i, tier := range pricingTiers {
		x := (w-(cardW*3+spacing*2))/2 + float64(i)*(cardW+spacing)
		y := (h - cardH) / 2
		highlight := i == 1

		if highlight {
			c.fillRoundRect(x, y, cardW, cardH, 20, linear(x, y, x, y+cardH, indigo, purple))
		} else {
			c.fillRoundRect(x, y, cardW, cardH, 20, linear(x, y, x, y+cardH,
				pick(dark, hex("#2d2d3d"), hex("#ffffff")), pick(dark, hex("#1d1d2d"), hex("#f7fafc"))))
			c.strokeRoundRect(x, y, cardW, cardH, 20, 2, solid(pick(dark, rgba(255, 255, 255, 0.1), rgba(0, 0, 0, 0.1))))
		}

		ink := solid(pick(highlight || dark, white, black))
		mid := x + cardW/2
		c.fillText(tier.name, mid, y+80, textStyle{size: 32, bold: true, align: alignCenter}, ink)
		c.fillText(fmt.Sprintf("$%d", tier.price), mid, y+180, textStyle{size: 48, bold: true, align: alignCenter}, ink)
		c.fillText("/month", mid, y+220, textStyle{size: 20, align: alignCenter}, ink)
	}
}

func drawModernCard(c *canvas) {
	w, h := float64(c.w), float64(c.h)
	cx, cy := w/2, h/2

	c.fillRect(0, 0, w, h, linear(0, 0, w, h, indigo, purple))
	c.fillRoundRect(cx-400, cy-300, 800, 600, 30, solid(rgba(255, 255, 255, 0.95)))

	c.fillText("Modern Design", cx, cy-100, textStyle{size: 56, bold: true, align: alignCenter}, solid(black))
	c.fillText("Clean & Professional", cx, cy, textStyle{size: 28, align: alignCenter}, solid(hex("#666666")))

	c.fillRoundRect(cx-150, cy+100, 300, 70, 35, linear(cx-150, 0, cx+150, 0, indigo, purple))
	c.fillText("Learn More", cx, cy+145, textStyle{size: 24, bold: true, align: alignCenter}, solid(white))
}
