// Package render draws 1080x1080 placeholder artwork for generated posts.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math/rand/v2"
	"strings"

	"insta-automation/models"
)

const (
	Width  = 1080
	Height = 1080

	dataURLPrefix = "data:image/png;base64,"
)

// Template names a canned composition.
type Template string

const (
	TemplateGlassmorphism  Template = "glassmorphism"
	TemplateNeumorphism    Template = "neumorphism"
	TemplateDashboard      Template = "dashboard"
	TemplatePricingCards   Template = "pricing-cards"
	TemplateModernCard     Template = "modern-card"
	TemplateGeometricLogo  Template = "geometric-logo"
	TemplateFluidLogo      Template = "fluid-logo"
	TemplateLettermarkLogo Template = "lettermark-logo"
	TemplateAbstractLogo   Template = "abstract-logo"
)

type Options struct {
	Type        models.Category
	Description string
}

type keywordRule struct {
	keywords []string
	template Template
}

var uiRules = []keywordRule{
	{[]string{"glassmorphism", "glass"}, TemplateGlassmorphism},
	{[]string{"neumorphic", "soft shadow"}, TemplateNeumorphism},
	{[]string{"dashboard"}, TemplateDashboard},
	{[]string{"pricing", "card"}, TemplatePricingCards},
}

var logoRules = []keywordRule{
	{[]string{"geometric", "minimalist"}, TemplateGeometricLogo},
	{[]string{"gradient", "fluid"}, TemplateFluidLogo},
	{[]string{"letter", "typography"}, TemplateLettermarkLogo},
}

// SelectTemplate picks the first template whose keywords appear in the
// description. Matching ignores case, so "Glassmorphism" selects the glass
// template rather than falling through to a later keyword.
func SelectTemplate(category models.Category, description string) Template {
	desc := strings.ToLower(description)

	rules, fallback := uiRules, TemplateModernCard
	if category == models.CategoryLogo {
		rules, fallback = logoRules, TemplateAbstractLogo
	}

	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.template
			}
		}
	}
	return fallback
}

// Render draws the artwork for opts. rng drives palette choice, dark mode and
// blob placement, so a seeded source gives a reproducible image.
func Render(opts Options, rng *rand.Rand) (*image.RGBA, Template, error) {
	if !opts.Type.Valid() {
		return nil, "", fmt.Errorf("render: unknown content type %q", opts.Type)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := newCanvas(Width, Height)
	tmpl := SelectTemplate(opts.Type, opts.Description)

	if opts.Type == models.CategoryLogo {
		drawLogo(c, tmpl, rng)
	} else {
		dark := strings.Contains(strings.ToLower(opts.Description), "dark") || rng.Float64() > 0.5
		drawUI(c, tmpl, dark, rng)
	}
	return c.img, tmpl, nil
}

// RenderDataURL renders opts and encodes it as an embeddable PNG data URL.
func RenderDataURL(opts Options, rng *rand.Rand) (string, Template, error) {
	img, tmpl, err := Render(opts, rng)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", "", fmt.Errorf("render: encoding png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), tmpl, nil
}
