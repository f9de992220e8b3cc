package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"insta-automation/internal/ai"
	"insta-automation/internal/logger"
	"insta-automation/internal/telemetry"
	"insta-automation/models"
)

// TextGenerator is the external text-generation collaborator
type TextGenerator interface {
	GenerateText(ctx context.Context, req ai.TextRequest) (string, error)
}

const (
	captionSystemPrompt = "You are a creative social media content creator specializing in UI/UX design and logo design. Create engaging Instagram captions that attract clients."
	replySystemPrompt   = "You are a professional, friendly designer assistant. Respond to client inquiries about design services. Be helpful, professional, and encourage them to discuss their project. Keep responses under 200 characters for Instagram DMs."

	captionMaxTokens = 150
	replyMaxTokens   = 100
)

var trendingUIElements = []string{
	"Glassmorphism card design with gradient borders",
	"Neumorphic login interface with soft shadows",
	"Modern dashboard with dark mode and neon accents",
	"Minimalist mobile app interface with bold typography",
	"Futuristic pricing cards with 3D elements",
	"Clean landing page hero section with floating elements",
	"Animated microinteractions for buttons",
	"Gradient-based navigation menu design",
	"Modern form design with floating labels",
	"Card-based portfolio layout with hover effects",
}

var trendingLogoStyles = []string{
	"Minimalist geometric logo with negative space",
	"Abstract gradient logo with fluid shapes",
	"Modern lettermark with bold typography",
	"Nature-inspired organic logo design",
	"Tech startup logo with connected dots",
	"Luxury brand monogram with elegant curves",
	"Playful mascot logo with vibrant colors",
	"Abstract icon combining multiple symbols",
	"Modern emblem with circular badge",
	"Dynamic swoosh with motion effect",
}

var primaryHashtags = map[models.Category][]string{
	models.CategoryUIDesign: {"#UIDesign", "#UXDesign", "#WebDesign", "#InterfaceDesign", "#DesignInspiration", "#UIUX", "#DigitalDesign"},
	models.CategoryLogo:     {"#LogoDesign", "#BrandIdentity", "#GraphicDesign", "#LogoDesigner", "#BrandingDesign", "#LogoInspiration", "#CreativeLogo"},
}

// The fallback path publishes a shorter tag list.
var fallbackHashtags = map[models.Category][]string{
	models.CategoryUIDesign: {"#UIDesign", "#UXDesign", "#WebDesign", "#InterfaceDesign", "#DesignInspiration"},
	models.CategoryLogo:     {"#LogoDesign", "#BrandIdentity", "#GraphicDesign", "#LogoDesigner", "#BrandingDesign"},
}

const (
	pricingReply      = "Hi! Pricing varies by project scope. Let's chat about your specific needs and I'll provide a custom quote. DM me the details! 💼"
	portfolioReply    = "Thanks for your interest! Check out my highlights for more examples. What kind of project are you looking to create? 🎨"
	availabilityReply = "Yes, I'm available for new projects! Tell me more about what you have in mind and let's create something amazing together! ✨"
	genericReply      = "Hi! Thanks for reaching out! I'd love to help with your project. Can you tell me more about what you're looking for? 😊"
)

// First matching rule wins.
var replyRules = []struct {
	keywords []string
	reply    string
}{
	{[]string{"price", "cost", "how much"}, pricingReply},
	{[]string{"portfolio", "work", "examples"}, portfolioReply},
	{[]string{"available", "hire", "project"}, availabilityReply},
}

// optimalHours are the best engagement hours-of-day, ascending.
var optimalHours = []int{9, 12, 17, 20}

// ContentGenerator produces captions and replies; it retains no state beyond its RNG.
type ContentGenerator struct {
	text    TextGenerator
	timeout time.Duration
	metrics *telemetry.Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// NewContentGenerator builds a generator. A nil text generator means every
// request is served from canned fallback content.
func NewContentGenerator(text TextGenerator, timeout time.Duration, metrics *telemetry.Metrics, rng *rand.Rand) *ContentGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &ContentGenerator{
		text:    text,
		timeout: timeout,
		metrics: metrics,
		rng:     rng,
	}
}

// PickTrend chooses a category uniformly, then one of its ten style descriptions.
func (g *ContentGenerator) PickTrend() (models.Category, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rng.IntN(2) == 0 {
		return models.CategoryUIDesign, trendingUIElements[g.rng.IntN(len(trendingUIElements))]
	}
	return models.CategoryLogo, trendingLogoStyles[g.rng.IntN(len(trendingLogoStyles))]
}

// TrendFor picks a style description within a fixed category.
func (g *ContentGenerator) TrendFor(category models.Category) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if category == models.CategoryUIDesign {
		return trendingUIElements[g.rng.IntN(len(trendingUIElements))]
	}
	return trendingLogoStyles[g.rng.IntN(len(trendingLogoStyles))]
}

// GenerateTrendingContent never fails: a collaborator failure yields canned content.
func (g *ContentGenerator) GenerateTrendingContent(ctx context.Context) models.GeneratedContent {
	category, element := g.PickTrend()

	prompt := fmt.Sprintf("Create an engaging Instagram caption for a %s post featuring: %s. Include a call-to-action for potential clients. Keep it under 150 characters.", category, element)

	caption, err := g.generate(ctx, ai.TextRequest{
		System:    captionSystemPrompt,
		Prompt:    prompt,
		MaxTokens: captionMaxTokens,
		Purpose:   "caption",
	})
	if err != nil {
		logger.Warn("Caption generation failed, using fallback", "op", "content.caption", "type", category, "error", err)
		g.metrics.RecordFallback(ctx, "caption")
		return models.GeneratedContent{
			Type:        category,
			Caption:     fallbackCaption(category),
			Hashtags:    append([]string(nil), fallbackHashtags[category]...),
			ImagePrompt: element,
			Description: element,
			Fallback:    true,
		}
	}

	if caption == "" {
		caption = fmt.Sprintf("Check out this amazing %s! 🎨✨", category)
	}

	return models.GeneratedContent{
		Type:        category,
		Caption:     caption,
		Hashtags:    append([]string(nil), primaryHashtags[category]...),
		ImagePrompt: element,
		Description: element,
	}
}

// GenerateClientResponse drafts a reply to an inbound message.
func (g *ContentGenerator) GenerateClientResponse(ctx context.Context, clientMessage string) string {
	reply, err := g.generate(ctx, ai.TextRequest{
		System:    replySystemPrompt,
		Prompt:    fmt.Sprintf("Client message: \"%s\". Generate a friendly professional response.", clientMessage),
		MaxTokens: replyMaxTokens,
		Purpose:   "reply",
	})
	if err != nil {
		logger.Warn("Reply generation failed, using fallback", "op", "content.reply", "error", err)
		g.metrics.RecordFallback(ctx, "reply")
		return FallbackReply(clientMessage)
	}
	if reply == "" {
		return genericReply
	}
	return reply
}

// generate returns "" with a nil error when the model answered with no text.
func (g *ContentGenerator) generate(ctx context.Context, req ai.TextRequest) (string, error) {
	if g.text == nil {
		return "", newError(KindGenerationFailed, "content."+req.Purpose, ai.ErrUnavailable)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.text.GenerateText(ctx, req)
	if errors.Is(err, ai.ErrEmptyResponse) {
		return "", nil
	}
	if err != nil {
		return "", newError(KindGenerationFailed, "content."+req.Purpose, err)
	}
	return strings.TrimSpace(text), nil
}

func fallbackCaption(category models.Category) string {
	label := "logo"
	if category == models.CategoryUIDesign {
		label = "UI"
	}
	return fmt.Sprintf("Fresh %s design drop! 🎨 DM for projects ✨", label)
}

// FallbackReply matches keywords case-insensitively, first rule wins.
func FallbackReply(clientMessage string) string {
	lower := strings.ToLower(clientMessage)
	for _, rule := range replyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return genericReply
}

// OptimalPostingTime returns the next of the fixed engagement hours strictly
// after now, in now's location, at minute zero.
func OptimalPostingTime(now time.Time) time.Time {
	next := optimalHours[0]
	dayOffset := 1
	for _, h := range optimalHours {
		if h > now.Hour() {
			next = h
			dayOffset = 0
			break
		}
	}

	y, m, d := now.Date()
	return time.Date(y, m, d+dayOffset, next, 0, 0, 0, now.Location())
}
