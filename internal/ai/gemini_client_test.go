package ai

import (
	"context"
	"os"
	"testing"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounterLimitsAndReset(t *testing.T) {
	clock := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tc := NewTokenCounter(RateLimits{RPM: 2, TPM: 100, RPD: 3})
	tc.now = func() time.Time { return clock }
	tc.lastMinuteReset = clock
	tc.lastDayReset = clock

	require.True(t, tc.CanConsume(40, 1))
	tc.RecordUsage(40, 1)
	require.True(t, tc.CanConsume(40, 1))
	tc.RecordUsage(40, 1)

	assert.False(t, tc.CanConsume(10, 1), "minute request limit reached")

	clock = clock.Add(time.Minute)
	assert.True(t, tc.CanConsume(10, 1), "minute window resets")
	tc.RecordUsage(10, 1)

	clock = clock.Add(time.Minute)
	assert.False(t, tc.CanConsume(10, 1), "daily request limit reached")

	clock = clock.Add(24 * time.Hour)
	assert.True(t, tc.CanConsume(10, 1))
}

func TestTokenCounterRejectsOversizedRequest(t *testing.T) {
	tc := NewTokenCounter(RateLimits{RPM: 10, TPM: 50, RPD: 10})
	assert.False(t, tc.CanConsume(51, 1))
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Fresh "), genai.Text("drop ✨\n")}}},
		},
	}
	assert.Equal(t, "Fresh drop ✨", ExtractText(resp))
	assert.Empty(t, ExtractText(nil))
	assert.Empty(t, ExtractText(&genai.GenerateContentResponse{}))
}

func TestGetRateLimitsDefaultsToFree(t *testing.T) {
	assert.Equal(t, RateLimits{RPM: 10, TPM: 250000, RPD: 250}, getRateLimits("unknown"))
	assert.Equal(t, 1000, getRateLimits("tier1").RPM)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-2.0-flash", "free", nil)
	assert.Error(t, err)
}

func TestGenerateTextLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	gc, err := NewGeminiClient(context.Background(), key, "gemini-2.0-flash", "free", nil)
	require.NoError(t, err)
	defer gc.Close()

	text, err := gc.GenerateText(context.Background(), TextRequest{
		System:    "You answer in one word.",
		Prompt:    "Say hello.",
		MaxTokens: 10,
		Purpose:   "test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
