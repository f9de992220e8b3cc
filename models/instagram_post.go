package models

import (
	"time"
)

// Category is the content classification shared by captions, hashtags and rendering
type Category string

const (
	CategoryUIDesign Category = "ui-design"
	CategoryLogo     Category = "logo"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryUIDesign || c == CategoryLogo
}

// InstagramPost is a published post held in process memory, newest first
type InstagramPost struct {
	ID        string    `json:"id"`
	Type      Category  `json:"type"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"timestamp"`
	// ImageType is the detected MIME type of an attached image, if any.
	ImageType string `json:"imageType,omitempty"`
}

// GeneratedContent is one caption/hashtag/description tuple
type GeneratedContent struct {
	Type        Category `json:"type"`
	Caption     string   `json:"caption"`
	Hashtags    []string `json:"hashtags"`
	ImagePrompt string   `json:"imagePrompt"`
	Description string   `json:"description"`
	// Fallback is set when the caption came from canned text rather than the model.
	Fallback bool `json:"-"`
}
