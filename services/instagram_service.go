package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"insta-automation/internal/logger"
	"insta-automation/models"
)

// InstagramService is an in-memory model of one connected account.
// No Instagram API call is made; posts and messages live only in process memory.
type InstagramService struct {
	mu        sync.RWMutex
	connected bool
	username  string
	posts     []models.InstagramPost // newest first
	messages  []models.Message       // newest first
	lastID    int64
	now       func() time.Time
}

func NewInstagramService() *InstagramService {
	return &InstagramService{now: time.Now}
}

// Connect marks the account connected. Any non-empty handle is accepted.
func (s *InstagramService) Connect(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return newError(KindConnectionFailed, "instagram.connect", ErrEmptyUsername)
	}
	if err := ctx.Err(); err != nil {
		return newError(KindConnectionFailed, "instagram.connect", err)
	}

	s.mu.Lock()
	s.connected = true
	s.username = username
	s.mu.Unlock()

	logger.Info("Connected to Instagram", "username", username)
	return nil
}

// PostImage publishes a post. The image payload may be nil; when present it
// must sniff as PNG or JPEG and is not stored.
func (s *InstagramService) PostImage(ctx context.Context, image []byte, caption string, hashtags []string) (models.InstagramPost, error) {
	var imageType string
	if image != nil {
		imageType = http.DetectContentType(image)
		if imageType != "image/png" && imageType != "image/jpeg" {
			return models.InstagramPost{}, newError(KindValidation, "instagram.post",
				fmt.Errorf("unsupported image type %q", imageType))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		logger.Warn("Not connected to Instagram", "op", "instagram.post")
		return models.InstagramPost{}, newError(KindInvalidState, "instagram.post", ErrNotConnected)
	}

	category := models.CategoryLogo
	if strings.Contains(caption, "UI") {
		category = models.CategoryUIDesign
	}

	now := s.now()
	post := models.InstagramPost{
		ID:        "post_" + s.nextIDLocked(now),
		Type:      category,
		Caption:   FullCaption(caption, hashtags),
		CreatedAt: now,
		ImageType: imageType,
	}

	s.posts = append([]models.InstagramPost{post}, s.posts...)
	logger.Info("Posted to Instagram", "post_id", post.ID, "type", post.Type, "image_attached", image != nil)
	return post, nil
}

// FullCaption joins a caption and its hashtags the way they are published.
func FullCaption(caption string, hashtags []string) string {
	return caption + "\n\n" + strings.Join(hashtags, " ")
}

// CheckMessages returns every message when connected, nothing otherwise.
func (s *InstagramService) CheckMessages(ctx context.Context) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return nil
	}
	return append([]models.Message(nil), s.messages...)
}

// ReplyToMessage records a reply on the message with the given id.
func (s *InstagramService) ReplyToMessage(ctx context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return newError(KindInvalidState, "instagram.reply", ErrNotConnected)
	}

	for i := range s.messages {
		if s.messages[i].ID != id {
			continue
		}
		if s.messages[i].Replied {
			return newError(KindInvalidState, "instagram.reply", fmt.Errorf("%w: %s", ErrAlreadyReplied, id))
		}
		s.messages[i].Replied = true
		s.messages[i].Reply = text
		logger.Info("Replied to message", "message_id", id)
		return nil
	}

	return newError(KindNotFound, "instagram.reply", fmt.Errorf("message %q not found", id))
}

// GetRecentPosts returns up to limit posts, newest first. limit <= 0 means 10.
func (s *InstagramService) GetRecentPosts(limit int) []models.InstagramPost {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.posts) {
		limit = len(s.posts)
	}
	return append([]models.InstagramPost(nil), s.posts[:limit]...)
}

// GetMessages returns all messages, or only unreplied ones.
func (s *InstagramService) GetMessages(includeReplied bool) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if includeReplied || !m.Replied {
			out = append(out, m)
		}
	}
	return out
}

// SimulateIncomingMessage records an inbound message for demo purposes.
func (s *InstagramService) SimulateIncomingMessage(from, body string) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	msg := models.Message{
		ID:        "msg_" + s.nextIDLocked(now),
		From:      from,
		Message:   body,
		Timestamp: now,
	}
	s.messages = append([]models.Message{msg}, s.messages...)
	logger.Debug("Simulated incoming message", "message_id", msg.ID, "from", from)
	return msg
}

// Disconnect is safe to call when already disconnected.
func (s *InstagramService) Disconnect() {
	s.mu.Lock()
	wasConnected := s.connected
	s.connected = false
	s.username = ""
	s.mu.Unlock()

	if wasConnected {
		logger.Info("Disconnected from Instagram")
	}
}

func (s *InstagramService) GetStatus() models.InstagramStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := 0
	for _, m := range s.messages {
		if !m.Replied {
			pending++
		}
	}

	return models.InstagramStatus{
		IsConnected:     s.connected,
		Username:        s.username,
		PostCount:       len(s.posts),
		MessageCount:    len(s.messages),
		PendingMessages: pending,
	}
}

// nextIDLocked derives an id from the clock in milliseconds, bumped past the
// previous one so ids stay unique within a millisecond.
func (s *InstagramService) nextIDLocked(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return fmt.Sprintf("%d", id)
}
