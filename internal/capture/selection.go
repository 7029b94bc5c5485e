package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNoSelection indicates promotion was attempted before any thumbnail was selected.
var ErrNoSelection = errors.New("no thumbnail selected")

// ThumbnailStore is the storage surface needed to promote a selected
// thumbnail to a durable public URL.
type ThumbnailStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, r io.Reader) (string, error)
	PublicURL(bucket, key string) string
}

// Selection tracks the single chosen thumbnail for a capture session. An
// empty sequence with no selection is a valid state, not an error.
type Selection struct {
	mu     sync.Mutex
	chosen *Thumbnail
}

// NewSelection constructs an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select replaces the current selection unconditionally; the last call wins.
func (s *Selection) Select(thumb Thumbnail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chosen = &thumb
}

// Selected returns the chosen thumbnail, if any.
func (s *Selection) Selected() (Thumbnail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chosen == nil {
		return Thumbnail{}, false
	}
	return *s.chosen, true
}

// Clear drops the current selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chosen = nil
}

// Promote uploads the selected thumbnail to the assets bucket under its own
// unique key and returns the resulting public URL. A failed promotion is
// non-fatal to the referral: callers may proceed without a thumbnail.
func (s *Selection) Promote(ctx context.Context, store ThumbnailStore, bucket string) (string, error) {
	thumb, ok := s.Selected()
	if !ok {
		return "", ErrNoSelection
	}

	data, err := thumb.JPEGBytes()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("thumbnails/%s.jpg", thumb.ID)
	if _, err := store.Upload(ctx, bucket, key, "image/jpeg", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("promote thumbnail %s: %w", thumb.ID, err)
	}

	return store.PublicURL(bucket, key), nil
}
