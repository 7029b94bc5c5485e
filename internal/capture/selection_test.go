package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

type fakeThumbnailStore struct {
	uploads map[string][]byte
	err     error
}

func newFakeThumbnailStore() *fakeThumbnailStore {
	return &fakeThumbnailStore{uploads: make(map[string][]byte)}
}

func (s *fakeThumbnailStore) Upload(_ context.Context, bucket, key, _ string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.uploads[bucket+"/"+key] = data
	return key, nil
}

func (s *fakeThumbnailStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, key)
}

func captureTestThumbnail(t *testing.T) Thumbnail {
	t.Helper()
	thumb, err := NewSampler().CaptureSingleFrame(&fakeFrameSource{width: 320, height: 240})
	if err != nil {
		t.Fatalf("capture thumbnail: %v", err)
	}
	return thumb
}

func TestSelectionLastCallWins(t *testing.T) {
	selection := NewSelection()

	if _, ok := selection.Selected(); ok {
		t.Fatal("expected empty selection initially")
	}

	first := Thumbnail{ID: "thumb_1", Timestamp: time.Now()}
	second := Thumbnail{ID: "thumb_2", Timestamp: time.Now()}

	selection.Select(first)
	selection.Select(second)

	chosen, ok := selection.Selected()
	if !ok || chosen.ID != "thumb_2" {
		t.Fatalf("expected thumb_2 selected got %+v ok=%v", chosen, ok)
	}

	selection.Clear()
	if _, ok := selection.Selected(); ok {
		t.Fatal("expected selection cleared")
	}
}

func TestSelectionPromote(t *testing.T) {
	store := newFakeThumbnailStore()
	selection := NewSelection()

	thumb := captureTestThumbnail(t)
	selection.Select(thumb)

	url, err := selection.Promote(context.Background(), store, "email-assets")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}

	wantKey := fmt.Sprintf("thumbnails/%s.jpg", thumb.ID)
	if !strings.HasSuffix(url, wantKey) {
		t.Fatalf("expected url ending in %q got %q", wantKey, url)
	}
	if _, ok := store.uploads["email-assets/"+wantKey]; !ok {
		t.Fatalf("expected upload under %q, have %v", wantKey, store.uploads)
	}
}

func TestSelectionPromoteFailures(t *testing.T) {
	selection := NewSelection()

	if _, err := selection.Promote(context.Background(), newFakeThumbnailStore(), "email-assets"); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection got %v", err)
	}

	selection.Select(captureTestThumbnail(t))
	store := newFakeThumbnailStore()
	store.err = errors.New("bucket unavailable")

	if _, err := selection.Promote(context.Background(), store, "email-assets"); err == nil {
		t.Fatal("expected upload error to propagate")
	}
}
