package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// thumbWidth is the fixed width of every sampled thumbnail. Height
	// follows the source aspect ratio, recomputed per sample because the
	// ratio can change mid-stream (device rotation).
	thumbWidth = 320
	// jpegQuality bounds the per-thumbnail memory and storage cost.
	jpegQuality = 80

	dataURLPrefix = "data:image/jpeg;base64,"
)

// ErrNoFrame indicates a capture was attempted before the source decoded its
// first frame.
var ErrNoFrame = errors.New("no frame available")

// FrameSource yields decoded frames from a live or finalized video source.
// Dimensions returns (0, 0) until the first frame is available.
type FrameSource interface {
	Dimensions() (width, height int)
	Frame() (image.Image, error)
}

// Thumbnail is an ephemeral still-frame snapshot encoded as a self-contained
// JPEG data URL.
type Thumbnail struct {
	ID        string
	DataURL   string
	Timestamp time.Time
}

// JPEGBytes decodes the thumbnail's data URL back into raw JPEG bytes.
func (t Thumbnail) JPEGBytes() ([]byte, error) {
	encoded, ok := strings.CutPrefix(t.DataURL, dataURLPrefix)
	if !ok {
		return nil, fmt.Errorf("thumbnail %s: unexpected data url format", t.ID)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s: decode data url: %w", t.ID, err)
	}
	return data, nil
}

// Sampler produces periodic still-frame snapshots from a video source.
// Thumbnails accumulate in strict capture order for the lifetime of the
// sampling run; the sequence is never reordered or deduplicated.
type Sampler struct {
	mu         sync.Mutex
	thumbnails []Thumbnail
	stop       chan struct{}
	wg         sync.WaitGroup

	now func() time.Time
}

// NewSampler constructs an inactive sampler.
func NewSampler() *Sampler {
	return &Sampler{now: time.Now}
}

// StartSampling clears any previous sequence and begins sampling the source
// at the given interval. Ticks that fire before the source reports valid
// dimensions are dropped silently. Calling StartSampling while a run is
// active restarts it.
func (s *Sampler) StartSampling(source FrameSource, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	s.StopSampling()

	s.mu.Lock()
	s.thumbnails = nil
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.sampleTick(source)
			}
		}
	}()
}

// StopSampling halts future ticks. Previously captured thumbnails remain
// valid and retained.
func (s *Sampler) StopSampling() {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Thumbnails returns a copy of the captured sequence in capture order.
func (s *Sampler) Thumbnails() []Thumbnail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Thumbnail, len(s.thumbnails))
	copy(out, s.thumbnails)
	return out
}

// CaptureSingleFrame takes one immediate snapshot from the source. It fails
// with ErrNoFrame when the source has not decoded a frame yet.
func (s *Sampler) CaptureSingleFrame(source FrameSource) (Thumbnail, error) {
	width, height := source.Dimensions()
	if width <= 0 || height <= 0 {
		return Thumbnail{}, ErrNoFrame
	}
	return s.capture(source, width, height)
}

func (s *Sampler) sampleTick(source FrameSource) {
	width, height := source.Dimensions()
	if width <= 0 || height <= 0 {
		return
	}

	thumb, err := s.capture(source, width, height)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.thumbnails = append(s.thumbnails, thumb)
	s.mu.Unlock()
}

func (s *Sampler) capture(source FrameSource, width, height int) (Thumbnail, error) {
	frame, err := source.Frame()
	if err != nil {
		return Thumbnail{}, fmt.Errorf("read frame: %w", err)
	}

	aspectRatio := float64(width) / float64(height)
	thumbHeight := int(math.Round(thumbWidth / aspectRatio))
	if thumbHeight < 1 {
		thumbHeight = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Thumbnail{}, fmt.Errorf("encode thumbnail: %w", err)
	}

	captured := s.now()
	return Thumbnail{
		ID:        newThumbnailID(captured),
		DataURL:   dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Timestamp: captured,
	}, nil
}

// newThumbnailID combines the capture timestamp with a random suffix so ids
// never collide, even across rapid samples within the same millisecond.
func newThumbnailID(captured time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("thumb_%d_%s", captured.UnixMilli(), suffix)
}
