package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// MimeTypeWebM is the container type for finished recordings.
const MimeTypeWebM = "video/webm"

// State enumerates the phases of a capture session.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StatePreviewing
	StateRecording
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StatePreviewing:
		return "previewing"
	case StateRecording:
		return "recording"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition indicates an operation was called from a state that
// does not permit it.
var ErrInvalidTransition = errors.New("invalid capture state transition")

// DeviceError wraps a camera/microphone acquisition failure. Acquisition is
// never retried automatically; the session returns to idle and reports the
// error upward.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture device unavailable: %v", e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Track is a single hardware track (camera or microphone) of an open stream.
type Track interface {
	Stop()
	Live() bool
}

// Stream is an open audio+video capture stream.
type Stream interface {
	Tracks() []Track
}

// Device acquires a combined audio+video capture stream on demand.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Recorder encodes a stream, delivering encoded chunks to the sink passed to
// Start as they become available.
type Recorder interface {
	Start(onChunk func([]byte)) error
	Stop() error
}

// RecorderFactory builds a recorder bound to an open stream.
type RecorderFactory func(Stream) Recorder

// VideoAsset is a finished recording: the concatenated encoded chunks tagged
// with their container type.
type VideoAsset struct {
	Data     []byte
	MimeType string
}

// Session owns the capture device and drives the record/stop state machine:
// idle -> acquiring -> previewing -> recording -> finalizing -> idle. The
// device handle is exclusively owned; every exit path releases it.
type Session struct {
	device      Device
	newRecorder RecorderFactory
	logger      *slog.Logger

	mu       sync.Mutex
	state    State
	stream   Stream
	recorder Recorder
	chunks   [][]byte
}

// NewSession constructs an idle capture session.
func NewSession(device Device, factory RecorderFactory, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		device:      device,
		newRecorder: factory,
		logger:      logger,
		state:       StateIdle,
	}
}

// State reports the session's current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Acquire opens the capture device and moves the session to previewing.
// Calling it while a stream is already open is a no-op returning the
// existing stream. Acquisition failure returns the session to idle.
func (s *Session) Acquire(ctx context.Context) (Stream, error) {
	s.mu.Lock()
	switch s.state {
	case StatePreviewing, StateRecording:
		stream := s.stream
		s.mu.Unlock()
		return stream, nil
	case StateIdle:
		s.state = StateAcquiring
	default:
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("acquire from %s: %w", state, ErrInvalidTransition)
	}
	s.mu.Unlock()

	stream, err := s.device.Open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.state == StateAcquiring {
			s.state = StateIdle
		}
		s.logger.Warn("device acquisition failed", "error", err)
		return nil, &DeviceError{Err: err}
	}

	// Cancel may have won the race while the device was opening; the opened
	// stream must not outlive the cancelled session.
	if s.state != StateAcquiring {
		for _, track := range stream.Tracks() {
			track.Stop()
		}
		s.logger.Info("discarded stream opened after cancel")
		return nil, fmt.Errorf("acquire finished after cancel: %w", ErrInvalidTransition)
	}

	s.stream = stream
	s.state = StatePreviewing
	s.logger.Info("capture stream acquired", "tracks", len(stream.Tracks()))
	return stream, nil
}

// StartRecording begins buffering encoded chunks. Valid only from previewing.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	if s.state != StatePreviewing {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("start recording from %s: %w", state, ErrInvalidTransition)
	}

	recorder := s.newRecorder(s.stream)
	s.recorder = recorder
	s.chunks = nil
	s.state = StateRecording
	s.mu.Unlock()

	// The recorder may deliver a chunk synchronously, so it must run
	// outside the session lock.
	if err := recorder.Start(s.appendChunk); err != nil {
		s.mu.Lock()
		s.recorder = nil
		s.chunks = nil
		s.state = StatePreviewing
		s.mu.Unlock()
		return fmt.Errorf("start recorder: %w", err)
	}

	s.logger.Info("recording started")
	return nil
}

// StopRecording finalizes the recording into a single video asset, releases
// the hardware stream, and returns the session to idle. The stream is
// released even when the recorder fails to stop cleanly.
func (s *Session) StopRecording() (VideoAsset, error) {
	s.mu.Lock()
	if s.state != StateRecording {
		state := s.state
		s.mu.Unlock()
		return VideoAsset{}, fmt.Errorf("stop recording from %s: %w", state, ErrInvalidTransition)
	}
	s.state = StateFinalizing
	recorder := s.recorder
	s.mu.Unlock()

	// Stopping flushes trailing chunks through appendChunk; keep the lock
	// released until the recorder has drained.
	stopErr := recorder.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	var size int
	for _, chunk := range s.chunks {
		size += len(chunk)
	}
	data := make([]byte, 0, size)
	for _, chunk := range s.chunks {
		data = append(data, chunk...)
	}

	s.releaseLocked()

	if stopErr != nil {
		return VideoAsset{}, fmt.Errorf("stop recorder: %w", stopErr)
	}

	s.logger.Info("recording finished", "bytes", len(data))
	return VideoAsset{Data: data, MimeType: MimeTypeWebM}, nil
}

// Cancel releases the stream and discards any buffered chunks from any
// non-idle state. Hardware release is guaranteed before Cancel returns.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	recorder := s.recorder
	recording := s.state == StateRecording
	s.state = StateFinalizing
	s.mu.Unlock()

	if recorder != nil && recording {
		if err := recorder.Stop(); err != nil {
			s.logger.Warn("stop recorder on cancel", "error", err)
		}
	}

	s.mu.Lock()
	s.releaseLocked()
	s.mu.Unlock()
	s.logger.Info("capture session cancelled")
}

func (s *Session) appendChunk(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Chunks may trail in while finalizing; accept them until the asset is cut.
	if s.state != StateRecording && s.state != StateFinalizing {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.chunks = append(s.chunks, buf)
}

// releaseLocked stops every track and resets the session to idle. Callers
// must hold s.mu.
func (s *Session) releaseLocked() {
	if s.stream != nil {
		for _, track := range s.stream.Tracks() {
			track.Stop()
		}
	}
	s.stream = nil
	s.recorder = nil
	s.chunks = nil
	s.state = StateIdle
}
