package recorder

import (
	"context"
	"errors"

	"github.com/archanaprabhat/VoiceNotes/internal/analyzer"
)

// ErrPermissionDenied is returned by a Microphone when the user refuses
// capture access. It is recoverable: the controller stays idle and the
// caller may retry.
var ErrPermissionDenied = errors.New("microphone access denied")

// Microphone abstracts the platform capture device.
type Microphone interface {
	// Open requests capture access and starts a live capture session.
	// Implementations return ErrPermissionDenied (possibly wrapped) when
	// access is refused.
	Open(ctx context.Context) (Session, error)
}

// Session is one live capture stream. The controller owns the session
// exclusively for the duration of a recording and guarantees Stop is called
// on every exit path.
type Session interface {
	// Chunks delivers encoded audio chunks in capture order. The channel
	// is closed after Stop.
	Chunks() <-chan []byte

	// MimeType identifies the container format of the emitted chunks.
	MimeType() string

	// Tap exposes the session's audio-analysis graph for the analyzer.
	Tap() analyzer.Tap

	// Pause suspends capture; no chunks are emitted until Resume.
	Pause() error

	// Resume restarts a paused capture.
	Resume() error

	// Stop releases the underlying hardware tracks and closes the chunk
	// channel. It must be idempotent.
	Stop() error
}
