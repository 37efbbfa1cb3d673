package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/analyzer"
	"github.com/archanaprabhat/VoiceNotes/internal/audio"
	"github.com/archanaprabhat/VoiceNotes/internal/metrics"
	"github.com/archanaprabhat/VoiceNotes/internal/note"
	"github.com/archanaprabhat/VoiceNotes/internal/waveform"
)

// State represents the recording state machine.
type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// NoteSaver is the slice of the note store the controller needs.
type NoteSaver interface {
	Save(ctx context.Context, rec *note.Record) (int64, error)
}

// Enricher receives finished recordings for background processing.
type Enricher interface {
	Enqueue(id int64, blob note.Blob)
}

// Config contains recording controller configuration.
type Config struct {
	// FrameInterval is the waveform frame period; zero selects ~60 Hz.
	FrameInterval time.Duration
}

// Controller owns the microphone stream, analyzer, renderer, and chunk
// buffer for at most one recording session at a time. All resources
// acquired by Start are released on every exit path of the session.
type Controller struct {
	mic      Microphone
	saver    NoteSaver
	enricher Enricher
	canvas   waveform.Canvas
	config   Config
	logger   *slog.Logger
	m        *metrics.Metrics

	// now is injectable for deterministic timer tests.
	now func() time.Time

	state   State
	session *session
	mu      sync.Mutex
}

// session bundles everything owned for one active recording.
type session struct {
	capture     Session
	renderer    *waveform.Renderer
	buffer      *audio.ChunkBuffer
	timer       *Timer
	collectDone chan struct{}
}

// NewController creates a recording controller. The metrics argument may be
// nil.
func NewController(mic Microphone, saver NoteSaver, enricher Enricher, canvas waveform.Canvas,
	config Config, logger *slog.Logger, m *metrics.Metrics) (*Controller, error) {

	if mic == nil {
		return nil, fmt.Errorf("microphone cannot be nil")
	}

	if saver == nil {
		return nil, fmt.Errorf("note saver cannot be nil")
	}

	if enricher == nil {
		return nil, fmt.Errorf("enricher cannot be nil")
	}

	if canvas == nil {
		canvas = &waveform.NullCanvas{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		mic:      mic,
		saver:    saver,
		enricher: enricher,
		canvas:   canvas,
		config:   config,
		logger:   logger,
		m:        m,
		now:      time.Now,
	}, nil
}

// State returns the current recording state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Elapsed returns the current recording time, excluding paused spans. It is
// zero while idle.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return 0
	}
	return c.session.timer.Elapsed()
}

// Start requests microphone access and begins a new recording session.
// Permission failures leave the controller idle and are surfaced as
// recoverable errors wrapping ErrPermissionDenied.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return fmt.Errorf("cannot start recording: state is %s", c.state)
	}

	capture, err := c.mic.Open(ctx)
	if err != nil {
		if c.m != nil {
			c.m.RecordingFailures.Inc()
		}
		return fmt.Errorf("failed to open microphone: %w", err)
	}

	a, err := analyzer.New(capture.Tap())
	if err != nil {
		capture.Stop()
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	renderer, err := waveform.NewRenderer(a, c.canvas, c.config.FrameInterval)
	if err != nil {
		a.Close()
		capture.Stop()
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := renderer.Start(ctx); err != nil {
		renderer.Stop()
		capture.Stop()
		return fmt.Errorf("failed to start renderer: %w", err)
	}

	buffer := audio.NewChunkBuffer()
	collectDone := make(chan struct{})

	// Collect chunks until the capture session closes its channel on Stop.
	go func() {
		defer close(collectDone)
		for data := range capture.Chunks() {
			if err := buffer.Append(data); err != nil {
				c.logger.Warn("Dropping invalid audio chunk",
					slog.String("error", err.Error()))
			}
		}
	}()

	timer := NewTimer(c.now)
	timer.Start()

	c.session = &session{
		capture:     capture,
		renderer:    renderer,
		buffer:      buffer,
		timer:       timer,
		collectDone: collectDone,
	}
	c.state = StateRecording

	if c.m != nil {
		c.m.RecordingsStarted.Inc()
	}

	c.logger.Info("Recording started",
		slog.String("mime_type", capture.MimeType()))

	return nil
}

// Pause suspends capture, the waveform, and the timer in lockstep.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return fmt.Errorf("cannot pause: state is %s", c.state)
	}

	if err := c.session.capture.Pause(); err != nil {
		return fmt.Errorf("failed to pause capture: %w", err)
	}

	c.session.timer.Pause()
	c.session.renderer.Pause()
	c.state = StatePaused

	c.logger.Info("Recording paused",
		slog.Duration("elapsed", c.session.timer.Elapsed()))

	return nil
}

// Resume continues a paused recording from the exact prior elapsed value.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		return fmt.Errorf("cannot resume: state is %s", c.state)
	}

	if err := c.session.capture.Resume(); err != nil {
		return fmt.Errorf("failed to resume capture: %w", err)
	}

	c.session.timer.Resume()
	c.session.renderer.Resume()
	c.state = StateRecording

	c.logger.Info("Recording resumed")

	return nil
}

// Stop finalizes the current recording. With commit true the buffered audio
// becomes a note: a placeholder record is saved immediately and the
// enrichment task is enqueued. With commit false the audio is discarded.
// Either way the microphone, analyzer graph, and renderer are released and
// the controller returns to idle. Calling Stop while idle is a no-op.
func (c *Controller) Stop(ctx context.Context, commit bool) (*note.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		// Idempotent: nothing to clean up, nothing to save.
		return nil, nil
	}

	s := c.session
	elapsed := s.timer.Stop()

	// Teardown order: renderer first (closes the analysis graph), then the
	// capture session (releases hardware tracks, closes the chunk channel),
	// then drain the collector.
	if err := s.renderer.Stop(); err != nil {
		c.logger.Warn("Failed to release analysis graph",
			slog.String("error", err.Error()))
	}

	if c.m != nil {
		c.m.FramesRendered.Add(float64(s.renderer.Frames()))
	}

	if err := s.capture.Stop(); err != nil {
		c.logger.Warn("Failed to stop capture session",
			slog.String("error", err.Error()))
	}

	<-s.collectDone

	mimeType := s.capture.MimeType()
	data := s.buffer.Bytes()
	s.buffer.Reset()

	c.session = nil
	c.state = StateIdle

	if !commit {
		if c.m != nil {
			c.m.RecordingsCancelled.Inc()
		}
		c.logger.Info("Recording cancelled",
			slog.Duration("elapsed", elapsed))
		return nil, nil
	}

	blob := note.Blob{Data: data, MimeType: mimeType}
	rec := note.New(blob, audio.FormatDuration(elapsed), c.now())

	id, err := c.saver.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	c.enricher.Enqueue(id, blob)

	if c.m != nil {
		c.m.RecordingsCompleted.Inc()
		c.m.RecordingDuration.Observe(elapsed.Seconds())
		c.m.NotesSaved.Inc()
		c.m.NoteSize.Observe(float64(blob.Size()))
	}

	c.logger.Info("Recording committed",
		slog.Int64("note_id", id),
		slog.String("duration", rec.DurationLabel),
		slog.Int("audio_bytes", blob.Size()),
	)

	return rec, nil
}
