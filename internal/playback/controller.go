package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/metrics"
	"github.com/archanaprabhat/VoiceNotes/internal/note"
)

// NoteLoader is the slice of the note store the controller needs.
type NoteLoader interface {
	Get(ctx context.Context, id int64) (*note.Record, error)
}

// Progress reports the state of the current playback.
type Progress struct {
	NoteID   int64         `json:"note_id"`
	Position time.Duration `json:"position"`
	Duration time.Duration `json:"duration"`
	Fraction float64       `json:"fraction"`
}

// Controller plays stored notes, one at a time. The currently playing note
// is explicit owned state; starting a new note stops the previous player
// before the next one starts.
type Controller struct {
	loader NoteLoader
	output Output
	logger *slog.Logger
	m      *metrics.Metrics

	currentID int64
	player    Player
	mu        sync.Mutex
}

// NewController creates a playback controller. The metrics argument may be
// nil.
func NewController(loader NoteLoader, output Output, logger *slog.Logger, m *metrics.Metrics) (*Controller, error) {
	if loader == nil {
		return nil, fmt.Errorf("note loader cannot be nil")
	}

	if output == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		loader: loader,
		output: output,
		logger: logger,
		m:      m,
	}, nil
}

// Play loads the note and starts playing it, stopping any previous
// playback first.
func (c *Controller) Play(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.loader.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load note %d: %w", id, err)
	}

	c.stopLocked()

	player, err := c.output.Play(rec)
	if err != nil {
		return fmt.Errorf("failed to start playback of note %d: %w", id, err)
	}

	c.currentID = id
	c.player = player

	if c.m != nil {
		c.m.PlaybacksStarted.Inc()
		c.m.ActivePlayback.Set(1)
	}

	c.logger.Info("Playback started",
		slog.Int64("note_id", id),
		slog.Duration("duration", player.Duration()),
	)

	return nil
}

// Seek jumps to the fractional position p in [0, 1] of the current
// playback.
func (c *Controller) Seek(p float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.player == nil {
		return fmt.Errorf("no active playback")
	}

	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	pos := time.Duration(p * float64(c.player.Duration()))
	if err := c.player.Seek(pos); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}

	if c.m != nil {
		c.m.PlaybackSeeks.Inc()
	}

	return nil
}

// Progress returns the current playback progress, or false when nothing is
// playing.
func (c *Controller) Progress() (Progress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.player == nil {
		return Progress{}, false
	}

	duration := c.player.Duration()
	position := c.player.Position()

	fraction := 0.0
	if duration > 0 {
		fraction = float64(position) / float64(duration)
	}

	return Progress{
		NoteID:   c.currentID,
		Position: position,
		Duration: duration,
		Fraction: fraction,
	}, true
}

// NowPlaying returns the id of the currently playing note, or zero.
func (c *Controller) NowPlaying() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// Stop halts the current playback, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// stopLocked tears down the current player. Callers hold the lock.
func (c *Controller) stopLocked() {
	if c.player == nil {
		return
	}

	if err := c.player.Stop(); err != nil {
		c.logger.Warn("Failed to stop playback",
			slog.Int64("note_id", c.currentID),
			slog.String("error", err.Error()),
		)
	}

	c.player = nil
	c.currentID = 0

	if c.m != nil {
		c.m.ActivePlayback.Set(0)
	}
}
