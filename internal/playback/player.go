package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/audio"
	"github.com/archanaprabhat/VoiceNotes/internal/note"
)

// Output abstracts the platform audio output device.
type Output interface {
	// Play starts playing a note's audio and returns the live player.
	Play(rec *note.Record) (Player, error)
}

// Player is one in-flight playback.
type Player interface {
	// Duration returns the total play time of the loaded audio.
	Duration() time.Duration

	// Position returns the current playback position.
	Position() time.Duration

	// Seek jumps to an absolute position.
	Seek(pos time.Duration) error

	// Stop halts playback and releases the output. Idempotent.
	Stop() error
}

// ClockOutput is a wall-clock playback device: it tracks position by real
// elapsed time without producing sound. It backs headless deployments and
// tests; UI builds substitute a real device. Duration comes from the WAV
// header when the payload is WAV, otherwise from the recorded duration
// label.
type ClockOutput struct {
	// Now is injectable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

// Play implements Output.
func (o *ClockOutput) Play(rec *note.Record) (Player, error) {
	now := o.Now
	if now == nil {
		now = time.Now
	}

	duration, err := noteDuration(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to determine note duration: %w", err)
	}

	return &clockPlayer{
		now:      now,
		duration: duration,
		started:  now(),
	}, nil
}

// noteDuration prefers the decoded media duration over the timer label.
func noteDuration(rec *note.Record) (time.Duration, error) {
	if rec.Audio.MimeType == audio.MimeTypeWAV {
		if d, err := audio.WAVDuration(rec.Audio.Data); err == nil {
			return d, nil
		}
	}

	return audio.ParseDurationLabel(rec.DurationLabel)
}

// clockPlayer advances position by wall time.
type clockPlayer struct {
	now      func() time.Time
	duration time.Duration
	started  time.Time
	offset   time.Duration
	stopped  bool
	mu       sync.Mutex
}

func (p *clockPlayer) Duration() time.Duration {
	return p.duration
}

func (p *clockPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return p.offset
	}

	pos := p.offset + p.now().Sub(p.started)
	if pos > p.duration {
		pos = p.duration
	}
	return pos
}

func (p *clockPlayer) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pos < 0 || pos > p.duration {
		return fmt.Errorf("seek position %v out of range [0, %v]", pos, p.duration)
	}

	p.offset = pos
	p.started = p.now()
	return nil
}

func (p *clockPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}

	pos := p.offset + p.now().Sub(p.started)
	if pos > p.duration {
		pos = p.duration
	}
	p.offset = pos
	p.stopped = true
	return nil
}
