package capture

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/analyzer"
	"github.com/archanaprabhat/VoiceNotes/internal/audio"
	"github.com/archanaprabhat/VoiceNotes/internal/recorder"
)

// SyntheticConfig configures the generated signal.
type SyntheticConfig struct {
	SampleRate  int
	ChunkPeriod time.Duration
	Frequency   float64 // tone frequency in Hz
	Amplitude   float64 // 0..1
}

// SyntheticMicrophone emits a steady sine tone as PCM-16 chunks.
type SyntheticMicrophone struct {
	config SyntheticConfig
}

// NewSyntheticMicrophone creates a synthetic capture device.
func NewSyntheticMicrophone(config SyntheticConfig) (*SyntheticMicrophone, error) {
	if config.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", config.SampleRate)
	}

	if config.ChunkPeriod <= 0 {
		config.ChunkPeriod = 100 * time.Millisecond
	}

	if config.Frequency <= 0 {
		config.Frequency = 220
	}

	if config.Amplitude <= 0 || config.Amplitude > 1 {
		config.Amplitude = 0.5
	}

	return &SyntheticMicrophone{config: config}, nil
}

// Open implements recorder.Microphone.
func (m *SyntheticMicrophone) Open(ctx context.Context) (recorder.Session, error) {
	s := &syntheticSession{
		config: m.config,
		chunks: make(chan []byte, 16),
		done:   make(chan struct{}),
	}

	go s.generate(ctx)

	return s, nil
}

// syntheticSession is one live synthetic capture stream.
type syntheticSession struct {
	config SyntheticConfig
	chunks chan []byte
	done   chan struct{}

	phase       float64
	lastSamples []float64
	paused      bool
	stopOnce    sync.Once
	mu          sync.Mutex
}

// generate produces one PCM chunk per period until the session stops.
func (s *syntheticSession) generate(ctx context.Context) {
	defer close(s.chunks)

	ticker := time.NewTicker(s.config.ChunkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			chunk := s.nextChunk()
			if chunk == nil {
				continue
			}

			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// nextChunk synthesizes one chunk period of sine tone, or nil while paused.
func (s *syntheticSession) nextChunk() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return nil
	}

	n := int(float64(s.config.SampleRate) * s.config.ChunkPeriod.Seconds())
	if n == 0 {
		return nil
	}

	step := 2 * math.Pi * s.config.Frequency / float64(s.config.SampleRate)

	samples := make([]float64, n)
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := s.config.Amplitude * math.Sin(s.phase)
		s.phase += step

		samples[i] = v
		sample := int16(v * math.MaxInt16)
		pcm[i*2] = byte(sample)
		pcm[i*2+1] = byte(sample >> 8)
	}

	if s.phase > 2*math.Pi {
		s.phase = math.Mod(s.phase, 2*math.Pi)
	}

	s.lastSamples = samples
	return pcm
}

// Chunks implements recorder.Session.
func (s *syntheticSession) Chunks() <-chan []byte {
	return s.chunks
}

// MimeType implements recorder.Session.
func (s *syntheticSession) MimeType() string {
	return audio.MimeTypePCM
}

// Tap implements recorder.Session.
func (s *syntheticSession) Tap() analyzer.Tap {
	return (*syntheticTap)(s)
}

// Pause implements recorder.Session.
func (s *syntheticSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

// Resume implements recorder.Session.
func (s *syntheticSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

// Stop implements recorder.Session.
func (s *syntheticSession) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// syntheticTap exposes the generated signal as an analysis graph.
type syntheticTap syntheticSession

// TimeDomain returns the most recent chunk's samples.
func (t *syntheticTap) TimeDomain() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]float64, len(t.lastSamples))
	copy(out, t.lastSamples)
	return out
}

// FrequencyBins returns a 128-bin spectrum with the tone's energy placed in
// the bin matching its frequency.
func (t *syntheticTap) FrequencyBins() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	bins := make([]byte, 128)
	if t.paused || len(t.lastSamples) == 0 {
		return bins
	}

	nyquist := float64(t.config.SampleRate) / 2
	center := int(t.config.Frequency / nyquist * float64(len(bins)))
	if center >= len(bins) {
		center = len(bins) - 1
	}

	magnitude := t.config.Amplitude * 255
	for i := center - 2; i <= center+2; i++ {
		if i < 0 || i >= len(bins) {
			continue
		}
		falloff := 1.0 - 0.3*math.Abs(float64(i-center))
		bins[i] = byte(magnitude * falloff)
	}

	return bins
}

// Close implements analyzer.Tap. Closing the tap stops the session.
func (t *syntheticTap) Close() error {
	return (*syntheticSession)(t).Stop()
}
