package capture

import (
	"context"
	"testing"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/audio"
)

func TestNewSyntheticMicrophoneValidation(t *testing.T) {
	if _, err := NewSyntheticMicrophone(SyntheticConfig{}); err == nil {
		t.Error("Expected error for zero sample rate")
	}

	if _, err := NewSyntheticMicrophone(SyntheticConfig{SampleRate: 8000}); err != nil {
		t.Errorf("Expected defaults to apply, got %v", err)
	}
}

func TestSyntheticSessionEmitsChunks(t *testing.T) {
	mic, err := NewSyntheticMicrophone(SyntheticConfig{
		SampleRate:  8000,
		ChunkPeriod: 10 * time.Millisecond,
		Frequency:   440,
		Amplitude:   0.8,
	})
	if err != nil {
		t.Fatalf("Failed to create microphone: %v", err)
	}

	session, err := mic.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer session.Stop()

	if session.MimeType() != audio.MimeTypePCM {
		t.Errorf("Expected PCM mime type, got %q", session.MimeType())
	}

	select {
	case chunk := <-session.Chunks():
		// 10ms at 8 kHz, 16-bit mono.
		if len(chunk) != 160 {
			t.Errorf("Expected 160-byte chunk, got %d", len(chunk))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a chunk within 2s")
	}
}

func TestSyntheticSessionStopClosesChannel(t *testing.T) {
	mic, err := NewSyntheticMicrophone(SyntheticConfig{
		SampleRate:  8000,
		ChunkPeriod: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create microphone: %v", err)
	}

	session, err := mic.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := session.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := session.Stop(); err != nil {
		t.Fatalf("Second Stop failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-session.Chunks():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Expected chunk channel to close after Stop")
		}
	}
}

func TestSyntheticTap(t *testing.T) {
	mic, err := NewSyntheticMicrophone(SyntheticConfig{
		SampleRate:  8000,
		ChunkPeriod: 5 * time.Millisecond,
		Frequency:   440,
		Amplitude:   0.8,
	})
	if err != nil {
		t.Fatalf("Failed to create microphone: %v", err)
	}

	session, err := mic.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Wait for the first chunk so the tap has samples.
	select {
	case <-session.Chunks():
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a chunk within 2s")
	}

	tap := session.Tap()

	samples := tap.TimeDomain()
	if len(samples) == 0 {
		t.Fatal("Expected time-domain samples after first chunk")
	}

	var peak float64
	for _, v := range samples {
		if v > peak {
			peak = v
		}
	}
	if peak < 0.5 {
		t.Errorf("Expected tone peak near amplitude 0.8, got %f", peak)
	}

	bins := tap.FrequencyBins()
	if len(bins) != 128 {
		t.Fatalf("Expected 128 frequency bins, got %d", len(bins))
	}

	// 440 Hz against a 4 kHz Nyquist lands in bin 14.
	var maxBin int
	for i, b := range bins {
		if b > bins[maxBin] {
			maxBin = i
		}
	}
	if maxBin < 12 || maxBin > 16 {
		t.Errorf("Expected spectral peak near bin 14, got bin %d", maxBin)
	}

	// Closing the tap stops the session.
	if err := tap.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-session.Chunks():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Expected chunk channel to close after tap Close")
		}
	}
}
