package analyzer

import (
	"math"
	"testing"
)

// fakeTap is a scriptable analysis graph.
type fakeTap struct {
	samples []float64
	bins    []byte
	closed  int
}

func (t *fakeTap) TimeDomain() []float64 { return t.samples }
func (t *fakeTap) FrequencyBins() []byte { return t.bins }
func (t *fakeTap) Close() error {
	t.closed++
	return nil
}

// uniformBins returns n bins all set to v.
func uniformBins(n int, v byte) []byte {
	bins := make([]byte, n)
	for i := range bins {
		bins[i] = v
	}
	return bins
}

func TestNewRequiresTap(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("Expected error for nil tap")
	}
}

func TestLoudnessRMS(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{name: "silence", samples: make([]float64, 256), want: 0},
		{name: "constant half", samples: []float64{0.5, 0.5, 0.5, 0.5}, want: 0.5},
		{name: "alternating sign", samples: []float64{0.5, -0.5, 0.5, -0.5}, want: 0.5},
		{name: "full scale", samples: []float64{1, -1, 1, -1}, want: 1},
		{name: "empty buffer", samples: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(&fakeTap{samples: tt.samples, bins: make([]byte, 128)})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			snap := a.Snapshot()
			if math.Abs(snap.Loudness-tt.want) > 1e-9 {
				t.Errorf("Expected loudness %f, got %f", tt.want, snap.Loudness)
			}
		})
	}
}

func TestLoudnessClamped(t *testing.T) {
	a, err := New(&fakeTap{samples: []float64{2, -2, 2, -2}, bins: make([]byte, 128)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if snap := a.Snapshot(); snap.Loudness != 1 {
		t.Errorf("Expected loudness clamped to 1, got %f", snap.Loudness)
	}
}

func TestBandEnergyFirstFrame(t *testing.T) {
	// All 128 bins at full magnitude: every band reads 1.0 on the first
	// frame (no prior state to smooth against).
	tap := &fakeTap{samples: make([]float64, 16), bins: uniformBins(128, 255)}
	a, err := New(tap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap := a.Snapshot()
	for _, band := range []Band{BandLow, BandMid, BandHigh} {
		if math.Abs(snap.BandEnergy(band)-1.0) > 1e-9 {
			t.Errorf("Expected %s band energy 1.0, got %f", band, snap.BandEnergy(band))
		}
	}
}

func TestBandSmoothing(t *testing.T) {
	tap := &fakeTap{samples: make([]float64, 16), bins: uniformBins(128, 255)}
	a, err := New(tap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a.Snapshot() // all bands settle at 1.0

	// Drop the spectrum to silence: the EMA moves 30% toward the new
	// sample per frame.
	tap.bins = make([]byte, 128)

	snap := a.Snapshot()
	if math.Abs(snap.Low-0.7) > 1e-9 {
		t.Errorf("Expected low band 0.7 after one silent frame, got %f", snap.Low)
	}

	snap = a.Snapshot()
	if math.Abs(snap.Low-0.49) > 1e-9 {
		t.Errorf("Expected low band 0.49 after two silent frames, got %f", snap.Low)
	}
}

func TestZeroBinsGuard(t *testing.T) {
	// A degenerate spectrum with no bins must read as zero energy in all
	// bands rather than dividing by zero.
	tap := &fakeTap{samples: []float64{0.5, 0.5}, bins: nil}
	a, err := New(tap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap := a.Snapshot()
	if snap.Low != 0 || snap.Mid != 0 || snap.High != 0 {
		t.Errorf("Expected zero band energies, got %+v", snap)
	}
}

func TestBandsAreIndependent(t *testing.T) {
	// Energy only in the low range (first 10 of 128 bins).
	bins := make([]byte, 128)
	for i := 0; i < 10; i++ {
		bins[i] = 255
	}

	tap := &fakeTap{samples: make([]float64, 16), bins: bins}
	a, err := New(tap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap := a.Snapshot()
	if math.Abs(snap.Low-1.0) > 1e-9 {
		t.Errorf("Expected low band 1.0, got %f", snap.Low)
	}
	if snap.Mid != 0 || snap.High != 0 {
		t.Errorf("Expected mid/high bands 0, got %f/%f", snap.Mid, snap.High)
	}
}

func TestCloseReleasesTap(t *testing.T) {
	tap := &fakeTap{samples: nil, bins: nil}
	a, err := New(tap)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if tap.closed != 1 {
		t.Errorf("Expected tap closed once, got %d", tap.closed)
	}
}

func TestGetStats(t *testing.T) {
	a, err := New(&fakeTap{samples: make([]float64, 8), bins: make([]byte, 128)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a.Snapshot()
	a.Snapshot()

	stats := a.GetStats()
	if stats.Frames != 2 {
		t.Errorf("Expected 2 frames, got %d", stats.Frames)
	}
	if stats.LastProcessed.IsZero() {
		t.Error("Expected last processed timestamp to be set")
	}
}
