package analyzer

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Band identifies one of the three frequency bands tracked by the analyzer.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Tap exposes the live audio-analysis graph of an active capture stream.
// TimeDomain returns the latest waveform samples in [-1, 1]; FrequencyBins
// returns the latest magnitude spectrum as byte magnitudes (0-255 per bin).
// Close releases the underlying analysis graph and must be called exactly
// once when the recording ends.
type Tap interface {
	TimeDomain() []float64
	FrequencyBins() []byte
	Close() error
}

// Snapshot is one frame of extracted audio features. All values are
// normalized to [0, 1].
type Snapshot struct {
	Loudness float64 `json:"loudness"`
	Low      float64 `json:"low"`
	Mid      float64 `json:"mid"`
	High     float64 `json:"high"`
}

// BandEnergy returns the smoothed energy of the given band.
func (s Snapshot) BandEnergy(b Band) float64 {
	switch b {
	case BandLow:
		return s.Low
	case BandMid:
		return s.Mid
	case BandHigh:
		return s.High
	default:
		return 0
	}
}

// Band bin boundaries, expressed as fractions of the bin count. The
// reference spectrum is 128 bins, split at bins 10 and 40.
const (
	lowBandEnd = 10.0 / 128.0
	midBandEnd = 40.0 / 128.0
)

// bandSmoothing is the exponential moving average weight toward the newest
// band sample.
const bandSmoothing = 0.3

// Analyzer produces feature snapshots from a live audio tap, nominally once
// per animation frame. Band energies are smoothed across frames; the only
// way to reset smoothing state is to create a new analyzer.
type Analyzer struct {
	tap Tap

	// Smoothed band state
	low  float64
	mid  float64
	high float64

	// Statistics
	frames        uint64
	lastProcessed time.Time

	mu sync.RWMutex
}

// Stats represents analyzer statistics.
type Stats struct {
	Frames        uint64    `json:"frames"`
	LastProcessed time.Time `json:"last_processed"`
}

// New creates an analyzer over the given tap.
func New(tap Tap) (*Analyzer, error) {
	if tap == nil {
		return nil, fmt.Errorf("tap cannot be nil")
	}

	return &Analyzer{tap: tap}, nil
}

// Snapshot reads the tap and returns the current feature frame. Loudness is
// instantaneous RMS; band energies are EMA-smoothed against prior frames.
func (a *Analyzer) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	loudness := rms(a.tap.TimeDomain())

	bins := a.tap.FrequencyBins()
	low := bandEnergy(bins, 0, int(lowBandEnd*float64(len(bins))))
	mid := bandEnergy(bins, int(lowBandEnd*float64(len(bins))), int(midBandEnd*float64(len(bins))))
	high := bandEnergy(bins, int(midBandEnd*float64(len(bins))), len(bins))

	if a.frames == 0 {
		a.low = low
		a.mid = mid
		a.high = high
	} else {
		a.low = bandSmoothing*low + (1-bandSmoothing)*a.low
		a.mid = bandSmoothing*mid + (1-bandSmoothing)*a.mid
		a.high = bandSmoothing*high + (1-bandSmoothing)*a.high
	}

	a.frames++
	a.lastProcessed = time.Now()

	return Snapshot{
		Loudness: loudness,
		Low:      a.low,
		Mid:      a.mid,
		High:     a.high,
	}
}

// Close releases the underlying audio-analysis graph.
func (a *Analyzer) Close() error {
	return a.tap.Close()
}

// GetStats returns current analyzer statistics.
func (a *Analyzer) GetStats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Stats{
		Frames:        a.frames,
		LastProcessed: a.lastProcessed,
	}
}

// rms computes the root-mean-square of time-domain samples, clamped to
// [0, 1].
func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var energy float64
	for _, s := range samples {
		energy += s * s
	}

	value := math.Sqrt(energy / float64(len(samples)))
	if value > 1 {
		value = 1
	}
	return value
}

// bandEnergy averages byte magnitudes over [start, end) and normalizes by
// 255. A degenerate range with no bins yields zero energy.
func bandEnergy(bins []byte, start, end int) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(bins) {
		end = len(bins)
	}
	if end <= start {
		return 0
	}

	var sum float64
	for _, b := range bins[start:end] {
		sum += float64(b)
	}

	return sum / 255.0 / float64(end-start)
}
