package waveform

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/analyzer"
)

// Envelope and amplitude tuning. Attack is deliberately faster than release
// so the curve jumps on speech onsets and decays naturally afterwards.
const (
	attackRate  = 0.25
	releaseRate = 0.15

	peakDecay     = 0.99
	peakFloor     = 0.001
	baseAmplitude = 0.4
	energyGain    = 3.0
	amplitudeEase = 0.2

	// Number of sample points across the canvas width.
	resolution = 128

	// Vertical scale relative to canvas half-height.
	heightScale = 0.35

	// Default frame interval (~60 Hz).
	defaultFrameInterval = 16 * time.Millisecond
)

// generator is one sine component of the composite curve. The constants are
// hand-tuned; the second harmonic term runs at 1.7x the base frequency with
// 30% weight.
type generator struct {
	frequency float64
	speed     float64
	amplitude float64
	phase     float64
	band      analyzer.Band
}

var generators = [5]generator{
	{frequency: 0.008, speed: 0.9, amplitude: 1.0, phase: 0.0, band: analyzer.BandLow},
	{frequency: 0.012, speed: 1.3, amplitude: 0.8, phase: 2.1, band: analyzer.BandMid},
	{frequency: 0.018, speed: 1.7, amplitude: 0.6, phase: 4.2, band: analyzer.BandHigh},
	{frequency: 0.006, speed: 0.7, amplitude: 0.9, phase: 1.3, band: analyzer.BandLow},
	{frequency: 0.015, speed: 1.1, amplitude: 0.7, phase: 5.4, band: analyzer.BandMid},
}

// Renderer drives the per-frame waveform animation for one recording
// session. It owns the analyzer for the session's audio graph: Stop cancels
// the frame loop and closes the analyzer, releasing the underlying hardware
// resources. Whoever starts the renderer must guarantee Stop runs on every
// exit path.
type Renderer struct {
	analyzer *analyzer.Analyzer
	canvas   Canvas
	interval time.Duration

	// Animation state, touched only by the frame loop (or by tests calling
	// RenderFrame directly).
	timeOffset    float64 // milliseconds, advanced by real elapsed time
	smoothedLevel float64
	peakLevel     float64
	amplitude     float64
	lastFrame     time.Time

	// Frame statistics
	frames uint64

	// Lifecycle
	active bool
	paused bool
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewRenderer creates a renderer over the given analyzer and canvas. A
// non-positive frame interval selects the ~60 Hz default.
func NewRenderer(a *analyzer.Analyzer, canvas Canvas, interval time.Duration) (*Renderer, error) {
	if a == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}

	if canvas == nil {
		return nil, fmt.Errorf("canvas cannot be nil")
	}

	if interval <= 0 {
		interval = defaultFrameInterval
	}

	return &Renderer{
		analyzer:  a,
		canvas:    canvas,
		interval:  interval,
		amplitude: baseAmplitude,
	}, nil
}

// Start launches the frame loop. It fails if the renderer is already active
// or has already been stopped.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return fmt.Errorf("renderer already active")
	}

	if r.done != nil {
		return fmt.Errorf("renderer already stopped; create a new one")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.active = true
	r.cancel = cancel
	r.done = make(chan struct{})
	r.lastFrame = time.Now()

	go r.loop(loopCtx)

	return nil
}

// loop draws frames until cancelled.
func (r *Renderer) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.mu.Lock()
			elapsed := now.Sub(r.lastFrame)
			r.lastFrame = now
			r.RenderFrame(elapsed)
			r.mu.Unlock()
		}
	}
}

// Pause suspends frame production without tearing down the audio graph.
func (r *Renderer) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Resume restarts frame production after a pause. The elapsed-time baseline
// is reset so the animation does not jump by the pause duration.
func (r *Renderer) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFrame = time.Now()
	r.paused = false
}

// Stop cancels the pending frame loop and closes the analyzer, releasing
// the audio-analysis graph. It is safe to call multiple times; only the
// first call has any effect.
func (r *Renderer) Stop() error {
	r.mu.Lock()

	if r.cancel == nil {
		// Never started, or already stopped.
		if r.analyzer != nil {
			a := r.analyzer
			r.analyzer = nil
			r.mu.Unlock()
			return a.Close()
		}
		r.mu.Unlock()
		return nil
	}

	cancel := r.cancel
	done := r.done
	a := r.analyzer
	r.cancel = nil
	r.analyzer = nil
	r.active = false
	r.mu.Unlock()

	cancel()
	<-done

	if a != nil {
		return a.Close()
	}
	return nil
}

// RenderFrame advances the animation by the given real elapsed time and
// draws one frame. The frame loop calls it under the renderer lock; tests
// call it directly for deterministic stepping.
func (r *Renderer) RenderFrame(elapsed time.Duration) {
	if r.paused {
		// Hold the current picture.
		return
	}

	if r.analyzer == nil {
		return
	}

	r.timeOffset += elapsed.Seconds() * 1000

	snap := r.analyzer.Snapshot()

	// Asymmetric loudness envelope: fast attack, slow release.
	if snap.Loudness > r.smoothedLevel {
		r.smoothedLevel += (snap.Loudness - r.smoothedLevel) * attackRate
	} else {
		r.smoothedLevel += (snap.Loudness - r.smoothedLevel) * releaseRate
	}

	// Decaying peak tracker normalizes perceived voice energy.
	r.peakLevel *= peakDecay
	if r.smoothedLevel > r.peakLevel {
		r.peakLevel = r.smoothedLevel
	}

	energy := 0.0
	if r.peakLevel > peakFloor {
		energy = r.smoothedLevel / r.peakLevel
	}

	target := baseAmplitude + energy*energyGain
	r.amplitude += (target - r.amplitude) * amplitudeEase

	r.draw(snap)
	r.frames++
}

// draw composites the generators into a filled curve along the bottom of
// the canvas.
func (r *Renderer) draw(snap analyzer.Snapshot) {
	width, height := r.canvas.Size()
	if width <= 0 || height <= 0 {
		return
	}

	scale := r.amplitude * (height / 2) * heightScale
	baseline := height * 0.55

	xs := make([]float64, resolution)
	ys := make([]float64, resolution)
	step := width / float64(resolution-1)

	for i := 0; i < resolution; i++ {
		x := float64(i) * step

		var offset float64
		for _, g := range generators {
			// Band energy modulates each generator by +-50%.
			mod := 0.5 + snap.BandEnergy(g.band)

			t := r.timeOffset * g.speed * 0.001
			primary := math.Sin(x*g.frequency + t + g.phase)
			harmonic := 0.3 * math.Sin(x*g.frequency*1.7+t+g.phase)

			offset += g.amplitude * mod * (primary + harmonic)
		}

		xs[i] = x
		ys[i] = baseline - offset*scale
	}

	r.canvas.Clear()
	r.canvas.MoveTo(0, height)
	r.canvas.LineTo(xs[0], ys[0])

	// Quadratic midpoint interpolation keeps the curve visually smooth.
	for i := 1; i < resolution; i++ {
		midX := (xs[i-1] + xs[i]) / 2
		midY := (ys[i-1] + ys[i]) / 2
		r.canvas.QuadraticCurveTo(xs[i-1], ys[i-1], midX, midY)
	}
	r.canvas.LineTo(xs[resolution-1], ys[resolution-1])

	r.canvas.LineTo(width, height)
	r.canvas.ClosePath()
	r.canvas.Fill()
}

// Amplitude returns the current eased amplitude. Exposed for tests and
// diagnostics.
func (r *Renderer) Amplitude() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amplitude
}

// Frames returns the number of frames rendered so far.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// TimeOffset returns the accumulated animation time in milliseconds.
func (r *Renderer) TimeOffset() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeOffset
}
