// Package analyzer extracts per-frame loudness and frequency-band features
// from a live audio tap. It implements RMS loudness measurement and smoothed
// low/mid/high band energies used to drive the waveform renderer.
package analyzer
