// Package playback provides per-note audio playback with seeking and
// progress reporting. At most one note plays at a time; starting a new
// playback tears down the previous one first.
package playback
