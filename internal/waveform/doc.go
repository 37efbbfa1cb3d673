// Package waveform renders an audio-reactive composite waveform onto a
// canvas while a recording is active. Five hand-tuned sine generators are
// modulated by live analyzer features and composited into a filled curve
// once per frame.
package waveform
