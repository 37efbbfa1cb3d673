// Package audio handles recorded audio payloads: chunk accumulation during a
// live recording session, WAV encoding of raw PCM captures, and duration
// label formatting.
package audio
