// Package recorder drives the microphone capture state machine. It owns the
// analyzer and waveform renderer for the lifetime of one recording session,
// buffers captured audio chunks, and hands finished recordings to the note
// store and enrichment pipeline.
package recorder
