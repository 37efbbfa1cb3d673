// Package enrichment provides best-effort background post-processing of
// saved voice notes: speech-to-text transcription, title generation, and
// highlight extraction via external AI services. Every step degrades to
// fallback content on failure; a saved note always reaches a final state.
package enrichment
