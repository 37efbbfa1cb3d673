package note

import "time"

// Title and transcript placeholder values. A record carries ProcessingTitle
// and ProcessingTranscript from the moment it is saved until the enrichment
// pipeline resolves both fields, possibly to the fallback values below.
const (
	ProcessingTitle      = "Processing..."
	ProcessingTranscript = "Processing..."

	// FallbackTitle and FallbackTranscript are substituted when the
	// external enrichment services fail.
	FallbackTitle      = "Untitled Note"
	FallbackTranscript = "Transcription failed"

	// DefaultTitle is used when enrichment is disabled by configuration.
	DefaultTitle = "Voice Note"
)

// Blob is an opaque recorded audio payload with its container mime type.
type Blob struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// Size returns the payload size in bytes.
func (b Blob) Size() int {
	return len(b.Data)
}

// Record is a persisted voice note.
type Record struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Transcript    string `json:"transcript"`
	Audio         Blob   `json:"audio"`
	DurationLabel string `json:"duration_label"`
	CreatedAt     int64  `json:"created_at"` // epoch milliseconds
}

// Processing reports whether the record still carries the enrichment
// placeholder, i.e. its background task has not finished yet.
func (r *Record) Processing() bool {
	return r.Title == ProcessingTitle
}

// CreatedTime returns the creation timestamp as a time.Time.
func (r *Record) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// New creates an unsaved record in the processing state for a finished
// recording. The store assigns the id on save.
func New(audio Blob, durationLabel string, createdAt time.Time) *Record {
	return &Record{
		Title:         ProcessingTitle,
		Transcript:    ProcessingTranscript,
		Audio:         audio,
		DurationLabel: durationLabel,
		CreatedAt:     createdAt.UnixMilli(),
	}
}
