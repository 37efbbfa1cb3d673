// Package metrics defines the Prometheus instrumentation for the voice note
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice note service.
type Metrics struct {
	// Recording metrics
	RecordingsStarted   prometheus.Counter
	RecordingsCompleted prometheus.Counter
	RecordingsCancelled prometheus.Counter
	RecordingFailures   prometheus.Counter
	RecordingDuration   prometheus.Histogram
	FramesRendered      prometheus.Counter

	// Note store metrics
	NotesSaved   prometheus.Counter
	NotesDeleted prometheus.Counter
	NoteSize     prometheus.Histogram

	// Enrichment metrics
	EnrichmentTasks      prometheus.Counter
	EnrichmentSuccesses  prometheus.Counter
	EnrichmentFallbacks  prometheus.Counter
	EnrichmentDuration   prometheus.Histogram
	TranscriptionErrors  prometheus.Counter
	TitleErrors          prometheus.Counter
	HighlightRequests    prometheus.Counter

	// Playback metrics
	PlaybacksStarted prometheus.Counter
	PlaybackSeeks    prometheus.Counter
	ActivePlayback   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Recording metrics
		RecordingsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_recordings_started_total",
			Help: "Total number of recordings started",
		}),
		RecordingsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_recordings_completed_total",
			Help: "Total number of recordings stopped and committed",
		}),
		RecordingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_recordings_cancelled_total",
			Help: "Total number of recordings stopped and discarded",
		}),
		RecordingFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_recording_failures_total",
			Help: "Total number of recordings that failed to start",
		}),
		RecordingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicenotes_recording_duration_seconds",
			Help:    "Duration of committed recordings",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		FramesRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_waveform_frames_rendered_total",
			Help: "Total number of waveform frames rendered",
		}),

		// Note store metrics
		NotesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_notes_saved_total",
			Help: "Total number of notes saved to the store",
		}),
		NotesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_notes_deleted_total",
			Help: "Total number of notes deleted from the store",
		}),
		NoteSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicenotes_note_audio_bytes",
			Help:    "Audio payload size of saved notes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),

		// Enrichment metrics
		EnrichmentTasks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_enrichment_tasks_total",
			Help: "Total number of enrichment tasks started",
		}),
		EnrichmentSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_enrichment_successes_total",
			Help: "Total number of enrichment tasks that completed without fallbacks",
		}),
		EnrichmentFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_enrichment_fallbacks_total",
			Help: "Total number of enrichment tasks that substituted fallback content",
		}),
		EnrichmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicenotes_enrichment_duration_seconds",
			Help:    "Wall time of enrichment tasks",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		TranscriptionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_transcription_errors_total",
			Help: "Total number of failed speech-to-text calls",
		}),
		TitleErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_title_errors_total",
			Help: "Total number of failed title generation calls",
		}),
		HighlightRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_highlight_requests_total",
			Help: "Total number of highlight extraction calls issued",
		}),

		// Playback metrics
		PlaybacksStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_playbacks_started_total",
			Help: "Total number of note playbacks started",
		}),
		PlaybackSeeks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voicenotes_playback_seeks_total",
			Help: "Total number of playback seek operations",
		}),
		ActivePlayback: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "voicenotes_active_playback",
			Help: "Whether a note is currently playing (0 or 1)",
		}),
	}
}
