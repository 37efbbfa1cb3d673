package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/archanaprabhat/VoiceNotes/internal/audio"
	"github.com/archanaprabhat/VoiceNotes/internal/metrics"
	"github.com/archanaprabhat/VoiceNotes/internal/note"
	"github.com/archanaprabhat/VoiceNotes/internal/store"
)

// NoteUpdater is the slice of the note store the pipeline needs.
type NoteUpdater interface {
	Update(ctx context.Context, id int64, fields store.UpdateFields) (*note.Record, error)
}

// Pipeline runs one fire-and-forget background enrichment task per saved
// note. The save path never blocks on it; failures inside a task degrade to
// fallback content instead of surfacing. Each saved record gets at most one
// task and always ends in a final state.
type Pipeline struct {
	client *Client
	store  NoteUpdater
	logger *slog.Logger
	m      *metrics.Metrics

	// sampleRate is used to wrap raw PCM payloads into WAV before upload.
	sampleRate int

	wg sync.WaitGroup
}

// NewPipeline creates an enrichment pipeline. The metrics argument may be
// nil.
func NewPipeline(client *Client, updater NoteUpdater, logger *slog.Logger, m *metrics.Metrics, sampleRate int) (*Pipeline, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}

	if updater == nil {
		return nil, fmt.Errorf("note updater cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if sampleRate <= 0 {
		sampleRate = 44100
	}

	return &Pipeline{
		client:     client,
		store:      updater,
		logger:     logger,
		m:          m,
		sampleRate: sampleRate,
	}, nil
}

// Enqueue starts the background enrichment task for a freshly saved note.
// It returns immediately.
func (p *Pipeline) Enqueue(id int64, blob note.Blob) {
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		p.run(context.Background(), id, blob)
	}()
}

// Wait blocks until all in-flight enrichment tasks have finished. Used
// during graceful shutdown.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Client returns the underlying enrichment client.
func (p *Pipeline) Client() *Client {
	return p.client
}

// run executes one enrichment task. Every step is independently fallible:
// a failed transcription falls back to fixed text, a failed title call
// falls back to a fixed title, and only the final store update can surface
// an error, which is logged and swallowed.
func (p *Pipeline) run(ctx context.Context, id int64, blob note.Blob) {
	start := time.Now()
	if p.m != nil {
		p.m.EnrichmentTasks.Inc()
	}

	title, transcript, degraded := p.resolve(ctx, blob)

	if _, err := p.store.Update(ctx, id, store.UpdateFields{
		Title:      &title,
		Transcript: &transcript,
	}); err != nil {
		// The note may have been deleted while enrichment was running.
		p.logger.Warn("Failed to finalize note after enrichment",
			slog.Int64("note_id", id),
			slog.String("error", err.Error()),
		)
		return
	}

	if p.m != nil {
		p.m.EnrichmentDuration.Observe(time.Since(start).Seconds())
		if degraded {
			p.m.EnrichmentFallbacks.Inc()
		} else {
			p.m.EnrichmentSuccesses.Inc()
		}
	}

	p.logger.Info("Note enrichment finished",
		slog.Int64("note_id", id),
		slog.String("title", title),
		slog.Bool("degraded", degraded),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// resolve produces the final title and transcript for a note, substituting
// fallbacks step by step.
func (p *Pipeline) resolve(ctx context.Context, blob note.Blob) (title, transcript string, degraded bool) {
	if p.client.Config().Disabled() {
		return note.DefaultTitle, "", false
	}

	payload := p.prepareUpload(blob)

	transcript, err := p.client.Transcribe(ctx, payload)
	if err != nil {
		p.logger.Warn("Transcription failed, using fallback text",
			slog.String("error", err.Error()))
		if p.m != nil {
			p.m.TranscriptionErrors.Inc()
		}
		return note.FallbackTitle, note.FallbackTranscript, true
	}

	title, err = p.client.GenerateTitle(ctx, transcript)
	if err != nil {
		p.logger.Warn("Title generation failed, using fallback title",
			slog.String("error", err.Error()))
		if p.m != nil {
			p.m.TitleErrors.Inc()
		}
		return note.FallbackTitle, transcript, true
	}

	return title, transcript, false
}

// prepareUpload wraps raw PCM payloads into a WAV container so the
// speech-to-text service receives a self-describing format. Other payloads
// pass through untouched.
func (p *Pipeline) prepareUpload(blob note.Blob) note.Blob {
	if blob.MimeType != audio.MimeTypePCM {
		return blob
	}

	wav, err := audio.EncodeWAV(blob.Data, p.sampleRate)
	if err != nil {
		p.logger.Warn("Failed to wrap PCM payload into WAV, uploading raw",
			slog.String("error", err.Error()))
		return blob
	}

	return note.Blob{Data: wav, MimeType: audio.MimeTypeWAV}
}

// Highlights extracts 2-4 highlight phrases from a set of note transcripts,
// e.g. all notes of a calendar month. An empty input short-circuits to an
// empty result without calling the external service, as does a disabled
// configuration.
func (p *Pipeline) Highlights(ctx context.Context, transcripts []string) []string {
	if len(transcripts) == 0 {
		return nil
	}

	if p.client.Config().Disabled() {
		return nil
	}

	if p.m != nil {
		p.m.HighlightRequests.Inc()
	}

	highlights, err := p.client.Highlights(ctx, transcripts)
	if err != nil {
		p.logger.Warn("Highlight extraction failed",
			slog.String("error", err.Error()))
		return nil
	}

	return highlights
}
