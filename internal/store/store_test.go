package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archanaprabhat/VoiceNotes/internal/note"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func testRecord(createdAt int64) *note.Record {
	return &note.Record{
		Title:         note.ProcessingTitle,
		Transcript:    note.ProcessingTranscript,
		Audio:         note.Blob{Data: []byte{0x01, 0x02, 0x03}, MimeType: "audio/pcm"},
		DurationLabel: "00:07",
		CreatedAt:     createdAt,
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord(1717243200000)
	id, err := s.Save(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Transcript, got.Transcript)
	assert.Equal(t, rec.Audio.Data, got.Audio.Data)
	assert.Equal(t, rec.Audio.MimeType, got.Audio.MimeType)
	assert.Equal(t, rec.DurationLabel, got.DurationLabel)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
	assert.True(t, got.Processing())
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMergesFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord(1000)
	id, err := s.Save(ctx, rec)
	require.NoError(t, err)

	// Updating only the title leaves the transcript untouched.
	title := "Grocery run"
	got, err := s.Update(ctx, id, UpdateFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Grocery run", got.Title)
	assert.Equal(t, note.ProcessingTranscript, got.Transcript)

	transcript := "Buy milk and eggs"
	got, err = s.Update(ctx, id, UpdateFields{Transcript: &transcript})
	require.NoError(t, err)
	assert.Equal(t, "Grocery run", got.Title)
	assert.Equal(t, "Buy milk and eggs", got.Transcript)

	// Immutable fields survive updates.
	got, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)
	assert.Equal(t, rec.Audio.Data, got.Audio.Data)
	assert.Equal(t, rec.DurationLabel, got.DurationLabel)
}

func TestUpdateMissing(t *testing.T) {
	s := openTestStore(t)

	title := "orphan"
	_, err := s.Update(context.Background(), 99, UpdateFields{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, testRecord(1000))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is reported but harmless.
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestListAllNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Inserted out of chronological order on purpose.
	for _, createdAt := range []int64{200, 300, 100} {
		_, err := s.Save(ctx, testRecord(createdAt))
		require.NoError(t, err)
	}

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, int64(300), records[0].CreatedAt)
	assert.Equal(t, int64(200), records[1].CreatedAt)
	assert.Equal(t, int64(100), records[2].CreatedAt)
}

func TestListAllTieBreaksOnID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, testRecord(500))
	require.NoError(t, err)
	second, err := s.Save(ctx, testRecord(500))
	require.NoError(t, err)

	records, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Same timestamp: the later insert wins the newest slot.
	assert.Equal(t, second, records[0].ID)
	assert.Equal(t, first, records[1].ID)
}

func TestCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = s.Save(ctx, testRecord(1))
	require.NoError(t, err)
	_, err = s.Save(ctx, testRecord(2))
	require.NoError(t, err)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Save(context.Background(), testRecord(1))
	assert.NoError(t, err)
}
