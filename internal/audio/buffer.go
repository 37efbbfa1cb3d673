package audio

import (
	"fmt"
	"sync"
	"time"
)

// ChunkBuffer accumulates the encoded audio chunks emitted by a capture
// session. Chunks arrive in capture order from a single producer; the buffer
// keeps them until the recording is finalized into one contiguous payload.
type ChunkBuffer struct {
	chunks     [][]byte
	totalBytes int

	// Timing and metadata
	firstAppend time.Time
	lastAppend  time.Time
	mu          sync.RWMutex
}

// BufferStats represents chunk buffer statistics for monitoring.
type BufferStats struct {
	ChunkCount  int       `json:"chunk_count"`
	TotalBytes  int       `json:"total_bytes"`
	FirstAppend time.Time `json:"first_append"`
	LastAppend  time.Time `json:"last_append"`
}

// NewChunkBuffer creates an empty chunk buffer.
func NewChunkBuffer() *ChunkBuffer {
	return &ChunkBuffer{
		chunks: make([][]byte, 0, 64),
	}
}

// Append adds one captured chunk to the buffer. The chunk is copied so the
// caller may reuse its slice.
func (b *ChunkBuffer) Append(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot append empty chunk")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	chunk := make([]byte, len(data))
	copy(chunk, data)

	now := time.Now()
	if len(b.chunks) == 0 {
		b.firstAppend = now
	}
	b.lastAppend = now

	b.chunks = append(b.chunks, chunk)
	b.totalBytes += len(chunk)

	return nil
}

// Bytes concatenates all buffered chunks into a single payload.
func (b *ChunkBuffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]byte, 0, b.totalBytes)
	for _, chunk := range b.chunks {
		out = append(out, chunk...)
	}
	return out
}

// Reset discards all buffered chunks.
func (b *ChunkBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.chunks = b.chunks[:0]
	b.totalBytes = 0
	b.firstAppend = time.Time{}
	b.lastAppend = time.Time{}
}

// ChunkCount returns the number of buffered chunks.
func (b *ChunkBuffer) ChunkCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.chunks)
}

// Size returns the total buffered payload size in bytes.
func (b *ChunkBuffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.totalBytes
}

// GetStats returns current buffer statistics.
func (b *ChunkBuffer) GetStats() BufferStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BufferStats{
		ChunkCount:  len(b.chunks),
		TotalBytes:  b.totalBytes,
		FirstAppend: b.firstAppend,
		LastAppend:  b.lastAppend,
	}
}
