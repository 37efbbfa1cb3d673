package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/archanaprabhat/VoiceNotes/internal/audio"
	"github.com/archanaprabhat/VoiceNotes/internal/note"
)

// Config contains enrichment client configuration. An empty APIKey is valid
// and disables the feature entirely.
type Config struct {
	TranscriptionEndpoint string
	ChatEndpoint          string
	APIKey                string
	TranscribeModel       string
	ChatModel             string
	Temperature           float64
	MaxTokens             int
	Timeout               time.Duration
	MaxConcurrent         int
}

// Disabled reports whether enrichment is switched off by configuration.
func (c Config) Disabled() bool {
	return c.APIKey == ""
}

// Client performs the HTTP calls to the external speech-to-text and
// chat-completion services.
type Client struct {
	config     Config
	httpClient *http.Client
	semaphore  chan struct{} // Rate limiting semaphore

	// Statistics
	totalRequests   uint64
	successRequests uint64
	failedRequests  uint64

	mu sync.RWMutex
}

// ClientStats represents client statistics.
type ClientStats struct {
	TotalRequests   uint64  `json:"total_requests"`
	SuccessRequests uint64  `json:"success_requests"`
	FailedRequests  uint64  `json:"failed_requests"`
	SuccessRate     float64 `json:"success_rate"`
}

// transcriptionResponse is the speech-to-text service response shape.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// chatMessage is one message in a chat-completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the fixed chat-completion request shape.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the chat-completion response shape; only the first choice
// is consumed.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const (
	titleSystemPrompt = "You generate short titles for voice notes. " +
		"Reply with a single 3-6 word title for the transcript. No quotes, no punctuation at the end."

	highlightSystemPrompt = "You extract highlights from voice note transcripts. " +
		"Reply with a JSON array of 2-4 short highlight phrases. No other text."
)

// NewClient creates an enrichment client. Endpoints are required only when
// the feature is enabled.
func NewClient(config Config) (*Client, error) {
	if !config.Disabled() {
		if config.TranscriptionEndpoint == "" {
			return nil, fmt.Errorf("transcription endpoint cannot be empty")
		}
		if config.ChatEndpoint == "" {
			return nil, fmt.Errorf("chat endpoint cannot be empty")
		}
	}

	if config.TranscribeModel == "" {
		config.TranscribeModel = "whisper-1"
	}

	if config.ChatModel == "" {
		config.ChatModel = "gpt-4o-mini"
	}

	if config.Temperature <= 0 {
		config.Temperature = 0.7
	}

	if config.MaxTokens <= 0 {
		config.MaxTokens = 60
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		semaphore:  make(chan struct{}, config.MaxConcurrent),
	}, nil
}

// Transcribe sends the audio payload as multipart form data and returns the
// transcribed text. Non-2xx responses are failures.
func (c *Client) Transcribe(ctx context.Context, blob note.Blob) (string, error) {
	if err := c.acquire(ctx); err != nil {
		return "", err
	}
	defer c.release()

	body, contentType, err := c.createMultipartRequest(blob)
	if err != nil {
		c.recordResult(false)
		return "", fmt.Errorf("failed to create multipart request: %w", err)
	}

	respBody, err := c.post(ctx, c.config.TranscriptionEndpoint, contentType, body)
	if err != nil {
		c.recordResult(false)
		return "", err
	}

	var resp transcriptionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		c.recordResult(false)
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}

	c.recordResult(true)
	return resp.Text, nil
}

// GenerateTitle asks the language model for a short title for the given
// transcript.
func (c *Client) GenerateTitle(ctx context.Context, transcript string) (string, error) {
	content, err := c.chat(ctx, titleSystemPrompt, transcript)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(content)
	title = strings.Trim(title, `"'`)
	if title == "" {
		return "", fmt.Errorf("chat service returned empty title")
	}

	return title, nil
}

// Highlights asks the language model for 2-4 short highlight phrases over
// the given transcripts. The response is parsed defensively: a JSON array
// first, then a line-based heuristic.
func (c *Client) Highlights(ctx context.Context, transcripts []string) ([]string, error) {
	if len(transcripts) == 0 {
		return nil, nil
	}

	content, err := c.chat(ctx, highlightSystemPrompt, strings.Join(transcripts, "\n\n"))
	if err != nil {
		return nil, err
	}

	return ParseHighlights(content), nil
}

// chat performs one chat-completion call and returns the first choice
// content.
func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if err := c.acquire(ctx); err != nil {
		return "", err
	}
	defer c.release()

	reqBody, err := json.Marshal(chatRequest{
		Model: c.config.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		c.recordResult(false)
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	respBody, err := c.post(ctx, c.config.ChatEndpoint, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		c.recordResult(false)
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		c.recordResult(false)
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.recordResult(false)
		return "", fmt.Errorf("chat response has no choices")
	}

	c.recordResult(true)
	return resp.Choices[0].Message.Content, nil
}

// post performs one HTTP POST and returns the response body.
func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "VoiceNotes/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// createMultipartRequest builds the multipart body for a transcription call.
func (c *Client) createMultipartRequest(blob note.Blob) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := fmt.Sprintf("%s.%s", uuid.NewString(), extensionForMime(blob.MimeType))
	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := fileWriter.Write(blob.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}

	fields := map[string]string{
		"model":           c.config.TranscribeModel,
		"response_format": "json",
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// extensionForMime maps a blob mime type to an upload filename extension.
func extensionForMime(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return "webm"
	case audio.MimeTypeWAV, "audio/x-wav":
		return "wav"
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/ogg":
		return "ogg"
	default:
		return "bin"
	}
}

func (c *Client) acquire(ctx context.Context) error {
	select {
	case c.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	<-c.semaphore
}

func (c *Client) recordResult(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	if success {
		c.successRequests++
	} else {
		c.failedRequests++
	}
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// GetStats returns current client statistics.
func (c *Client) GetStats() ClientStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	successRate := float64(0)
	if c.totalRequests > 0 {
		successRate = float64(c.successRequests) / float64(c.totalRequests) * 100
	}

	return ClientStats{
		TotalRequests:   c.totalRequests,
		SuccessRequests: c.successRequests,
		FailedRequests:  c.failedRequests,
		SuccessRate:     successRate,
	}
}
