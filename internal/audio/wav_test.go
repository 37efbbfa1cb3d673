package audio

import (
	"testing"
	"time"
)

func TestEncodeWAV(t *testing.T) {
	pcm := make([]byte, 16000*2) // 1 second of silence at 16kHz

	data, err := EncodeWAV(pcm, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	if len(data) != 44+len(pcm) {
		t.Errorf("Expected %d bytes, got %d", 44+len(pcm), len(data))
	}

	if string(data[0:4]) != "RIFF" {
		t.Errorf("Expected RIFF header, got %q", data[0:4])
	}

	if string(data[8:12]) != "WAVE" {
		t.Errorf("Expected WAVE format, got %q", data[8:12])
	}
}

func TestEncodeWAVValidation(t *testing.T) {
	tests := []struct {
		name       string
		pcm        []byte
		sampleRate int
	}{
		{name: "empty payload", pcm: nil, sampleRate: 16000},
		{name: "odd length", pcm: []byte{0x01, 0x02, 0x03}, sampleRate: 16000},
		{name: "zero sample rate", pcm: []byte{0x01, 0x02}, sampleRate: 0},
		{name: "negative sample rate", pcm: []byte{0x01, 0x02}, sampleRate: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeWAV(tt.pcm, tt.sampleRate); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestDecodeWAVInfoRoundTrip(t *testing.T) {
	pcm := make([]byte, 8000) // half a second at 8kHz mono

	data, err := EncodeWAV(pcm, 8000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	dataSize, sampleRate, channels, err := DecodeWAVInfo(data)
	if err != nil {
		t.Fatalf("DecodeWAVInfo failed: %v", err)
	}

	if dataSize != len(pcm) {
		t.Errorf("Expected data size %d, got %d", len(pcm), dataSize)
	}

	if sampleRate != 8000 {
		t.Errorf("Expected sample rate 8000, got %d", sampleRate)
	}

	if channels != 1 {
		t.Errorf("Expected 1 channel, got %d", channels)
	}
}

func TestDecodeWAVInfoRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte{0x01, 0x02}},
		{name: "not riff", data: make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := DecodeWAVInfo(tt.data); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestWAVDuration(t *testing.T) {
	pcm := make([]byte, 16000*2*2) // 2 seconds at 16kHz mono 16-bit

	data, err := EncodeWAV(pcm, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	d, err := WAVDuration(data)
	if err != nil {
		t.Fatalf("WAVDuration failed: %v", err)
	}

	if d != 2*time.Second {
		t.Errorf("Expected 2s, got %v", d)
	}
}
