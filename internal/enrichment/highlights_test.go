package enrichment

import (
	"strings"
	"testing"
)

func TestParseHighlights(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "json array",
			content: `["call the plumber", "book flights"]`,
			want:    []string{"call the plumber", "book flights"},
		},
		{
			name:    "json in code fence",
			content: "```json\n[\"review budget\", \"send invoice\"]\n```",
			want:    []string{"review budget", "send invoice"},
		},
		{
			name:    "dash bullets",
			content: "- call the plumber\n- book flights\n- send invoice",
			want:    []string{"call the plumber", "book flights", "send invoice"},
		},
		{
			name:    "numbered list",
			content: "1. review budget\n2) send invoice",
			want:    []string{"review budget", "send invoice"},
		},
		{
			name:    "unicode bullets and quotes",
			content: "• \"call the plumber\"\n• 'book flights'",
			want:    []string{"call the plumber", "book flights"},
		},
		{
			name:    "caps at four",
			content: "- one\n- two\n- three\n- four\n- five\n- six",
			want:    []string{"one", "two", "three", "four"},
		},
		{
			name:    "drops blank and overlong lines",
			content: "- keep this\n-   \n- " + strings.Repeat("x", 81) + "\n- and this",
			want:    []string{"keep this", "and this"},
		},
		{
			name:    "empty content",
			content: "   ",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHighlights(tt.content)

			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d highlights, got %d: %v", len(tt.want), len(got), got)
			}

			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Highlight %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestStripBullet(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"- item", "item"},
		{"* item", "item"},
		{"• item", "item"},
		{"12. item", "item"},
		{"3) item", "item"},
		{"plain item", "plain item"},
		{"2024 review", "2024 review"},
	}

	for _, tt := range tests {
		if got := stripBullet(tt.line); got != tt.want {
			t.Errorf("stripBullet(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
