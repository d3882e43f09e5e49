// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			text: `{"bio_score": 0.8}`,
			want: `{"bio_score": 0.8}`,
			ok:   true,
		},
		{
			name: "leading prose",
			text: "Here is my assessment:\n{\"bio_score\": 0.8}",
			want: `{"bio_score": 0.8}`,
			ok:   true,
		},
		{
			name: "trailing prose",
			text: "{\"bio_score\": 0.8}\nLet me know if you need anything else.",
			want: `{"bio_score": 0.8}`,
			ok:   true,
		},
		{
			name: "nested object",
			text: `{"documentation_subscores": {"B1": 1.0, "B2": 0.5}}`,
			want: `{"documentation_subscores": {"B1": 1.0, "B2": 0.5}}`,
			ok:   true,
		},
		{
			name: "markdown fence",
			text: "```json\n{\"bio_score\": 0.8}\n```",
			want: `{"bio_score": 0.8}`,
			ok:   true,
		},
		{
			name: "no braces",
			text: "I cannot assess this tool.",
			ok:   false,
		},
		{
			name: "unbalanced braces",
			text: `{"bio_score": 0.8`,
			ok:   false,
		},
		{
			name: "invalid JSON between braces",
			text: `{bio_score: 0.8}`,
			ok:   false,
		},
		{
			name: "two objects with prose between",
			text: `{"a": 1} and also {"b": 2}`,
			ok:   false,
		},
		{
			name: "empty string",
			text: "",
			ok:   false,
		},
		{
			name: "close before open",
			text: "} nothing here {",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := ExtractJSON(tt.text)
			if ok != tt.ok {
				t.Fatalf("ExtractJSON ok = %v, want %v", ok, tt.ok)
			}
			if ok && string(raw) != tt.want {
				t.Errorf("ExtractJSON = %q, want %q", raw, tt.want)
			}
		})
	}
}
