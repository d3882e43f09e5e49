// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"testing"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name           string
		candidate      types.Candidate
		wantBio        float64
		wantDoc        float64
		wantConfidence float64
	}{
		{
			name:           "bio keyword in title with homepage",
			candidate:      types.Candidate{ID: "t1", Title: "GeneMapper", Homepage: "https://example.org/genemapper"},
			wantBio:        0.8,
			wantDoc:        0.8,
			wantConfidence: 0.6,
		},
		{
			name:           "genomics tag without title keyword",
			candidate:      types.Candidate{ID: "t2", Title: "Mapper", Tags: []string{"Genomics"}, Homepage: "https://example.org"},
			wantBio:        0.8,
			wantDoc:        0.8,
			wantConfidence: 0.6,
		},
		{
			name:           "no bio signal no homepage",
			candidate:      types.Candidate{ID: "t3", Title: "Mapper"},
			wantBio:        0.4,
			wantDoc:        0.1,
			wantConfidence: 0.3,
		},
		{
			name:           "bio keyword without homepage",
			candidate:      types.Candidate{ID: "t4", Title: "BioAnalyzer"},
			wantBio:        0.8,
			wantDoc:        0.1,
			wantConfidence: 0.3,
		},
		{
			name: "publication-only homepage falls through to alternate link",
			candidate: types.Candidate{
				ID:       "t5",
				Title:    "genomix",
				Homepage: "https://doi.org/10.1000/x",
				URLs:     []string{"https://doi.org/10.1000/y", "https://example.org/genomix"},
			},
			wantBio:        0.8,
			wantDoc:        0.8,
			wantConfidence: 0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := HeuristicScore(tt.candidate)
			if r.BioScore != tt.wantBio {
				t.Errorf("BioScore = %v, want %v", r.BioScore, tt.wantBio)
			}
			if r.DocumentationScore != tt.wantDoc {
				t.Errorf("DocumentationScore = %v, want %v", r.DocumentationScore, tt.wantDoc)
			}
			if r.ConfidenceScore != tt.wantConfidence {
				t.Errorf("ConfidenceScore = %v, want %v", r.ConfidenceScore, tt.wantConfidence)
			}
			if r.Model != "heuristic" {
				t.Errorf("Model = %q, want %q", r.Model, "heuristic")
			}
			if r.ID != tt.candidate.ID {
				t.Errorf("ID = %q, want %q", r.ID, tt.candidate.ID)
			}
		})
	}
}

func TestHeuristicScoreSubscorePatterns(t *testing.T) {
	r := HeuristicScore(types.Candidate{
		ID:       "t1",
		Title:    "GenomeTool",
		Homepage: "https://example.org",
	})

	wantBio := map[string]float64{"A1": 1.0, "A2": 0.5, "A3": 0.5, "A4": 1.0, "A5": 0.5}
	for k, v := range wantBio {
		if r.BioSubscores[k] != v {
			t.Errorf("BioSubscores[%s] = %v, want %v", k, r.BioSubscores[k], v)
		}
	}

	wantDoc := map[string]float64{"B1": 1.0, "B2": 1.0, "B3": 0.5, "B4": 0.5, "B5": 0.5}
	for k, v := range wantDoc {
		if r.DocumentationSubscores[k] != v {
			t.Errorf("DocumentationSubscores[%s] = %v, want %v", k, r.DocumentationSubscores[k], v)
		}
	}

	// Without a homepage the A4 execution-path subscore stays zero.
	r2 := HeuristicScore(types.Candidate{ID: "t2", Title: "GenomeTool"})
	if r2.BioSubscores["A4"] != 0 {
		t.Errorf("A4 without homepage = %v, want 0", r2.BioSubscores["A4"])
	}
	for _, k := range types.DocSubscoreKeys {
		if r2.DocumentationSubscores[k] != 0 {
			t.Errorf("DocumentationSubscores[%s] without homepage = %v, want 0", k, r2.DocumentationSubscores[k])
		}
	}
}

func TestPrimaryHomepage(t *testing.T) {
	tests := []struct {
		name string
		urls []string
		want string
	}{
		{"first usable", []string{"https://example.org/tool", "https://other.org"}, "https://example.org/tool"},
		{"skips publications", []string{"https://doi.org/10.1000/x", "https://example.org/tool"}, "https://example.org/tool"},
		{"skips blanks", []string{"", "  ", "https://example.org"}, "https://example.org"},
		{"nothing usable", []string{"https://pubmed.ncbi.nlm.nih.gov/123/"}, ""},
		{"empty list", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryHomepage(tt.urls); got != tt.want {
				t.Errorf("PrimaryHomepage = %q, want %q", got, tt.want)
			}
		})
	}
}
