// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scores.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func sampleScore(id string) *types.ScoreResult {
	return &types.ScoreResult{
		ID:                     id,
		ToolName:               "Tool " + id,
		Homepage:               "https://example.org/" + id,
		BioScore:               0.8,
		BioSubscores:           map[string]float64{"A1": 1, "A2": 0.5, "A3": 0.5, "A4": 1, "A5": 0.5},
		DocScoreV2:             0.7,
		DocumentationScore:     0.7,
		DocumentationSubscores: map[string]float64{"B1": 1, "B2": 1, "B3": 0.5, "B4": 0.5, "B5": 0.5},
		ConfidenceScore:        0.9,
		Model:                  "test-model",
		ModelParams:            types.ModelParams{Attempts: 2, PromptAugmented: true},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	want := sampleScore("biotools:alpha")
	if err := s.Put(ctx, want, types.DecisionAdd); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, decision, err := s.Get(ctx, "biotools:alpha")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if decision != types.DecisionAdd {
		t.Errorf("decision = %q, want add", decision)
	}
	if got.ToolName != want.ToolName {
		t.Errorf("ToolName = %q, want %q", got.ToolName, want.ToolName)
	}
	if got.BioScore != want.BioScore {
		t.Errorf("BioScore = %v, want %v", got.BioScore, want.BioScore)
	}
	if got.DocumentationSubscores["B3"] != 0.5 {
		t.Errorf("B3 = %v, want 0.5", got.DocumentationSubscores["B3"])
	}
	if got.ModelParams.Attempts != 2 || !got.ModelParams.PromptAugmented {
		t.Errorf("ModelParams = %+v, want attempt history preserved", got.ModelParams)
	}
}

func TestGetNotFound(t *testing.T) {
	s, _ := openTestStore(t)

	_, _, err := s.Get(context.Background(), "biotools:missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPutUpserts(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	first := sampleScore("biotools:x")
	if err := s.Put(ctx, first, types.DecisionReview); err != nil {
		t.Fatal(err)
	}

	second := sampleScore("biotools:x")
	second.BioScore = 0.95
	if err := s.Put(ctx, second, types.DecisionAdd); err != nil {
		t.Fatal(err)
	}

	got, decision, err := s.Get(ctx, "biotools:x")
	if err != nil {
		t.Fatal(err)
	}
	if decision != types.DecisionAdd {
		t.Errorf("decision = %q, want the updated add", decision)
	}
	if got.BioScore != 0.95 {
		t.Errorf("BioScore = %v, want the updated 0.95", got.BioScore)
	}

	results, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("List returned %d rows after upsert, want 1", len(results))
	}
}

func TestListOrdered(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"biotools:zeta", "biotools:alpha", "biotools:mid"} {
		if err := s.Put(ctx, sampleScore(id), types.DecisionReview); err != nil {
			t.Fatal(err)
		}
	}

	results, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"biotools:alpha", "biotools:mid", "biotools:zeta"}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i, r := range results {
		if r.ID != want[i] {
			t.Errorf("results[%d].ID = %q, want %q", i, r.ID, want[i])
		}
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, sampleScore("biotools:persist"), types.DecisionAdd); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, decision, err := s2.Get(ctx, "biotools:persist")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if decision != types.DecisionAdd || got.ToolName == "" {
		t.Errorf("score not persisted: %+v, %q", got, decision)
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scores.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}
