// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"math"
	"testing"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

func defaultThresholds() Thresholds {
	return Thresholds{MinBio: 0.6, MinDoc: 0.6, ReviewBio: 0.5, ReviewDoc: 0.5}
}

// scoredResult builds a result that passes every gate at the given levels.
func scoredResult(bio, doc float64) *types.ScoreResult {
	return &types.ScoreResult{
		ID:       "biotools:x",
		Homepage: "https://example.org/tool",
		BioScore: bio,
		BioSubscores: map[string]float64{
			"A1": 1, "A2": 1, "A3": 1, "A4": 1, "A5": 1,
		},
		DocScoreV2: doc,
		DocumentationSubscores: map[string]float64{
			"B1": doc, "B2": doc, "B3": doc, "B4": doc, "B5": doc,
		},
	}
}

func TestDocScoreV2(t *testing.T) {
	tests := []struct {
		name      string
		subscores map[string]float64
		weights   map[string]float64
		want      float64
	}{
		{
			name:      "all ones with default weights sums to one",
			subscores: map[string]float64{"B1": 1, "B2": 1, "B3": 1, "B4": 1, "B5": 1},
			want:      1.0,
		},
		{
			name:      "all zeros",
			subscores: map[string]float64{"B1": 0, "B2": 0, "B3": 0, "B4": 0, "B5": 0},
			want:      0.0,
		},
		{
			name:      "default weights emphasize B1 and B5",
			subscores: map[string]float64{"B1": 1, "B5": 1},
			want:      4.0 / 7.0,
		},
		{
			name:      "missing subscores count as zero",
			subscores: map[string]float64{"B2": 1},
			want:      1.0 / 7.0,
		},
		{
			name:      "custom weights override defaults",
			subscores: map[string]float64{"B1": 1, "B2": 1, "B3": 1, "B4": 1, "B5": 1},
			weights:   map[string]float64{"B1": 0.5, "B2": 0.1, "B3": 0.1, "B4": 0.1, "B5": 0.2},
			want:      1.0,
		},
		{
			name:      "partial custom weights fall back per key",
			subscores: map[string]float64{"B1": 1},
			weights:   map[string]float64{"B1": 0.5},
			want:      0.5,
		},
		{
			name:      "subscores above one are clamped",
			subscores: map[string]float64{"B1": 3.0},
			want:      2.0 / 7.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DocScoreV2(tt.subscores, tt.weights)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DocScoreV2 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyDocScore(t *testing.T) {
	r := &types.ScoreResult{
		DocumentationScore:     0.85, // the model's own aggregate
		DocumentationSubscores: map[string]float64{"B1": 1, "B2": 1, "B3": 1, "B4": 1, "B5": 1},
	}

	ApplyDocScore(r, nil)

	if math.Abs(r.DocScoreV2-1.0) > 1e-9 {
		t.Errorf("DocScoreV2 = %v, want 1.0", r.DocScoreV2)
	}
	if r.DocumentationScore != r.DocScoreV2 {
		t.Errorf("DocumentationScore = %v, want promoted composite %v", r.DocumentationScore, r.DocScoreV2)
	}
	if r.DocumentationScoreRaw != 0.85 {
		t.Errorf("DocumentationScoreRaw = %v, want preserved 0.85", r.DocumentationScoreRaw)
	}

	// Reapplying is stable: the raw aggregate is not overwritten.
	ApplyDocScore(r, nil)
	if r.DocumentationScoreRaw != 0.85 {
		t.Errorf("DocumentationScoreRaw after reapply = %v, want 0.85", r.DocumentationScoreRaw)
	}
	if r.DocumentationScore != r.DocScoreV2 {
		t.Error("reapply changed the promoted score")
	}
}

func TestThresholdsFromConfig(t *testing.T) {
	cfg := types.ClassifyConfig{
		MinBioScore:              0.6,
		MinDocumentationScore:    1.4, // clamped to 1
		ReviewBioScore:           0.9, // above add, clamped down
		ReviewDocumentationScore: -0.2,
	}
	got := ThresholdsFromConfig(cfg)

	if got.MinDoc != 1.0 {
		t.Errorf("MinDoc = %v, want 1.0", got.MinDoc)
	}
	if got.ReviewBio != 0.6 {
		t.Errorf("ReviewBio = %v, want clamped to MinBio 0.6", got.ReviewBio)
	}
	if got.ReviewDoc != 0 {
		t.Errorf("ReviewDoc = %v, want 0", got.ReviewDoc)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ScoreResult)
		want   types.Decision
	}{
		{
			name:   "all thresholds and gates met",
			mutate: func(*types.ScoreResult) {},
			want:   types.DecisionAdd,
		},
		{
			name: "reproducibility gate fails",
			mutate: func(r *types.ScoreResult) {
				r.DocumentationSubscores["B3"] = 0.4
			},
			want: types.DecisionReview,
		},
		{
			name: "execution-path gate fails",
			mutate: func(r *types.ScoreResult) {
				r.DocumentationSubscores["B2"] = 0.2
				r.BioSubscores["A4"] = 0.5
			},
			want: types.DecisionReview,
		},
		{
			name: "execution path via A4 alone",
			mutate: func(r *types.ScoreResult) {
				r.DocumentationSubscores["B2"] = 0.2
				r.BioSubscores["A4"] = 1.0
			},
			want: types.DecisionAdd,
		},
		{
			name: "bio in review band",
			mutate: func(r *types.ScoreResult) {
				r.BioScore = 0.55
			},
			want: types.DecisionReview,
		},
		{
			name: "doc in review band",
			mutate: func(r *types.ScoreResult) {
				r.DocScoreV2 = 0.5
			},
			want: types.DecisionReview,
		},
		{
			name: "both below review thresholds",
			mutate: func(r *types.ScoreResult) {
				r.BioScore = 0.3
				r.DocScoreV2 = 0.2
			},
			want: types.DecisionDoNotAdd,
		},
		{
			name: "no homepage overrides perfect scores",
			mutate: func(r *types.ScoreResult) {
				r.Homepage = "  "
			},
			want: types.DecisionDoNotAdd,
		},
		{
			name: "exactly at add thresholds",
			mutate: func(r *types.ScoreResult) {
				r.BioScore = 0.6
				r.DocScoreV2 = 0.6
			},
			want: types.DecisionAdd,
		},
		{
			name: "exactly at review thresholds",
			mutate: func(r *types.ScoreResult) {
				r.BioScore = 0.5
				r.DocScoreV2 = 0.5
			},
			want: types.DecisionReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scoredResult(0.9, 0.9)
			tt.mutate(r)

			got := Classify(r, defaultThresholds())
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}

			// Classification is pure: a second pass over the unmodified
			// result yields the same decision.
			if again := Classify(r, defaultThresholds()); again != got {
				t.Errorf("Classify is not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestHomepageUsable(t *testing.T) {
	tests := []struct {
		name     string
		homepage string
		status   int
		probeErr string
		want     bool
	}{
		{"reachable", "https://example.org", 200, "", true},
		{"not probed", "https://example.org", 0, "", true},
		{"empty homepage", "", 200, "", false},
		{"http error status", "https://example.org", 404, "", false},
		{"server error status", "https://example.org", 503, "", false},
		{"probe error recorded", "https://example.org", 0, "dial tcp: timeout", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HomepageUsable(tt.homepage, tt.status, tt.probeErr); got != tt.want {
				t.Errorf("HomepageUsable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyHomepagePenalty(t *testing.T) {
	r := scoredResult(0.9, 0.9)
	r.DocumentationScore = 0.9

	ApplyHomepagePenalty(r, false)

	if r.DocumentationScore != 0 || r.DocScoreV2 != 0 {
		t.Errorf("documentation scores not zeroed: %v, %v", r.DocumentationScore, r.DocScoreV2)
	}
	for _, key := range types.DocSubscoreKeys {
		if r.DocumentationSubscores[key] != 0 {
			t.Errorf("DocumentationSubscores[%s] = %v, want 0", key, r.DocumentationSubscores[key])
		}
	}
	// Bio signals are unrelated to homepage reachability.
	if r.BioScore != 0.9 {
		t.Errorf("BioScore = %v, want untouched 0.9", r.BioScore)
	}

	ok := scoredResult(0.9, 0.9)
	ApplyHomepagePenalty(ok, true)
	if ok.DocScoreV2 != 0.9 {
		t.Errorf("usable homepage must not be penalized, DocScoreV2 = %v", ok.DocScoreV2)
	}
}
