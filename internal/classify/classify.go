// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify computes the weighted documentation score and the final
// add/review/do_not_add decision. Everything here is a pure function of a
// ScoreResult and the configured thresholds, so decisions can be recomputed
// from edited scores without re-invoking the model.
package classify

import (
	"strings"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// DefaultWeights are the composite documentation weights: the legacy
// 2:1:1:1:2 ratios over B1..B5, normalized to sum to 1.
var DefaultWeights = map[string]float64{
	"B1": 2.0 / 7.0,
	"B2": 1.0 / 7.0,
	"B3": 1.0 / 7.0,
	"B4": 1.0 / 7.0,
	"B5": 2.0 / 7.0,
}

// Gate constants. The execution-path gate accepts A4 within a tolerance of
// 1.0 because subscores arrive as floats.
const (
	executionPathB2 = 0.5
	executionPathA4 = 0.99
	reproducibleB3  = 0.5
)

// DocScoreV2 computes the weighted composite documentation score
// Σ(weight × subscore) over the five fixed keys. Missing weights fall back
// to the defaults; missing subscores count as 0.
func DocScoreV2(subscores, weights map[string]float64) float64 {
	var sum float64
	for _, key := range types.DocSubscoreKeys {
		w, ok := weights[key]
		if !ok {
			w = DefaultWeights[key]
		}
		sum += w * clampUnit(subscores[key])
	}
	return sum
}

// ApplyDocScore fills in DocScoreV2 on the result and promotes it to the
// aggregate DocumentationScore, preserving the model's original aggregate
// in DocumentationScoreRaw when they differ. The per-key breakdown stays
// untouched so consumers can recompute with different weights.
func ApplyDocScore(r *types.ScoreResult, weights map[string]float64) {
	v2 := DocScoreV2(r.DocumentationSubscores, weights)
	if r.DocumentationScore != v2 && r.DocumentationScoreRaw == 0 {
		r.DocumentationScoreRaw = r.DocumentationScore
	}
	r.DocScoreV2 = v2
	r.DocumentationScore = v2
}

// Thresholds are the resolved decision thresholds. Min* gate "add";
// Review* gate "review".
type Thresholds struct {
	MinBio    float64
	MinDoc    float64
	ReviewBio float64
	ReviewDoc float64
}

// ThresholdsFromConfig clamps the configured thresholds into [0,1] and
// forces each review threshold at or below its add threshold.
func ThresholdsFromConfig(cfg types.ClassifyConfig) Thresholds {
	t := Thresholds{
		MinBio:    clampUnit(cfg.MinBioScore),
		MinDoc:    clampUnit(cfg.MinDocumentationScore),
		ReviewBio: clampUnit(cfg.ReviewBioScore),
		ReviewDoc: clampUnit(cfg.ReviewDocumentationScore),
	}
	if t.ReviewBio > t.MinBio {
		t.ReviewBio = t.MinBio
	}
	if t.ReviewDoc > t.MinDoc {
		t.ReviewDoc = t.MinDoc
	}
	return t
}

// Classify derives the decision for a scored candidate:
//
//   - no usable homepage → do_not_add
//   - both add thresholds met and the execution-path gate (B2 ≥ 0.5 or
//     A4 ≈ 1.0) and the reproducibility gate (B3 ≥ 0.5) hold → add
//   - add thresholds met but a gate fails → review
//   - both review thresholds met → review
//   - otherwise → do_not_add
//
// Idempotent: classifying the same unmodified result twice yields the same
// decision.
func Classify(r *types.ScoreResult, t Thresholds) types.Decision {
	if strings.TrimSpace(r.Homepage) == "" {
		return types.DecisionDoNotAdd
	}

	bio := clampUnit(r.BioScore)
	doc := clampUnit(r.DocScoreV2)

	b2 := clampUnit(r.DocumentationSubscores["B2"])
	b3 := clampUnit(r.DocumentationSubscores["B3"])
	a4 := clampUnit(r.BioSubscores["A4"])

	hasExecutionPath := b2 >= executionPathB2 || a4 >= executionPathA4
	hasReproAnchor := b3 >= reproducibleB3

	if bio >= t.MinBio && doc >= t.MinDoc {
		if hasExecutionPath && hasReproAnchor {
			return types.DecisionAdd
		}
		return types.DecisionReview
	}

	if bio >= t.ReviewBio && doc >= t.ReviewDoc {
		return types.DecisionReview
	}

	return types.DecisionDoNotAdd
}

// HomepageUsable reports whether the ingested homepage probe left the
// homepage usable: present, no recorded error, and no HTTP status ≥ 400.
func HomepageUsable(homepage string, status int, probeErr string) bool {
	if strings.TrimSpace(homepage) == "" {
		return false
	}
	if status >= 400 {
		return false
	}
	return strings.TrimSpace(probeErr) == ""
}

// ApplyHomepagePenalty zeroes the documentation scores when the homepage
// probe failed: an unreachable homepage cannot document anything.
func ApplyHomepagePenalty(r *types.ScoreResult, usable bool) {
	if usable {
		return
	}
	r.DocumentationScore = 0
	r.DocScoreV2 = 0
	for _, key := range types.DocSubscoreKeys {
		if _, ok := r.DocumentationSubscores[key]; ok {
			r.DocumentationSubscores[key] = 0
		}
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
