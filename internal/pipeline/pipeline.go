// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates a scoring run: health check, worker pool,
// per-candidate scoring, classification, and the run summary.
// See docs/ARCHITECTURE § Pipeline Interface.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/biotools-annotate/internal/assess"
	"github.com/pdiddy/biotools-annotate/internal/classify"
	"github.com/pdiddy/biotools-annotate/internal/trace"
	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// HealthChecker verifies the model service is reachable. Checked once per
// run, not per candidate.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Result pairs a candidate with its score and the derived decision.
type Result struct {
	Candidate types.Candidate   `json:"-"`
	Score     *types.ScoreResult `json:"scores"`
	Decision  types.Decision     `json:"decision"`
}

// Summary holds run-level counts reported at the end of a scoring run.
type Summary struct {
	Scored         int           `json:"scored" yaml:"scored"`
	Add            int           `json:"add" yaml:"add"`
	Review         int           `json:"review" yaml:"review"`
	DoNotAdd       int           `json:"do_not_add" yaml:"do_not_add"`
	ScoringFailed  int           `json:"scoring_failed" yaml:"scoring_failed"`
	HealthFallback bool          `json:"health_fallback" yaml:"health_fallback"`
	Offline        bool          `json:"offline" yaml:"offline"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// Runner wires the scoring collaborators for one run. Gateway and Health
// may be nil for offline runs.
type Runner struct {
	Gateway     assess.Gateway
	Health      HealthChecker
	Trace       *trace.Writer
	MaxAttempts int
	Concurrency int
	Offline     bool
	Weights     map[string]float64
	Thresholds  classify.Thresholds
}

// Run scores every candidate and returns the results sorted by candidate
// ID. Candidates are scored in parallel, each worker owning one
// candidate's full retry loop; per-candidate failures are flagged on their
// results and never abort the run. Cancelling ctx abandons in-flight model
// calls; already-written trace lines stay valid.
func (r *Runner) Run(ctx context.Context, candidates []types.Candidate, w io.Writer) ([]Result, Summary, error) {
	start := time.Now()
	summary := Summary{Offline: r.Offline}

	useLLM := !r.Offline && r.Gateway != nil
	if useLLM && r.Health != nil {
		if err := r.Health.Ping(ctx); err != nil {
			fmt.Fprintf(w, "warning: model health check failed (%v); using heuristic scoring for this run\n", err)
			summary.HealthFallback = true
			useLLM = false
		}
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	results := make([]Result, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.scoreOne(gctx, c, useLLM, w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, summary, err
	}

	// Arrival order is scheduling noise; downstream consumers join on
	// candidate identity.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Candidate.ID < results[j].Candidate.ID
	})

	for _, res := range results {
		summary.Scored++
		if res.Score.ScoringFailed {
			summary.ScoringFailed++
		}
		switch res.Decision {
		case types.DecisionAdd:
			summary.Add++
		case types.DecisionReview:
			summary.Review++
		default:
			summary.DoNotAdd++
		}
	}
	summary.Duration = time.Since(start)

	fmt.Fprintf(w, "scored %d candidates: %d add, %d review, %d do-not-add (%d failed) in %s\n",
		summary.Scored, summary.Add, summary.Review, summary.DoNotAdd, summary.ScoringFailed,
		summary.Duration.Round(time.Millisecond))

	return results, summary, nil
}

// scoreOne runs one candidate end-to-end: homepage policy, model or
// heuristic scoring, documentation weighting, homepage penalty, and the
// classification gate.
func (r *Runner) scoreOne(ctx context.Context, c types.Candidate, useLLM bool, w io.Writer) Result {
	var score *types.ScoreResult

	switch {
	case !useLLM:
		score = assess.HeuristicScore(c)
	default:
		homepage, reason := assess.ResolveScoringHomepage(c)
		if reason != "" {
			score = assess.ZeroScoreResult(c, homepage, reason)
			break
		}
		c.Homepage = homepage

		scorer := &assess.Scorer{Gateway: r.Gateway, Trace: r.Trace, MaxAttempts: r.MaxAttempts}
		scored, err := scorer.ScoreCandidate(ctx, c)
		if err != nil {
			fmt.Fprintf(w, "warning: scoring failed for %q: %v\n", c.Name(), err)
		}
		if scored == nil {
			// Prompt rendering failed; score by rule so the candidate is
			// still reported.
			scored = assess.ZeroScoreResult(c, homepage, "")
			scored.ScoringFailed = true
		}
		score = scored
	}

	usable := classify.HomepageUsable(score.Homepage, c.HomepageStatus, c.HomepageError)
	classify.ApplyHomepagePenalty(score, usable)
	classify.ApplyDocScore(score, r.Weights)

	return Result{
		Candidate: c,
		Score:     score,
		Decision:  classify.Classify(score, r.Thresholds),
	}
}
