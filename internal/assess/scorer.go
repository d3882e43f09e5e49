// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/biotools-annotate/internal/trace"
	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// ErrExhausted marks a candidate whose attempt budget ran out without a
// schema-valid response. The candidate cannot be scored; callers report
// this, they do not default it away.
var ErrExhausted = errors.New("retry budget exhausted")

// Scorer drives the retry loop for one candidate at a time: prompt, model
// call, parse, validate, and on failure a feedback-augmented retry. Each
// Scorer is safe for concurrent use; per-candidate state lives on the
// stack of ScoreCandidate.
type Scorer struct {
	Gateway     Gateway
	Trace       *trace.Writer
	MaxAttempts int
}

// attemptState is one cycle of the retry state machine.
type attemptState struct {
	index      int
	prompt     string
	promptKind string
}

// ScoreCandidate scores one candidate through the model. On success the
// returned result carries the normalized payload plus the ordered attempt
// history. On exhaustion (or a terminal gateway failure) the result is
// still returned, flagged and with full attempt history, alongside the
// error. Every attempt is appended to the trace before the state machine
// advances, including on the failure paths.
func (s *Scorer) ScoreCandidate(ctx context.Context, c types.Candidate) (*types.ScoreResult, error) {
	base, err := BuildPrompt(c)
	if err != nil {
		return nil, err
	}

	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var (
		history      []types.TraceAttempt
		errorHistory [][]string
		augmented    bool
		lastErrs     []string
	)

	state := attemptState{index: 1, prompt: base, promptKind: trace.PromptBase}

	for state.index <= maxAttempts {
		traceID := trace.NewTraceID()

		responseText, genErr := s.Gateway.Generate(ctx, state.prompt)

		var (
			status  string
			attErrs []string
			rawJSON json.RawMessage
			payload map[string]any
		)
		switch {
		case genErr != nil:
			status = trace.StatusParseError
			attErrs = []string{genErr.Error()}
		default:
			var ok bool
			rawJSON, ok = ExtractJSON(responseText)
			if !ok {
				status = trace.StatusParseError
				attErrs = []string{"no JSON object found in model response"}
			} else {
				payload, attErrs = ValidateScoreResponse(rawJSON)
				if len(attErrs) > 0 {
					status = trace.StatusSchemaErr
				} else {
					status = trace.StatusSuccess
				}
			}
		}

		if err := s.append(trace.Record{
			TraceID:      traceID,
			Attempt:      state.index,
			PromptKind:   state.promptKind,
			Prompt:       state.prompt,
			Options:      s.Gateway.Options(),
			ResponseText: responseText,
			ResponseJSON: rawJSON,
			Status:       status,
			SchemaErrors: attErrs,
		}); err != nil {
			return nil, fmt.Errorf("recording attempt %d for %s: %w", state.index, c.ID, err)
		}

		history = append(history, types.TraceAttempt{
			TraceID:      traceID,
			PromptKind:   state.promptKind,
			SchemaErrors: attErrs,
		})

		if status == trace.StatusSuccess {
			result := s.buildResult(c, payload)
			result.ModelParams = types.ModelParams{
				Attempts:        state.index,
				SchemaErrors:    errorHistory,
				PromptAugmented: augmented,
				TraceAttempts:   history,
			}
			return result, nil
		}

		errorHistory = append(errorHistory, attErrs)
		lastErrs = attErrs

		if genErr != nil && !IsTransient(genErr) {
			// The service reported an unrecoverable error; retrying is
			// pointless.
			return s.failedResult(c, state.index, errorHistory, augmented, history, lastErrs),
				fmt.Errorf("scoring %s: %w", c.ID, genErr)
		}

		// Transition. Validation feedback from actual model output feeds an
		// augmented prompt; a transport failure leaves the base prompt in
		// place since there is nothing for the model to correct.
		next := attemptState{index: state.index + 1}
		if genErr == nil {
			next.prompt = AugmentPrompt(base, attErrs)
			next.promptKind = trace.PromptAugmented
			augmented = true
		} else {
			next.prompt = base
			next.promptKind = trace.PromptBase
		}
		state = next
	}

	result := s.failedResult(c, maxAttempts, errorHistory, augmented, history, lastErrs)
	return result, fmt.Errorf("scoring %s after %d attempts: %w", c.ID, maxAttempts, ErrExhausted)
}

// buildResult normalizes a schema-valid payload into a ScoreResult.
func (s *Scorer) buildResult(c types.Candidate, payload map[string]any) *types.ScoreResult {
	toolName := asString(payload["tool_name"])
	if toolName == "" {
		toolName = c.Name()
	}

	pubIDs := NormalizePublicationIDs(payload["publication_ids"])
	if len(pubIDs) == 0 {
		pubIDs = c.PublicationIDs
	}

	description := asString(payload["concise_description"])
	if description == "" {
		description = truncate(strings.TrimSpace(c.Description), 280)
	}

	return &types.ScoreResult{
		ID:                     c.ID,
		ToolName:               toolName,
		Homepage:               NormalizeHomepage(payload["homepage"], c.Homepage),
		PublicationIDs:         pubIDs,
		BioScore:               coerceUnit(payload["bio_score"]),
		BioSubscores:           NormalizeSubscores(payload["bio_subscores"], types.BioSubscoreKeys),
		DocumentationScore:     coerceUnit(payload["documentation_score"]),
		DocumentationSubscores: NormalizeSubscores(payload["documentation_subscores"], types.DocSubscoreKeys),
		ConciseDescription:     truncate(description, 280),
		Rationale:              asString(payload["rationale"]),
		ConfidenceScore:        coerceUnit(payload["confidence_score"]),
		Model:                  s.Gateway.Options().Model,
	}
}

// failedResult builds the flagged terminal-failure result. Scores are zero
// and the attempt history is preserved so the failure can be audited.
func (s *Scorer) failedResult(c types.Candidate, attempts int, errorHistory [][]string, augmented bool, history []types.TraceAttempt, lastErrs []string) *types.ScoreResult {
	rationale := fmt.Sprintf("scoring failed after %d attempts", attempts)
	if len(lastErrs) > 0 {
		rationale += ": " + strings.Join(lastErrs, "; ")
	}
	return &types.ScoreResult{
		ID:                     c.ID,
		ToolName:               c.Name(),
		Homepage:               strings.TrimSpace(c.Homepage),
		PublicationIDs:         c.PublicationIDs,
		BioSubscores:           types.ZeroSubscores(types.BioSubscoreKeys),
		DocumentationSubscores: types.ZeroSubscores(types.DocSubscoreKeys),
		Rationale:              rationale,
		Model:                  s.Gateway.Options().Model,
		ScoringFailed:          true,
		ModelParams: types.ModelParams{
			Attempts:        attempts,
			SchemaErrors:    errorHistory,
			PromptAugmented: augmented,
			TraceAttempts:   history,
		},
	}
}

func (s *Scorer) append(rec trace.Record) error {
	if s.Trace == nil {
		return nil
	}
	return s.Trace.Append(rec)
}
