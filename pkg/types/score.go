// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Decision is the classification outcome for a scored candidate. It is
// always recomputed from a ScoreResult and the configured thresholds, never
// stored as the source of truth, so edited scores can be re-classified
// without re-invoking the model.
type Decision string

const (
	DecisionAdd      Decision = "add"
	DecisionReview   Decision = "review"
	DecisionDoNotAdd Decision = "do_not_add"
)

// DocSubscoreKeys are the five documentation subscore keys, in the
// positional order used when the model returns a bare list.
var DocSubscoreKeys = []string{"B1", "B2", "B3", "B4", "B5"}

// BioSubscoreKeys are the five bio-relevance subscore keys.
var BioSubscoreKeys = []string{"A1", "A2", "A3", "A4", "A5"}

// TraceAttempt is the compact per-attempt summary embedded in ModelParams.
// TraceID joins the summary back to the full line in the trace file.
type TraceAttempt struct {
	TraceID      string   `json:"trace_id" yaml:"trace_id"`
	PromptKind   string   `json:"prompt_kind" yaml:"prompt_kind"`
	SchemaErrors []string `json:"schema_errors,omitempty" yaml:"schema_errors,omitempty"`
}

// ModelParams records how the model interaction for one candidate went:
// how many attempts ran, the validation errors of each failed attempt in
// order, and whether any prompt carried validation feedback.
type ModelParams struct {
	Attempts        int            `json:"attempts" yaml:"attempts"`
	SchemaErrors    [][]string     `json:"schema_errors,omitempty" yaml:"schema_errors,omitempty"`
	PromptAugmented bool           `json:"prompt_augmented" yaml:"prompt_augmented"`
	TraceAttempts   []TraceAttempt `json:"trace_attempts,omitempty" yaml:"trace_attempts,omitempty"`

	// Reason is set on rule-based results (for example "missing_homepage")
	// instead of attempt history.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ScoreResult is the scoring output for one candidate. Created once,
// immutable afterwards except for the classification stage filling in the
// weighted documentation score.
type ScoreResult struct {
	ID             string   `json:"id" yaml:"id"`
	ToolName       string   `json:"tool_name" yaml:"tool_name"`
	Homepage       string   `json:"homepage" yaml:"homepage"`
	PublicationIDs []string `json:"publication_ids" yaml:"publication_ids"`

	BioScore     float64            `json:"bio_score" yaml:"bio_score"`
	BioSubscores map[string]float64 `json:"bio_subscores" yaml:"bio_subscores"`

	// DocumentationScore is the aggregate documentation score. Once the
	// weighted composite has been applied it equals DocScoreV2 and the
	// model's original aggregate moves to DocumentationScoreRaw.
	DocumentationScore     float64            `json:"documentation_score" yaml:"documentation_score"`
	DocumentationScoreRaw  float64            `json:"documentation_score_raw,omitempty" yaml:"documentation_score_raw,omitempty"`
	DocScoreV2             float64            `json:"doc_score_v2" yaml:"doc_score_v2"`
	DocumentationSubscores map[string]float64 `json:"documentation_subscores" yaml:"documentation_subscores"`

	ConciseDescription string  `json:"concise_description" yaml:"concise_description"`
	Rationale          string  `json:"rationale" yaml:"rationale"`
	ConfidenceScore    float64 `json:"confidence_score" yaml:"confidence_score"`

	// Model names the scoring path: the LLM model identifier, "heuristic",
	// or a rule label such as "rule:no-homepage".
	Model       string      `json:"model" yaml:"model"`
	ModelParams ModelParams `json:"model_params" yaml:"model_params"`

	// ScoringFailed marks a candidate whose retry budget was exhausted
	// without a schema-valid response. The result carries zero scores and
	// the full attempt history; it is reported, not discarded.
	ScoringFailed bool `json:"scoring_failed,omitempty" yaml:"scoring_failed,omitempty"`
}

// ZeroSubscores returns a fresh subscore map with every key set to 0.
func ZeroSubscores(keys []string) map[string]float64 {
	m := make(map[string]float64, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}
