// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OllamaConfig holds the connection settings for the local Ollama service.
type OllamaConfig struct {
	// Host is the Ollama base URL (default "http://localhost:11434").
	Host string `json:"host" yaml:"host"`

	// Model is the model identifier passed to /api/generate.
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature (default 0.01).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus-sampling parameter (default 1.0).
	TopP float64 `json:"top_p" yaml:"top_p"`

	// Seed pins the sampling seed when non-zero.
	Seed int `json:"seed,omitempty" yaml:"seed,omitempty"`

	// NumCtx overrides the model context window when non-zero.
	NumCtx int `json:"num_ctx,omitempty" yaml:"num_ctx,omitempty"`

	// ForceJSONFormat requests format=json from Ollama (default true).
	ForceJSONFormat bool `json:"force_json_format" yaml:"force_json_format"`

	// TimeoutSeconds bounds each generate call (default 300).
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-call timeout as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ScoringConfig holds settings for the scoring stage.
type ScoringConfig struct {
	OllamaConfig `yaml:",inline"`

	// MaxRetries is the attempt budget per candidate (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Concurrency is the number of candidates scored in parallel (default 8).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// Offline skips the model entirely and uses heuristic scoring.
	Offline bool `json:"offline" yaml:"offline"`

	// TracePath is the append-only JSONL trace file for model exchanges
	// (default "out/ollama/trace.jsonl").
	TracePath string `json:"trace_path" yaml:"trace_path"`
}

// ClassifyConfig holds the classification thresholds and documentation
// weights. MinBioScore/MinDocumentationScore gate "add"; the review
// thresholds gate "review" and are clamped to the add thresholds.
type ClassifyConfig struct {
	MinBioScore              float64 `json:"min_bio_score" yaml:"min_bio_score"`
	MinDocumentationScore    float64 `json:"min_documentation_score" yaml:"min_documentation_score"`
	ReviewBioScore           float64 `json:"review_bio_score" yaml:"review_bio_score"`
	ReviewDocumentationScore float64 `json:"review_documentation_score" yaml:"review_documentation_score"`

	// DocumentationWeights maps B1..B5 to composite weights. Missing keys
	// fall back to the defaults; by convention the weights sum to 1.0 but
	// this is not enforced.
	DocumentationWeights map[string]float64 `json:"documentation_weights,omitempty" yaml:"documentation_weights,omitempty"`
}

// OutputConfig holds the output locations for a run.
type OutputConfig struct {
	// OutDir is the base directory for run artifacts (default "out").
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// StorePath is the SQLite score store (default "<out_dir>/scores.db").
	StorePath string `json:"store_path,omitempty" yaml:"store_path,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scoring  ScoringConfig  `json:"scoring" yaml:"scoring"`
	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// DefaultPipelineConfig returns the configuration used when no file or
// flags override it. Thresholds follow the legacy defaults: review at 0.5,
// add at 0.6, for both score axes.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Scoring: ScoringConfig{
			OllamaConfig: OllamaConfig{
				Host:            "http://localhost:11434",
				Temperature:     0.01,
				TopP:            1.0,
				ForceJSONFormat: true,
				TimeoutSeconds:  300,
			},
			MaxRetries:  3,
			Concurrency: 8,
			TracePath:   "out/ollama/trace.jsonl",
		},
		Classify: ClassifyConfig{
			MinBioScore:              0.6,
			MinDocumentationScore:    0.6,
			ReviewBioScore:           0.5,
			ReviewDocumentationScore: 0.5,
		},
		Output: OutputConfig{
			OutDir: "out",
		},
	}
}
