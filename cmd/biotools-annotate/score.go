// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biotools-annotate/internal/assess"
	"github.com/pdiddy/biotools-annotate/internal/classify"
	"github.com/pdiddy/biotools-annotate/internal/ingest"
	"github.com/pdiddy/biotools-annotate/internal/pipeline"
	"github.com/pdiddy/biotools-annotate/internal/report"
	"github.com/pdiddy/biotools-annotate/internal/store"
	"github.com/pdiddy/biotools-annotate/internal/trace"
	"github.com/pdiddy/biotools-annotate/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidates with the model and classify them",
	Long: `Score loads enriched candidates, scores each with the configured Ollama
model (or the heuristic scorer when offline or the service is down),
classifies every candidate, and writes the report, payload files, run
summary, and score store under the output directory.

Every model exchange is appended to the JSONL trace file, one line per
attempt, so any decision can be joined back to its full model history.`,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("no input: provide --input with an enriched candidates file")
	}

	cfg := loadPipelineConfig()
	applyScoreFlags(cmd, &cfg)

	if cfg.Scoring.Model == "" && !cfg.Scoring.Offline {
		return fmt.Errorf("no model configured: set ollama.model or pass --model (or run with --offline)")
	}

	candidates, err := ingest.LoadCandidates(input)
	if err != nil {
		return err
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	fmt.Fprintf(os.Stdout, "loaded %d candidates from %s\n", len(candidates), input)

	runner := &pipeline.Runner{
		MaxAttempts: cfg.Scoring.MaxRetries,
		Concurrency: cfg.Scoring.Concurrency,
		Offline:     cfg.Scoring.Offline,
		Weights:     cfg.Classify.DocumentationWeights,
		Thresholds:  classify.ThresholdsFromConfig(cfg.Classify),
	}

	if !cfg.Scoring.Offline {
		client := assess.NewOllamaClient(cfg.Scoring.OllamaConfig)
		runner.Gateway = client
		runner.Health = client

		tw, err := trace.NewWriter(cfg.Scoring.TracePath)
		if err != nil {
			return err
		}
		defer tw.Close()
		runner.Trace = tw
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, summary, err := runner.Run(ctx, candidates, os.Stdout)
	if err != nil {
		return err
	}

	outDir := cfg.Output.OutDir
	if err := report.WriteJSONL(filepath.Join(outDir, "report.jsonl"), results); err != nil {
		return err
	}
	if err := report.WriteCSV(filepath.Join(outDir, "report.csv"), results); err != nil {
		return err
	}
	if err := report.WritePayloads(outDir, results); err != nil {
		return err
	}
	if err := report.WriteSummary(filepath.Join(outDir, "summary.yaml"), summary); err != nil {
		return err
	}

	storePath := cfg.Output.StorePath
	if storePath == "" {
		storePath = filepath.Join(outDir, "scores.db")
	}
	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer db.Close()
	for _, res := range results {
		if err := db.Put(ctx, res.Score, res.Decision); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "report written to %s\n", outDir)
	return nil
}

// applyScoreFlags overlays explicitly set flags on the loaded config.
func applyScoreFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	if cmd.Flags().Changed("model") {
		cfg.Scoring.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("host") {
		cfg.Scoring.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("offline") {
		cfg.Scoring.Offline, _ = cmd.Flags().GetBool("offline")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Scoring.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.Scoring.MaxRetries, _ = cmd.Flags().GetInt("max-retries")
	}
	if cmd.Flags().Changed("min-bio") {
		cfg.Classify.MinBioScore, _ = cmd.Flags().GetFloat64("min-bio")
	}
	if cmd.Flags().Changed("min-doc") {
		cfg.Classify.MinDocumentationScore, _ = cmd.Flags().GetFloat64("min-doc")
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.OutDir, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("trace") {
		cfg.Scoring.TracePath, _ = cmd.Flags().GetString("trace")
	}
}

func init() {
	scoreCmd.Flags().String("input", "", "enriched candidates file (JSON array or JSONL)")
	scoreCmd.Flags().String("model", "", "Ollama model identifier")
	scoreCmd.Flags().String("host", "", "Ollama base URL")
	scoreCmd.Flags().Bool("offline", false, "skip the model and use heuristic scoring")
	scoreCmd.Flags().Int("limit", 0, "score at most N candidates (0 = all)")
	scoreCmd.Flags().Int("concurrency", 0, "candidates scored in parallel")
	scoreCmd.Flags().Int("max-retries", 0, "attempt budget per candidate")
	scoreCmd.Flags().Float64("min-bio", 0, "bio score threshold for add")
	scoreCmd.Flags().Float64("min-doc", 0, "documentation score threshold for add")
	scoreCmd.Flags().String("out", "", "output directory for run artifacts")
	scoreCmd.Flags().String("trace", "", "JSONL trace file path")

	rootCmd.AddCommand(scoreCmd)
}
