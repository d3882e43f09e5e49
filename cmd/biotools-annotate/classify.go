// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biotools-annotate/internal/classify"
	"github.com/pdiddy/biotools-annotate/internal/pipeline"
	"github.com/pdiddy/biotools-annotate/internal/report"
	"github.com/pdiddy/biotools-annotate/internal/store"
	"github.com/pdiddy/biotools-annotate/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Recompute decisions from existing scores without the model",
	Long: `Classify reloads previously computed scores (from the score store or a
report file), recomputes the weighted documentation score and the
add/review/do_not_add decision with the current thresholds, and prints
the outcome. Edited scores are picked up as-is; the model is never
invoked.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	applyScoreFlags(cmd, &cfg)
	thresholds := classify.ThresholdsFromConfig(cfg.Classify)

	ctx := context.Background()

	var results []pipeline.Result
	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		loaded, err := report.LoadJSONL(reportPath)
		if err != nil {
			return err
		}
		results = loaded
	} else {
		storePath, _ := cmd.Flags().GetString("store")
		if storePath == "" {
			return fmt.Errorf("no input: provide --store or --report")
		}
		db, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer db.Close()

		scores, err := db.List(ctx)
		if err != nil {
			return err
		}
		for _, s := range scores {
			results = append(results, pipeline.Result{
				Candidate: types.Candidate{ID: s.ID, Title: s.ToolName},
				Score:     s,
			})
		}
	}

	var add, review, doNotAdd int
	for i := range results {
		classify.ApplyDocScore(results[i].Score, cfg.Classify.DocumentationWeights)
		results[i].Decision = classify.Classify(results[i].Score, thresholds)
		switch results[i].Decision {
		case types.DecisionAdd:
			add++
		case types.DecisionReview:
			review++
		default:
			doNotAdd++
		}
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-8s  %-8s\n", "ID", "Decision", "Bio", "Doc")
	for _, res := range results {
		fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-8.3f  %-8.3f\n",
			res.Candidate.ID, res.Decision, res.Score.BioScore, res.Score.DocScoreV2)
	}
	fmt.Fprintf(os.Stdout, "\n%d candidates: %d add, %d review, %d do-not-add\n",
		len(results), add, review, doNotAdd)

	if out, _ := cmd.Flags().GetString("write-report"); out != "" {
		if err := report.WriteJSONL(out, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "updated report written to %s\n", out)
	}
	return nil
}

func init() {
	classifyCmd.Flags().String("store", "", "score store to reload (SQLite)")
	classifyCmd.Flags().String("report", "", "report file to reload (JSONL)")
	classifyCmd.Flags().String("write-report", "", "write the re-classified report to this path")
	classifyCmd.Flags().Float64("min-bio", 0, "bio score threshold for add")
	classifyCmd.Flags().Float64("min-doc", 0, "documentation score threshold for add")

	rootCmd.AddCommand(classifyCmd)
}
