// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the per-run artifacts: the JSONL assessment
// report, a CSV summary, the add/review payload files, and the YAML run
// summary. Rows are emitted in candidate-ID order regardless of scoring
// arrival order.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biotools-annotate/internal/pipeline"
	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// row is one line of the JSONL report.
type row struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Homepage string             `json:"homepage"`
	Decision types.Decision     `json:"decision"`
	Scores   *types.ScoreResult `json:"scores"`
}

// WriteJSONL writes the assessment report, one JSON line per candidate.
func WriteJSONL(path string, results []pipeline.Result) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, res := range results {
		if err := enc.Encode(row{
			ID:       res.Candidate.ID,
			Title:    res.Candidate.Title,
			Homepage: res.Score.Homepage,
			Decision: res.Decision,
			Scores:   res.Score,
		}); err != nil {
			return fmt.Errorf("writing report row for %s: %w", res.Candidate.ID, err)
		}
	}
	return nil
}

// csvHeader is the column layout of the CSV summary.
var csvHeader = []string{
	"id", "tool_name", "decision", "bio_score", "doc_score_v2",
	"confidence_score", "attempts", "scoring_failed", "homepage",
}

// WriteCSV writes the spreadsheet-friendly summary of the run.
func WriteCSV(path string, results []pipeline.Result) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, res := range results {
		s := res.Score
		record := []string{
			res.Candidate.ID,
			s.ToolName,
			string(res.Decision),
			formatScore(s.BioScore),
			formatScore(s.DocScoreV2),
			formatScore(s.ConfidenceScore),
			strconv.Itoa(s.ModelParams.Attempts),
			strconv.FormatBool(s.ScoringFailed),
			s.Homepage,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", res.Candidate.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}

// payloadEntry is the registry-entry shape written to the add/review
// payload files.
type payloadEntry struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Homepage       string   `json:"homepage"`
	BiotoolsID     string   `json:"biotoolsID,omitempty"`
	PublicationIDs []string `json:"publication_ids,omitempty"`
}

// WritePayloads writes payload_add.json and payload_review.json into dir.
// Candidates classified do_not_add appear in neither file.
func WritePayloads(dir string, results []pipeline.Result) error {
	var add, review []payloadEntry
	for _, res := range results {
		var bucket *[]payloadEntry
		switch res.Decision {
		case types.DecisionAdd:
			bucket = &add
		case types.DecisionReview:
			bucket = &review
		default:
			continue
		}
		description := res.Score.ConciseDescription
		if description == "" {
			description = res.Candidate.Description
		}
		*bucket = append(*bucket, payloadEntry{
			Name:           res.Score.ToolName,
			Description:    description,
			Homepage:       res.Score.Homepage,
			BiotoolsID:     res.Candidate.ID,
			PublicationIDs: res.Score.PublicationIDs,
		})
	}

	if add == nil {
		add = []payloadEntry{}
	}
	if review == nil {
		review = []payloadEntry{}
	}
	if err := writeJSON(filepath.Join(dir, "payload_add.json"), add); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "payload_review.json"), review)
}

// WriteSummary writes the YAML run summary.
func WriteSummary(path string, summary pipeline.Summary) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadJSONL reads a previously written report back into results, for
// re-classification without rescoring.
func LoadJSONL(path string) ([]pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}

	var results []pipeline.Result
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var r row
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("parsing report %s: %w", path, err)
		}
		results = append(results, pipeline.Result{
			Candidate: types.Candidate{ID: r.ID, Title: r.Title, Homepage: r.Homepage},
			Score:     r.Scores,
			Decision:  r.Decision,
		})
	}
	return results, nil
}

func writeJSON(path string, v any) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
