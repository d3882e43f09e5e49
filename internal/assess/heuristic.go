// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"strings"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// bioTags are upstream topic labels that mark a candidate as bio-related.
var bioTags = map[string]bool{
	"genomics":       true,
	"bioinformatics": true,
	"proteomics":     true,
	"metabolomics":   true,
}

// PrimaryHomepage returns the first candidate URL that is not a
// publication link, or "" when none qualifies.
func PrimaryHomepage(urls []string) string {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || IsProbablePublicationURL(u) {
			continue
		}
		return u
	}
	return ""
}

// HeuristicScore is the dependency-free scoring path used when the run is
// offline or the model service is unhealthy. It looks only at fields
// already present on the candidate: keyword presence in title and tags, and
// whether a non-publication homepage exists.
//
//   - bio score: 0.8 if the title or tags look bio-related, else 0.4
//   - documentation score: 0.8 if a homepage URL exists, else 0.1
//
// The result has the same shape as a model-scored result, with zeroed
// model params, so downstream consumers need no branching.
func HeuristicScore(c types.Candidate) *types.ScoreResult {
	title := strings.ToLower(c.Title)
	bioKeyword := strings.Contains(title, "gene") ||
		strings.Contains(title, "genom") ||
		strings.Contains(title, "bio")
	if !bioKeyword {
		for _, t := range c.Tags {
			if bioTags[strings.ToLower(t)] {
				bioKeyword = true
				break
			}
		}
	}

	homepage := strings.TrimSpace(c.Homepage)
	if homepage == "" || IsProbablePublicationURL(homepage) {
		homepage = PrimaryHomepage(c.URLs)
	}
	hasHomepage := homepage != ""

	bio := 0.4
	if bioKeyword {
		bio = 0.8
	}
	docs := 0.1
	if hasHomepage {
		docs = 0.8
	}
	confidence := 0.3
	if docs >= 0.5 {
		confidence = 0.6
	}

	bioSub := types.ZeroSubscores(types.BioSubscoreKeys)
	if bioKeyword {
		bioSub["A1"] = 1.0
		bioSub["A2"] = 0.5
		bioSub["A3"] = 0.5
		bioSub["A5"] = 0.5
		if hasHomepage {
			bioSub["A4"] = 1.0
		}
	}

	docSub := types.ZeroSubscores(types.DocSubscoreKeys)
	if hasHomepage {
		docSub["B1"] = 1.0
		docSub["B2"] = 1.0
		docSub["B3"] = 0.5
		docSub["B4"] = 0.5
		docSub["B5"] = 0.5
	}

	return &types.ScoreResult{
		ID:                     c.ID,
		ToolName:               c.Name(),
		Homepage:               homepage,
		PublicationIDs:         c.PublicationIDs,
		BioScore:               clampUnit(bio),
		BioSubscores:           bioSub,
		DocumentationScore:     clampUnit(docs),
		DocumentationSubscores: docSub,
		ConciseDescription:     truncate(strings.TrimSpace(c.Description), 280),
		Rationale:              "heuristic scoring (no model available)",
		ConfidenceScore:        confidence,
		Model:                  "heuristic",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
