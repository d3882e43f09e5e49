// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"strings"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// Zero-score reasons for candidates that cannot be scored by the model.
const (
	ReasonPublicationURL  = "publication_url"
	ReasonMissingHomepage = "missing_homepage"
)

// ResolveScoringHomepage picks the homepage used for scoring. The ingested
// homepage wins unless it is a publication-only URL, in which case the
// first usable alternate link is taken. When nothing usable remains, the
// empty homepage and a reason code are returned and the candidate is
// scored by rule instead of by the model.
func ResolveScoringHomepage(c types.Candidate) (homepage, reason string) {
	raw := strings.TrimSpace(c.Homepage)
	if raw != "" && !IsProbablePublicationURL(raw) {
		return raw, ""
	}

	if alt := PrimaryHomepage(c.URLs); alt != "" {
		return alt, ""
	}

	if raw != "" {
		return "", ReasonPublicationURL
	}
	for _, u := range c.URLs {
		if IsProbablePublicationURL(u) {
			return "", ReasonPublicationURL
		}
	}
	return "", ReasonMissingHomepage
}

// zeroScoreRationales maps a reason code to the human-readable rationale
// recorded on the result.
var zeroScoreRationales = map[string]string{
	ReasonPublicationURL:  "Homepage unavailable for scoring (only publication links).",
	ReasonMissingHomepage: "Homepage unavailable for scoring (no homepage provided).",
}

// ZeroScoreResult builds the rule-based result for a candidate without a
// usable homepage. All subscores are zero and the model is never invoked.
func ZeroScoreResult(c types.Candidate, homepage, reason string) *types.ScoreResult {
	rationale, ok := zeroScoreRationales[reason]
	if !ok {
		rationale = "Homepage unavailable for scoring."
	}
	return &types.ScoreResult{
		ID:                     c.ID,
		ToolName:               c.Name(),
		Homepage:               homepage,
		PublicationIDs:         c.PublicationIDs,
		BioSubscores:           types.ZeroSubscores(types.BioSubscoreKeys),
		DocumentationSubscores: types.ZeroSubscores(types.DocSubscoreKeys),
		ConciseDescription:     truncate(strings.TrimSpace(c.Description), 280),
		Rationale:              rationale,
		ConfidenceScore:        0.1,
		Model:                  "rule:no-homepage",
		ModelParams:            types.ModelParams{Reason: reason},
	}
}
