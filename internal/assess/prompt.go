// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// scoringPromptTmpl is the assessment prompt sent to the model for each
// candidate. Only fields actually present on the candidate are rendered;
// absent fields are omitted rather than emitted as empty placeholders, so
// the base prompt is deterministic for a given candidate.
var scoringPromptTmpl = template.Must(template.New("scoring").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`You are assessing a software tool for inclusion in a registry of bioinformatics tools.

Score the tool on two axes, each subscore a number between 0.0 and 1.0:

Bio-relevance subscores (A-series):
- A1: the tool addresses a life-science research problem
- A2: it operates on biological data types (sequences, structures, omics)
- A3: it is aimed at researchers rather than a general audience
- A4: a working execution path exists (install instructions, web service, container)
- A5: it is referenced by the life-science literature

Documentation subscores (B-series):
- B1: a homepage or landing page describes the tool
- B2: usage instructions or examples are available
- B3: inputs, outputs, and parameters are specified well enough to reproduce a run
- B4: installation or deployment is documented
- B5: the documentation is current and maintained

Respond with a single JSON object and no other text:
{"tool_name": "...", "homepage": "...", "publication_ids": ["..."], "bio_score": 0.0, "bio_subscores": {"A1": 0.0, "A2": 0.0, "A3": 0.0, "A4": 0.0, "A5": 0.0}, "documentation_score": 0.0, "documentation_subscores": {"B1": 0.0, "B2": 0.0, "B3": 0.0, "B4": 0.0, "B5": 0.0}, "concise_description": "...", "rationale": "...", "confidence_score": 0.0}

bio_score and documentation_score are your overall judgement on each axis, also in [0.0, 1.0]. concise_description is a neutral one-sentence description (max 280 characters). confidence_score reflects how much evidence you had.

Tool record:
{{- if .Title}}
Name: {{.Title}}
{{- end}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
{{- if .Homepage}}
Homepage: {{.Homepage}}
{{- end}}
{{- if .URLs}}
Links: {{join .URLs ", "}}
{{- end}}
{{- if .Documentation}}
Documentation: {{join .Documentation ", "}}
{{- end}}
{{- if .Repository}}
Repository: {{.Repository}}
{{- end}}
{{- if .Tags}}
Tags: {{join .Tags ", "}}
{{- end}}
{{- if .PublicationIDs}}
Publication IDs: {{join .PublicationIDs ", "}}
{{- end}}
{{- if .PublicationAbstract}}
Publication abstract: {{.PublicationAbstract}}
{{- end}}
`))

// BuildPrompt renders the base scoring prompt for a candidate.
func BuildPrompt(c types.Candidate) (string, error) {
	var buf bytes.Buffer
	if err := scoringPromptTmpl.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("rendering scoring prompt: %w", err)
	}
	return buf.String(), nil
}

// AugmentPrompt appends the previous attempt's validation errors to the
// base prompt so the model can correct its output. The rendered error list
// is deterministic for a fixed error slice.
func AugmentPrompt(base string, errs []string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\nYour previous response failed validation:\n")
	for i, e := range errs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	b.WriteString("Return a corrected JSON object that fixes every problem listed above. Respond with the JSON object only.\n")
	return b.String()
}
