// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest loads enriched candidate records produced by the upstream
// enrichment stage. Both a JSON array and JSONL (one object per line) are
// accepted.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// maxLineBytes bounds a single JSONL record (enriched candidates can carry
// full-text abstracts).
const maxLineBytes = 4 << 20

// rawCandidate tolerates the field aliases seen across upstream exports.
type rawCandidate struct {
	ID         string `json:"id"`
	ToolID     string `json:"tool_id"`
	BiotoolsID string `json:"biotoolsID"`
	Title      string `json:"title"`
	Name       string `json:"name"`

	Description         string   `json:"description"`
	Homepage            string   `json:"homepage"`
	URLs                []string `json:"urls"`
	Documentation       []string `json:"documentation"`
	Repository          string   `json:"repository"`
	Tags                []string `json:"tags"`
	PublicationIDs      []string `json:"publication_ids"`
	PublicationAbstract string   `json:"publication_abstract"`
	HomepageStatus      int      `json:"homepage_status"`
	HomepageError       string   `json:"homepage_error"`

	Publications []rawPublication `json:"publications"`
}

// rawPublication carries the identifiers attached to a linked publication.
type rawPublication struct {
	DOI   string `json:"doi"`
	PMID  string `json:"pmid"`
	PMCID string `json:"pmcid"`
}

// LoadCandidates reads candidates from path. A file starting with '[' is
// decoded as a JSON array; anything else is treated as JSONL. Records
// without an identifier are rejected.
func LoadCandidates(path string) ([]types.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var raws []rawCandidate
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("parsing candidate array %s: %w", path, err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var raw rawCandidate
			if err := json.Unmarshal([]byte(line), &raw); err != nil {
				return nil, fmt.Errorf("parsing candidate at %s:%d: %w", path, lineNo, err)
			}
			raws = append(raws, raw)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scanning candidates %s: %w", path, err)
		}
	}

	candidates := make([]types.Candidate, 0, len(raws))
	for i, raw := range raws {
		c, err := raw.toCandidate()
		if err != nil {
			return nil, fmt.Errorf("candidate %d in %s: %w", i, path, err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r rawCandidate) toCandidate() (types.Candidate, error) {
	id := firstNonEmpty(r.ID, r.ToolID, r.BiotoolsID)
	if id == "" {
		return types.Candidate{}, fmt.Errorf("missing identifier (id, tool_id, or biotoolsID)")
	}

	c := types.Candidate{
		ID:                  id,
		Title:               firstNonEmpty(r.Title, r.Name),
		Description:         r.Description,
		Homepage:            strings.TrimSpace(r.Homepage),
		URLs:                r.URLs,
		Documentation:       r.Documentation,
		Repository:          r.Repository,
		Tags:                r.Tags,
		PublicationIDs:      r.PublicationIDs,
		PublicationAbstract: r.PublicationAbstract,
		HomepageStatus:      r.HomepageStatus,
		HomepageError:       r.HomepageError,
	}

	if len(c.PublicationIDs) == 0 {
		c.PublicationIDs = publicationIdentifiers(r.Publications)
	}
	return c, nil
}

// publicationIdentifiers flattens publication records into the identifier
// list used for scoring, deduplicated in first-seen order.
func publicationIdentifiers(pubs []rawPublication) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		ids = append(ids, s)
	}
	for _, p := range pubs {
		add(p.DOI)
		add(p.PMID)
		add(p.PMCID)
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
