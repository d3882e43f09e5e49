// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data structures and configuration for the
// annotation pipeline stages.
package types

import "strings"

// Candidate is an enriched tool description assembled upstream (pub2tools
// export merged with publication metadata). The scoring stage reads it and
// attaches a ScoreResult; it never mutates the descriptive fields.
type Candidate struct {
	// ID identifies the candidate across pipeline stages (tool_id or
	// biotoolsID from ingestion).
	ID string `json:"id" yaml:"id"`

	// Title is the tool name as reported by the upstream export.
	Title string `json:"title" yaml:"title"`

	// Description is the available descriptive text.
	Description string `json:"description" yaml:"description"`

	// Homepage is the resolved homepage URL, when one is known.
	Homepage string `json:"homepage,omitempty" yaml:"homepage,omitempty"`

	// URLs lists additional links discovered during enrichment.
	URLs []string `json:"urls,omitempty" yaml:"urls,omitempty"`

	// Documentation lists documentation links.
	Documentation []string `json:"documentation,omitempty" yaml:"documentation,omitempty"`

	// Repository is a source repository link.
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty"`

	// Tags are free-form topic labels from the upstream export.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// PublicationIDs are publication identifiers (DOI, PMID, PMCID).
	PublicationIDs []string `json:"publication_ids,omitempty" yaml:"publication_ids,omitempty"`

	// PublicationAbstract is the abstract of the linked publication.
	PublicationAbstract string `json:"publication_abstract,omitempty" yaml:"publication_abstract,omitempty"`

	// HomepageStatus is the HTTP status recorded when the enrichment stage
	// probed the homepage (0 when the probe did not run).
	HomepageStatus int `json:"homepage_status,omitempty" yaml:"homepage_status,omitempty"`

	// HomepageError is the probe error, if the homepage was unreachable.
	HomepageError string `json:"homepage_error,omitempty" yaml:"homepage_error,omitempty"`
}

// Name returns the best available display name for the candidate.
func (c Candidate) Name() string {
	if s := strings.TrimSpace(c.Title); s != "" {
		return s
	}
	return c.ID
}
