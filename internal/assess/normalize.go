// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// Normalization turns the model's loosely-typed payload into the strict
// internal shape. Every function here is total: malformed input degrades to
// the documented default instead of aborting the candidate.

// clampUnit clamps v into [0, 1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// coerceUnit converts an arbitrary JSON value to a score in [0, 1].
// Numbers are clamped, numeric strings are parsed, everything else is 0.
func coerceUnit(v any) float64 {
	switch n := v.(type) {
	case float64:
		return clampUnit(n)
	case int:
		return clampUnit(float64(n))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return clampUnit(f)
	default:
		return 0
	}
}

// NormalizeSubscores coerces a subscore payload into the canonical
// five-key map. A list is read positionally in key order, a map is matched
// by case-tolerant key, and anything else yields all zeros.
func NormalizeSubscores(v any, keys []string) map[string]float64 {
	out := types.ZeroSubscores(keys)

	switch vv := v.(type) {
	case []any:
		for i, key := range keys {
			if i < len(vv) {
				out[key] = coerceUnit(vv[i])
			}
		}
	case map[string]any:
		for raw, val := range vv {
			if key, ok := matchSubscoreKey(raw, keys); ok {
				out[key] = coerceUnit(val)
			}
		}
	}
	return out
}

// matchSubscoreKey maps a model-supplied key like "b3" or "B3 (inputs)" to
// the canonical key.
func matchSubscoreKey(raw string, keys []string) (string, bool) {
	k := strings.ToUpper(strings.TrimSpace(raw))
	for _, key := range keys {
		if k == key || strings.HasPrefix(k, key+" ") || strings.HasPrefix(k, key+":") || strings.HasPrefix(k, key+"(") {
			return key, true
		}
	}
	return "", false
}

// NormalizePublicationIDs coerces a string or list into trimmed,
// first-seen-deduplicated identifiers. Empty entries are dropped.
func NormalizePublicationIDs(v any) []string {
	var raw []string
	switch vv := v.(type) {
	case string:
		raw = []string{vv}
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// publicationHosts are domains that only ever point at a publication, not
// at a tool homepage.
var publicationHosts = []string{
	"doi.org",
	"dx.doi.org",
	"pubmed.ncbi.nlm.nih.gov",
	"europepmc.org",
	"academic.oup.com",
	"link.springer.com",
	"onlinelibrary.wiley.com",
	"sciencedirect.com",
	"journals.plos.org",
	"biorxiv.org",
	"arxiv.org",
}

// IsProbablePublicationURL reports whether u points at a publication
// (DOI resolver, PubMed, journal site) rather than a tool homepage.
func IsProbablePublicationURL(u string) bool {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Host)
	for _, pub := range publicationHosts {
		if host == pub || strings.HasSuffix(host, "."+pub) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(parsed.Path), "/pubmed") && strings.HasSuffix(host, "ncbi.nlm.nih.gov") {
		return true
	}
	return false
}

// NormalizeHomepage resolves the homepage from the model payload: a string
// or list is accepted, publication-only URLs are filtered out, and when
// nothing valid remains the candidate's ingested homepage is used.
func NormalizeHomepage(v any, fallback string) string {
	var urls []string
	switch vv := v.(type) {
	case string:
		urls = []string{vv}
	case []any:
		for _, item := range vv {
			if s, ok := item.(string); ok {
				urls = append(urls, s)
			}
		}
	}

	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || IsProbablePublicationURL(u) {
			continue
		}
		return u
	}
	return strings.TrimSpace(fallback)
}

// asString returns v as a trimmed string, or "" for any other shape.
func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
