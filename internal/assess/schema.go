// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"encoding/json"
	"fmt"
)

// ValidateScoreResponse checks a parsed model payload against the score
// response contract. It accumulates every violation in field order rather
// than stopping at the first, so a retry prompt can list all problems at
// once. The returned map is the decoded payload; it is non-nil whenever the
// raw message decodes to a JSON object.
func ValidateScoreResponse(raw json.RawMessage) (map[string]any, []string) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, []string{fmt.Sprintf("response is not a JSON object: %v", err)}
	}

	var errs []string

	// bio_score: required number in [0,1].
	if v, ok := payload["bio_score"]; !ok {
		errs = append(errs, "bio_score: required field is missing")
	} else if n, ok := asNumber(v); !ok {
		errs = append(errs, fmt.Sprintf("bio_score: expected a number, got %T", v))
	} else if n < 0 || n > 1 {
		errs = append(errs, fmt.Sprintf("bio_score: %v is outside [0, 1]", n))
	}

	// bio_subscores: optional map of numbers.
	if v, ok := payload["bio_subscores"]; ok && v != nil {
		if _, isMap := v.(map[string]any); !isMap {
			errs = append(errs, fmt.Sprintf("bio_subscores: expected an object, got %T", v))
		}
	}

	// documentation_subscores: required, list or map.
	if v, ok := payload["documentation_subscores"]; !ok || v == nil {
		errs = append(errs, "documentation_subscores: required field is missing")
	} else {
		switch v.(type) {
		case map[string]any, []any:
		default:
			errs = append(errs, fmt.Sprintf("documentation_subscores: expected an object or array, got %T", v))
		}
	}

	// documentation_score / confidence_score: optional numbers in [0,1].
	for _, field := range []string{"documentation_score", "confidence_score"} {
		v, ok := payload[field]
		if !ok || v == nil {
			continue
		}
		if n, ok := asNumber(v); !ok {
			errs = append(errs, fmt.Sprintf("%s: expected a number, got %T", field, v))
		} else if n < 0 || n > 1 {
			errs = append(errs, fmt.Sprintf("%s: %v is outside [0, 1]", field, n))
		}
	}

	// publication_ids: optional string or list of strings.
	if v, ok := payload["publication_ids"]; ok && v != nil {
		switch vv := v.(type) {
		case string:
		case []any:
			for i, item := range vv {
				if _, isStr := item.(string); !isStr {
					errs = append(errs, fmt.Sprintf("publication_ids[%d]: expected a string, got %T", i, item))
				}
			}
		default:
			errs = append(errs, fmt.Sprintf("publication_ids: expected a string or array, got %T", v))
		}
	}

	// homepage: optional string or list.
	if v, ok := payload["homepage"]; ok && v != nil {
		switch v.(type) {
		case string, []any:
		default:
			errs = append(errs, fmt.Sprintf("homepage: expected a string or array, got %T", v))
		}
	}

	// concise_description / rationale / tool_name: optional strings.
	for _, field := range []string{"tool_name", "concise_description", "rationale"} {
		v, ok := payload[field]
		if !ok || v == nil {
			continue
		}
		if _, isStr := v.(string); !isStr {
			errs = append(errs, fmt.Sprintf("%s: expected a string, got %T", field, v))
		}
	}

	return payload, errs
}

// asNumber reports whether v is a JSON number. encoding/json decodes all
// numbers to float64; bools are explicitly rejected.
func asNumber(v any) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}
