// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first well-formed JSON object out of model output,
// tolerating leading and trailing prose. It takes the substring from the
// first '{' to the last '}' and accepts it only if it is valid JSON; there
// are no partial payloads.
func ExtractJSON(text string) (json.RawMessage, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
