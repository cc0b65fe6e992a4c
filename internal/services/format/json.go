package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JSON renders v as two-space indented JSON. HTML escaping is disabled
// so exported content keeps characters like < and & readable.
func JSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("Error formatting JSON: %s", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// CompactJSON renders v as single-line JSON with the same escaping
// rules as JSON.
func CompactJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("Error formatting JSON: %s", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}
