package identify

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Format tells the front-end how to display a model answer
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// DetectFormat classifies content as JSON when it starts with '{'.
// The content itself is never parsed.
func DetectFormat(content string) Format {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return FormatJSON
	}
	return FormatText
}

// Pretty indents JSON content for terminal output. Anything that is not
// well-formed JSON is returned unchanged.
func Pretty(content string) string {
	if DetectFormat(content) != FormatJSON {
		return content
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(content)), "", "  "); err != nil {
		return content
	}
	return buf.String()
}
