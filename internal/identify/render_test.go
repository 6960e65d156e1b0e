package identify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"JSON Object", `{"croptype":"mango"}`, FormatJSON},
		{"Plain Word", "mango", FormatText},
		{"Leading Whitespace", "\n  {\"croptype\": \"banana\"}", FormatJSON},
		{"Malformed JSON Still JSON", "{croptype: fruit", FormatJSON},
		{"JSON Array Is Text", `["mango"]`, FormatText},
		{"Fenced Code Is Text", "```json\n{\"croptype\":\"mango\"}\n```", FormatText},
		{"Empty", "", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.content))
		})
	}
}

func TestPretty(t *testing.T) {
	assert.Equal(t, "{\n  \"croptype\": \"mango\"\n}", Pretty(`{"croptype":"mango"}`))
	assert.Equal(t, "mango", Pretty("mango"))
	// Not valid JSON: shown verbatim
	assert.Equal(t, "{croptype: fruit}", Pretty("{croptype: fruit}"))
}
