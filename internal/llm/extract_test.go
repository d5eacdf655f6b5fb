package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare array",
			input: `[{"a": 1}]`,
			want:  `[{"a": 1}]`,
			ok:    true,
		},
		{
			name:  "array wrapped in prose",
			input: "Sure! Here is the result:\n[1, 2, 3]\nHope that helps.",
			want:  `[1, 2, 3]`,
			ok:    true,
		},
		{
			name:  "markdown fence",
			input: "```json\n[{\"date\": \"2024-08-15\"}]\n```",
			want:  `[{"date": "2024-08-15"}]`,
			ok:    true,
		},
		{
			name:  "bracket inside a string does not confuse matching",
			input: `[{"description": "array ] literal [ here"}]`,
			want:  `[{"description": "array ] literal [ here"}]`,
			ok:    true,
		},
		{
			name:  "escaped quote inside a string",
			input: `[{"description": "he said \"hi]\""}]`,
			want:  `[{"description": "he said \"hi]\""}]`,
			ok:    true,
		},
		{
			name:  "nested arrays",
			input: `prefix [[1, 2], [3]] suffix`,
			want:  `[[1, 2], [3]]`,
			ok:    true,
		},
		{
			name:  "skips a malformed array for a later valid one",
			input: `[not json] but then [1, 2]`,
			want:  `[1, 2]`,
			ok:    true,
		},
		{
			name:  "no array at all",
			input: "I could not find any transactions.",
			ok:    false,
		},
		{
			name:  "unterminated array",
			input: `[1, 2,`,
			ok:    false,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONArray(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, string(got))
			}
		})
	}
}
