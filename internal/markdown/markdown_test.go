package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFences(t *testing.T) {
	src := "Here is the update:\n\n```js\nfunction foo() {\n  return 99;\n}\n```\n\nAnd a diff:\n\n```diff\n-a\n+b\n```\n\n```\nplain\n```\n"

	fences, err := Fences([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []Fence{
		{Lang: "js", Code: "function foo() {\n  return 99;\n}\n"},
		{Lang: "diff", Code: "-a\n+b\n"},
		{Lang: "", Code: "plain\n"},
	}, fences)
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single fence",
			in:   "Sure!\n\n```javascript\nfunction a() { 1 }\n```\n",
			want: "function a() { 1 }",
		},
		{
			name: "multiple fences joined, diff skipped",
			in:   "```\nfunction a() { 1 }\n```\n\n```diff\n-x\n```\n\n```js\nfunction b() { 2 }\n```\n",
			want: "function a() { 1 }\n\nfunction b() { 2 }",
		},
		{
			name: "no fences returns input",
			in:   "function a() { 1 }\n",
			want: "function a() { 1 }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
