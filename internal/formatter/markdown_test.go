package formatter

import (
	"strings"
	"testing"
)

func TestAlignTables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "Basic table formatting",
			input: `
| Header 1 | Header 2 |
| --- | --- |
| val 1 | val 2 |
`,
			expected: `
| Header 1 | Header 2 |
| -------- | -------- |
| val 1    | val 2    |
`,
		},
		{
			name: "Fix excessive dashes",
			input: `
| Col A | Col B |
| ---------------------- | ---------------------------------- |
| A | B |
`,
			expected: `
| Col A | Col B |
| ----- | ----- |
| A     | B     |
`,
		},
		{
			name: "Mixed content",
			input: `
# Title

| H1 | H2 |
| -- | -- |
| v1 | v2 |

Text after table.
`,
			expected: `
# Title

| H1  | H2  |
| --- | --- |
| v1  | v2  |

Text after table.
`,
		},
		{
			name: "Wide runes",
			input: `
| Setting | Value |
| --- | --- |
| 相机 | 禁用 |
| Allow Camera | Disabled |
`,
			expected: `
| Setting      | Value    |
| ------------ | -------- |
| 相机         | 禁用     |
| Allow Camera | Disabled |
`,
		},
		{
			name: "Escaped pipe stays in cell",
			input: `
| Key | Value |
| --- | --- |
| Filter | a \| b |
`,
			expected: `
| Key    | Value  |
| ------ | ------ |
| Filter | a \| b |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignTables(strings.TrimSpace(tt.input))

			if strings.TrimSpace(got) != strings.TrimSpace(tt.expected) {
				t.Errorf("AlignTables() = \n%v\nwant \n%v", got, tt.expected)
			}
		})
	}
}

func TestTable(t *testing.T) {
	got := Table([]string{"Name", "Value"}, [][]string{
		{"Multi\nline", "x|y"},
		{"Short"},
	})

	want := strings.Join([]string{
		"| Name          | Value |",
		"| ------------- | ----- |",
		`| Multi<br>line | x\|y  |`,
		"| Short         |       |",
	}, "\n")

	if got != want {
		t.Errorf("Table() = \n%v\nwant \n%v", got, want)
	}
}
