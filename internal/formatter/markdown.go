// Package formatter renders policies and stats as markdown.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// AlignTables pads every markdown table in content so its columns line up
// by display width.
func AlignTables(content string) string {
	lines := strings.Split(content, "\n")

	var formattedLines []string

	var tableBuffer []string

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableBuffer = append(tableBuffer, line)

			continue
		}

		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		formattedLines = append(formattedLines, line)
	}

	if len(tableBuffer) > 0 {
		formattedLines = append(formattedLines, processTable(tableBuffer)...)
	}

	return strings.Join(formattedLines, "\n")
}

// Table renders headers and rows as an aligned markdown table.
func Table(headers []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinRow(headers))

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}

	lines = append(lines, joinRow(sep))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = EscapeCell(c)
		}

		lines = append(lines, joinRow(cells))
	}

	return strings.Join(processTable(lines), "\n")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

// EscapeCell makes s safe to place inside a table cell.
func EscapeCell(s string) string {
	return cellReplacer.Replace(strings.TrimSpace(s))
}

func joinRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// splitRow splits a table row on unescaped pipes.
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")

	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = row[:len(row)-1]
	}

	var cells []string

	var cur strings.Builder

	escaped := false

	for _, r := range row {
		switch {
		case escaped:
			cur.WriteRune(r)

			escaped = false
		case r == '\\':
			cur.WriteRune(r)

			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}

	return append(cells, strings.TrimSpace(cur.String()))
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		trim := strings.NewReplacer("-", "", ":", "", " ", "").Replace(cell)
		if trim != "" || cell == "" {
			return false
		}
	}

	return len(cells) > 0
}

func processTable(rows []string) []string {
	// A table needs a header and a separator.
	if len(rows) < 2 {
		return rows
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, splitRow(row))
	}

	colCount := 0
	for _, row := range table {
		colCount = max(colCount, len(row))
	}

	separatorRowIdx := -1
	if isSeparatorRow(table[1]) {
		separatorRowIdx = 1
	}

	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	result := make([]string, 0, len(table))

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for j := range colCount {
			sb.WriteString(" ")

			if i == separatorRowIdx {
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			} else {
				content := ""
				if j < len(row) {
					content = row[j]
				}

				sb.WriteString(runewidth.FillRight(content, colWidths[j]))
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}
