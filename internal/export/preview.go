// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/biofetch/pkg/types"
)

// PreviewRows is the default number of rows Preview shows.
const PreviewRows = 5

const maxCellWidth = 30

// Preview writes the first n rows of t as a fixed-width table followed by
// the total record count. Null cells are blank.
func Preview(w io.Writer, t *types.Table, n int) {
	cols := t.Columns()
	head := t.Head(n)

	widths := make([]int, len(cols))
	for j, c := range cols {
		widths[j] = utf8.RuneCountInString(truncate(c, maxCellWidth))
	}
	cells := make([][]string, head.Len())
	for i := range cells {
		row := head.Row(i)
		cells[i] = make([]string, len(row))
		for j, v := range row {
			s := truncate(v.Text(), maxCellWidth)
			cells[i][j] = s
			widths[j] = max(widths[j], utf8.RuneCountInString(s))
		}
	}

	writeLine(w, widths, func(j int) string { return truncate(cols[j], maxCellWidth) })
	total := 0
	for _, wd := range widths {
		total += wd + 2
	}
	fmt.Fprintln(w, strings.Repeat("-", max(total-2, 0)))
	for i := range cells {
		writeLine(w, widths, func(j int) string { return cells[i][j] })
	}

	fmt.Fprintf(w, "\nTotal records: %d\n", t.Len())
}

func writeLine(w io.Writer, widths []int, cell func(int) string) {
	var b strings.Builder
	for j, wd := range widths {
		if j > 0 {
			b.WriteString("  ")
		}
		s := cell(j)
		b.WriteString(s)
		if j < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", wd-utf8.RuneCountInString(s)))
		}
	}
	fmt.Fprintln(w, b.String())
}

func truncate(s string, maxRunes int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxRunes-3]) + "..."
}
