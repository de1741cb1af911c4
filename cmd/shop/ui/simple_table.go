package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable is a simple table component for rendering static data.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string

	// right holds the columns rendered right-aligned (amounts, quantities).
	right map[int]bool
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
		right:   make(map[int]bool),
	}
}

// AlignRight marks columns as right-aligned.
func (t *SimpleTable) AlignRight(cols ...int) *SimpleTable {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// SetFooter sets a totals row rendered under a divider.
func (t *SimpleTable) SetFooter(row ...string) {
	t.Footer = row
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for _, row := range t.Rows {
		measure(row)
	}
	measure(t.Footer)

	// lipgloss Width includes padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	divider := sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n"

	renderRow := func(row []string, style lipgloss.Style) {
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			cellStyle := style.Width(colWidths[i])
			if t.right[i] {
				cellStyle = cellStyle.Align(lipgloss.Right)
			}
			sb.WriteString(cellStyle.Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	renderRow(t.Headers, headerStyle)
	sb.WriteString(divider)
	for _, row := range t.Rows {
		renderRow(row, rowStyle)
	}
	if len(t.Footer) > 0 {
		sb.WriteString(divider)
		renderRow(t.Footer, headerStyle)
	}

	return sb.String()
}
