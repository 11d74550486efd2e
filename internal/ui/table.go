package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"strata/internal/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	exprStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderLayoutTable renders computed type layouts as an aligned table.
func RenderLayoutTable(rows []report.TypeLayout, width int) string {
	if len(rows) == 0 {
		return ""
	}
	exprWidth := runewidth.StringWidth("type")
	for _, row := range rows {
		if w := runewidth.StringWidth(row.Expr); w > exprWidth {
			exprWidth = w
		}
	}
	maxExpr := width - 40
	if maxExpr < 12 {
		maxExpr = 12
	}
	if exprWidth > maxExpr {
		exprWidth = maxExpr
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  %6s  %4s  %4s  %s",
		pad("type", exprWidth), "size", "abi", "pref", "offsets")))
	b.WriteString("\n")
	for _, row := range rows {
		offsets := dimStyle.Render(formatOffsets(row.Offsets))
		b.WriteString(fmt.Sprintf("%s  %6d  %4d  %4d  %s\n",
			exprStyle.Render(pad(row.Expr, exprWidth)),
			row.Size, row.ABIAlign, row.PrefAlign, offsets))
	}
	return b.String()
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return runewidth.FillRight(s, width)
}

func formatOffsets(offsets []uint64) string {
	if len(offsets) == 0 {
		return "-"
	}
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = fmt.Sprintf("%d", off)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
