package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true)
)

// renderTable writes rows under headers. Rows listed in muted are dimmed.
func renderTable(w io.Writer, headers []string, rows [][]string, muted map[int]bool) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case muted[row]:
				return mutedStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
}

// formatSeconds renders a duration as 1h05m, 12m or 45s.
func formatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, secs%3600/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
