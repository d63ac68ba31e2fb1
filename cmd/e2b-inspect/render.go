// This file renders command output: lipgloss-styled tables for terminals,
// plain columns for pipes, and JSON for scripting.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#02BF87"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#02BA84"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9A400"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E05252"))
)

// stdoutIsTerminal reports whether stdout is an interactive terminal. Styled
// output degrades to plain columns when piped.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func styled(style lipgloss.Style, s string) string {
	if !stdoutIsTerminal() {
		return s
	}
	return style.Render(s)
}

// renderTable prints a fixed-width column table with a styled title and
// header row.
func renderTable(title string, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	if title != "" {
		fmt.Println(styled(titleStyle, title))
	}

	var header strings.Builder
	for i, h := range headers {
		header.WriteString(padCell(h, widths[i]))
		if i < len(headers)-1 {
			header.WriteString("  ")
		}
	}
	fmt.Println(styled(headerStyle, header.String()))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(padCell(cell, widths[i]))
			if i < len(row)-1 {
				line.WriteString("  ")
			}
		}
		fmt.Println(line.String())
	}
}

// padCell right-pads by display width so styled cells line up.
func padCell(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// renderKV prints a two-column property table.
func renderKV(title string, pairs [][2]string) {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	renderTable(title, []string{"Property", "Value"}, rows)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDuration renders a duration the way humans scan it: 42s, 3m 12s,
// 2h 5m.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
	}
}

func formatState(state string) string {
	if state == "running" {
		return styled(runningStyle, state)
	}
	return styled(pausedStyle, state)
}

// truncate shortens long identifiers for table cells.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
