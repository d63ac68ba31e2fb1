// This file implements the live metrics view behind `metrics --watch`: a
// bubbletea model that polls the sandbox on a fixed tick and redraws.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// watchInterval is how often the watch view refreshes.
const watchInterval = 2 * time.Second

// metricsClient is the slice of the inspector the metrics views need.
type metricsClient interface {
	Metrics(ctx context.Context, sandboxID string) (*models.SandboxMetrics, error)
	MetricsRange(ctx context.Context, sandboxID string, start, end time.Time) ([]models.SandboxMetrics, error)
}

// watchTickMsg triggers the next poll.
type watchTickMsg time.Time

// watchMetricsMsg carries a completed poll.
type watchMetricsMsg struct {
	metrics *models.SandboxMetrics
	err     error
}

type watchModel struct {
	client    metricsClient
	sandboxID string
	spinner   spinner.Model
	metrics   *models.SandboxMetrics
	err       error
	fetching  bool
	quitting  bool
}

func newWatchModel(client metricsClient, sandboxID string) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return watchModel{
		client:    client,
		sandboxID: sandboxID,
		spinner:   s,
		fetching:  true,
	}
}

func (m watchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		metrics, err := m.client.Metrics(context.Background(), m.sandboxID)
		return watchMetricsMsg{metrics: metrics, err: err}
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case watchTickMsg:
		m.fetching = true
		return m, m.fetch()

	case watchMetricsMsg:
		m.fetching = false
		m.metrics = msg.metrics
		m.err = msg.err
		return m, watchTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Watching: "+m.sandboxID) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	case m.metrics == nil:
		b.WriteString(m.spinner.View() + " waiting for first snapshot...\n")
	default:
		for _, row := range metricsRows(m.metrics) {
			b.WriteString(fmt.Sprintf("%-10s %-18s %s\n", row[0], row[1], row[2]))
		}
	}

	b.WriteString("\n")
	if m.fetching {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("refreshing every %s — press q to quit", watchInterval)))
	return b.String()
}
