package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// metricsView is a SandboxMetrics snapshot plus its derived percentages, for
// JSON output.
type metricsView struct {
	models.SandboxMetrics
	MemPct  float64 `json:"mem_pct"`
	DiskPct float64 `json:"disk_pct"`
}

func newMetricsView(m models.SandboxMetrics) metricsView {
	return metricsView{
		SandboxMetrics: m,
		MemPct:         m.MemPct(),
		DiskPct:        m.DiskPct(),
	}
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <sandbox-id>",
	Short: "Show resource metrics for a sandbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().Bool("watch", false, "Continuously update (every 2s)")
	metricsCmd.Flags().String("start", "", "Range start (RFC3339) for historical metrics")
	metricsCmd.Flags().String("end", "", "Range end (RFC3339) for historical metrics")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}
	sandboxID := args[0]

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		program := tea.NewProgram(newWatchModel(client, sandboxID))
		_, err := program.Run()
		return err
	}

	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")
	if startFlag != "" || endFlag != "" {
		return runMetricsRange(cmd, client, sandboxID, startFlag, endFlag)
	}

	m, err := client.Metrics(cmd.Context(), sandboxID)
	if err != nil {
		return err
	}
	if outputFormat(cmd) == "json" {
		return printJSON(newMetricsView(*m))
	}
	printMetricsTable(sandboxID, m)
	return nil
}

func runMetricsRange(cmd *cobra.Command, client metricsClient, sandboxID, startFlag, endFlag string) error {
	start, err := time.Parse(time.RFC3339, startFlag)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endFlag)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	series, err := client.MetricsRange(cmd.Context(), sandboxID, start, end)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == "json" {
		views := make([]metricsView, len(series))
		for i, m := range series {
			views[i] = newMetricsView(m)
		}
		return printJSON(views)
	}

	rows := make([][]string, len(series))
	for i, m := range series {
		rows[i] = []string{
			m.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.1f%%", m.CPUPct),
			fmt.Sprintf("%d/%d MB (%.1f%%)", m.MemUsedMB, m.MemTotalMB, m.MemPct()),
			fmt.Sprintf("%d/%d MB (%.1f%%)", m.DiskUsedMB, m.DiskTotalMB, m.DiskPct()),
		}
	}
	renderTable("Metrics: "+sandboxID, []string{"Timestamp", "CPU", "Memory", "Disk"}, rows)
	return nil
}

func printMetricsTable(sandboxID string, m *models.SandboxMetrics) {
	renderTable("Metrics: "+sandboxID,
		[]string{"Metric", "Value", "Usage"},
		metricsRows(m),
	)
}

func metricsRows(m *models.SandboxMetrics) [][]string {
	return [][]string{
		{"CPU", fmt.Sprintf("%d cores", m.CPUCount), fmt.Sprintf("%.1f%%", m.CPUPct)},
		{"Memory", fmt.Sprintf("%d/%d MB", m.MemUsedMB, m.MemTotalMB), fmt.Sprintf("%.1f%%", m.MemPct())},
		{"Disk", fmt.Sprintf("%d/%d MB", m.DiskUsedMB, m.DiskTotalMB), fmt.Sprintf("%.1f%%", m.DiskPct())},
		{"Timestamp", m.Timestamp.Format(time.RFC3339), ""},
	}
}
