package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// summaryView mirrors models.Summary with human-readable uptimes for JSON
// output (time.Duration would otherwise marshal as nanoseconds).
type summaryView struct {
	RunningCount  int `json:"running_count"`
	PausedCount   int `json:"paused_count"`
	TotalCount    int `json:"total_count"`
	TotalCPU      int `json:"total_cpu"`
	TotalMemoryMB int `json:"total_memory_mb"`

	OldestSandboxID *string `json:"oldest_sandbox_id"`
	OldestUptime    *string `json:"oldest_uptime"`
	NewestSandboxID *string `json:"newest_sandbox_id"`
	NewestUptime    *string `json:"newest_uptime"`
}

func newSummaryView(s models.Summary) summaryView {
	view := summaryView{
		RunningCount:    s.RunningCount,
		PausedCount:     s.PausedCount,
		TotalCount:      s.TotalCount,
		TotalCPU:        s.TotalCPU,
		TotalMemoryMB:   s.TotalMemoryMB,
		OldestSandboxID: s.OldestSandboxID,
		NewestSandboxID: s.NewestSandboxID,
	}
	if s.OldestUptime != nil {
		up := formatDuration(*s.OldestUptime)
		view.OldestUptime = &up
	}
	if s.NewestUptime != nil {
		up := formatDuration(*s.NewestUptime)
		view.NewestUptime = &up
	}
	return view
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show an aggregate view over all sandboxes",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	sum, err := client.Summary(cmd.Context())
	if err != nil {
		return err
	}

	if outputFormat(cmd) == "json" {
		return printJSON(newSummaryView(*sum))
	}

	rows := [][]string{
		{"Running", fmt.Sprintf("%d", sum.RunningCount)},
		{"Paused", fmt.Sprintf("%d", sum.PausedCount)},
		{"Total", fmt.Sprintf("%d", sum.TotalCount)},
		{"Total CPU", fmt.Sprintf("%d cores", sum.TotalCPU)},
		{"Total memory", fmt.Sprintf("%d MB", sum.TotalMemoryMB)},
	}
	if sum.OldestSandboxID != nil {
		rows = append(rows,
			[]string{"Oldest", fmt.Sprintf("%s (up %s)", *sum.OldestSandboxID, formatDuration(*sum.OldestUptime))},
			[]string{"Newest", fmt.Sprintf("%s (up %s)", *sum.NewestSandboxID, formatDuration(*sum.NewestUptime))},
		)
	}
	renderTable("Sandbox Summary", []string{"Field", "Value"}, rows)
	return nil
}
