package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	inspector "github.com/cm2435/e2b-sandbox-inspector"
	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// sandboxView is a SandboxInfo snapshot plus its derived fields, for JSON
// output.
type sandboxView struct {
	models.SandboxInfo
	Uptime        string `json:"uptime"`
	TimeRemaining string `json:"time_remaining"`
}

func newSandboxView(s models.SandboxInfo, now time.Time) sandboxView {
	return sandboxView{
		SandboxInfo:   s,
		Uptime:        s.Uptime(now).Truncate(time.Second).String(),
		TimeRemaining: s.TimeRemaining(now).Truncate(time.Second).String(),
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sandboxes",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("state", "", "Filter by state (running, paused)")
	listCmd.Flags().StringArray("metadata", nil, "Filter by metadata key=value (repeatable, exact match)")
}

func parseMetadataFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata filter %q, expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	var filter *inspector.ListFilter
	stateFlag, _ := cmd.Flags().GetString("state")
	metadataFlags, _ := cmd.Flags().GetStringArray("metadata")
	metadata, err := parseMetadataFlags(metadataFlags)
	if err != nil {
		return err
	}
	if stateFlag != "" || metadata != nil {
		filter = &inspector.ListFilter{Metadata: metadata}
		if stateFlag != "" {
			state := models.SandboxState(stateFlag)
			if state != models.StateRunning && state != models.StatePaused {
				return fmt.Errorf("invalid state %q, expected running or paused", stateFlag)
			}
			filter.State = &state
		}
	}

	sandboxes, err := client.ListSandboxes(cmd.Context(), filter)
	if err != nil {
		return err
	}

	now := time.Now()
	if outputFormat(cmd) == "json" {
		views := make([]sandboxView, len(sandboxes))
		for i, s := range sandboxes {
			views[i] = newSandboxView(s, now)
		}
		return printJSON(views)
	}

	if len(sandboxes) == 0 {
		fmt.Println(styled(dimStyle, "No sandboxes found"))
		return nil
	}

	rows := make([][]string, len(sandboxes))
	for i, s := range sandboxes {
		rows[i] = []string{
			s.SandboxID,
			formatState(string(s.State)),
			truncate(s.TemplateID, 20),
			fmt.Sprintf("%d", s.CPUCount),
			fmt.Sprintf("%dMB", s.MemoryMB),
			formatDuration(s.Uptime(now)),
			formatDuration(s.TimeRemaining(now)),
		}
	}
	renderTable(
		fmt.Sprintf("E2B Sandboxes (%d total)", len(sandboxes)),
		[]string{"Sandbox ID", "State", "Template", "CPU", "Memory", "Uptime", "Remaining"},
		rows,
	)
	return nil
}
