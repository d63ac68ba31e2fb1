package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <sandbox-id>",
	Short: "Show detailed sandbox info",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	sandbox, err := client.Info(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	now := time.Now()
	if outputFormat(cmd) == "json" {
		return printJSON(newSandboxView(*sandbox, now))
	}

	name := sandbox.Name
	if name == "" {
		name = "-"
	}
	pairs := [][2]string{
		{"Sandbox ID", sandbox.SandboxID},
		{"State", formatState(string(sandbox.State))},
		{"Template", sandbox.TemplateID},
		{"Name", name},
		{"CPU", fmt.Sprintf("%d cores", sandbox.CPUCount)},
		{"Memory", fmt.Sprintf("%d MB", sandbox.MemoryMB)},
		{"Started", sandbox.StartedAt.Format(time.RFC3339)},
		{"Expires", sandbox.EndAt.Format(time.RFC3339)},
		{"Uptime", formatDuration(sandbox.Uptime(now))},
		{"Remaining", formatDuration(sandbox.TimeRemaining(now))},
	}
	if len(sandbox.Metadata) > 0 {
		metadata, _ := json.Marshal(sandbox.Metadata)
		pairs = append(pairs, [2]string{"Metadata", string(metadata)})
	}
	renderKV("Sandbox: "+sandbox.SandboxID, pairs)
	return nil
}
