// This file implements the destructive commands: kill and kill-all. Both
// gate on confirmation unless --force is given; kill-all additionally relies
// on the client-side confirm gate, so the prompt here is UX, not the safety
// boundary.
package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

var killCmd = &cobra.Command{
	Use:   "kill <sandbox-id>",
	Short: "Terminate a sandbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runKill,
}

var killAllCmd = &cobra.Command{
	Use:   "kill-all",
	Short: "Terminate ALL sandboxes",
	Args:  cobra.NoArgs,
	RunE:  runKillAll,
}

func init() {
	killCmd.Flags().Bool("force", false, "Skip confirmation")
	killAllCmd.Flags().Bool("force", false, "Skip confirmation (dangerous)")
}

// confirmAction prompts interactively. Without a terminal there is nobody to
// ask, so the action is refused rather than silently approved.
func confirmAction(title string) error {
	if !stdoutIsTerminal() {
		return fmt.Errorf("refusing to proceed without --force in non-interactive mode")
	}

	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if !confirmed {
		return errAborted
	}
	return nil
}

func runKill(cmd *cobra.Command, args []string) error {
	sandboxID := args[0]

	if force, _ := cmd.Flags().GetBool("force"); !force {
		if err := confirmAction(fmt.Sprintf("Kill sandbox %s?", sandboxID)); err != nil {
			return err
		}
	}

	client, err := newInspector(cmd)
	if err != nil {
		return err
	}
	killed, err := client.Kill(cmd.Context(), sandboxID)
	if err != nil {
		return err
	}

	if killed {
		fmt.Printf("Terminated sandbox %s\n", sandboxID)
	} else {
		fmt.Println(styled(dimStyle, fmt.Sprintf("Sandbox %s not found or already terminated", sandboxID)))
	}
	return nil
}

func runKillAll(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	sandboxes, err := client.ListSandboxes(cmd.Context(), nil)
	if err != nil {
		return err
	}
	if len(sandboxes) == 0 {
		fmt.Println(styled(dimStyle, "No sandboxes to kill"))
		return nil
	}

	if force, _ := cmd.Flags().GetBool("force"); !force {
		title := fmt.Sprintf("This will terminate %d sandbox(es). Are you absolutely sure?", len(sandboxes))
		if err := confirmAction(title); err != nil {
			return err
		}
	}

	count, err := client.KillAll(cmd.Context(), true)
	if err != nil {
		return err
	}
	fmt.Printf("Terminated %d sandbox(es)\n", count)
	return nil
}
