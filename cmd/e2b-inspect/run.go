// This file implements the execution commands: exec (shell) and python
// (interpreter). A non-zero exit code or sandboxed runtime error becomes the
// process exit code without being treated as a client error.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <sandbox-id> <command>",
	Short: "Execute a shell command in a sandbox",
	Args:  cobra.ExactArgs(2),
	RunE:  runExec,
}

var pythonCmd = &cobra.Command{
	Use:   "python <sandbox-id> <code>",
	Short: "Execute Python code in a sandbox",
	Args:  cobra.ExactArgs(2),
	RunE:  runPython,
}

func init() {
	execCmd.Flags().Int("timeout", 60, "Command timeout in seconds")
	pythonCmd.Flags().Int("timeout", 60, "Execution timeout in seconds")
}

func flagTimeout(cmd *cobra.Command) time.Duration {
	seconds, _ := cmd.Flags().GetInt("timeout")
	return time.Duration(seconds) * time.Second
}

func runExec(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	result, err := client.Exec(cmd.Context(), args[0], args[1], flagTimeout(cmd))
	if err != nil {
		return err
	}

	if result.Stdout != "" {
		fmt.Print(result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, styled(errorStyle, result.Stderr))
	}
	if !result.Success() {
		os.Exit(result.ExitCode)
	}
	return nil
}

func runPython(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	result, err := client.Python(cmd.Context(), args[0], args[1], flagTimeout(cmd))
	if err != nil {
		return err
	}

	if result.Stdout != "" {
		fmt.Print(result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, styled(dimStyle, result.Stderr))
	}
	if len(result.Results) > 0 {
		fmt.Println(styled(headerStyle, "Results:"))
		for _, r := range result.Results {
			fmt.Printf("  %s\n", r)
		}
	}
	if !result.Success() {
		fmt.Fprintln(os.Stderr, styled(errorStyle, "Error: "+result.Error))
		os.Exit(exitFailure)
	}
	return nil
}
