// Package main is the e2b-inspect CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	inspector "github.com/cm2435/e2b-sandbox-inspector"
)

// Exit codes, so scripts can branch on the failure kind.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
	exitTimeout  = 4
	exitAuth     = 5
)

var rootCmd = &cobra.Command{
	Use:   "e2b-inspect",
	Short: "Debug, monitor, and interact with running E2B sandboxes",
	Long: "e2b-inspect lists, inspects, and manages remote E2B sandboxes:\n" +
		"lifecycle, resource metrics, command and code execution, and file transfer.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("api-key", "", "E2B API key (defaults to E2B_API_KEY)")
	rootCmd.PersistentFlags().String("format", "table", "Output format (table, json)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(pythonCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(killAllCmd)
	rootCmd.AddCommand(summaryCmd)
}

// exitCode maps an error to the CLI exit code contract.
func exitCode(err error) int {
	var (
		authErr      *inspector.AuthError
		notFound     *inspector.NotFoundError
		pathNotFound *inspector.PathNotFoundError
		timeoutErr   *inspector.TimeoutError
		confirmErr   *inspector.ConfirmationRequiredError
		rangeErr     *inspector.InvalidRangeError
		validateErr  *inspector.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		return exitAuth
	case errors.As(err, &notFound), errors.As(err, &pathNotFound):
		return exitNotFound
	case errors.As(err, &timeoutErr):
		return exitTimeout
	case errors.As(err, &confirmErr), errors.As(err, &rangeErr), errors.As(err, &validateErr):
		return exitUsage
	case errors.Is(err, errAborted):
		return exitUsage
	}
	return exitFailure
}

func main() {
	initLogger()
	if err := rootCmd.Execute(); err != nil {
		logDebug("command failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
