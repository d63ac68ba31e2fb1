// This file implements the filesystem commands: files, download, upload.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files <sandbox-id> [path]",
	Short: "List files in a sandbox directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runFiles,
}

var downloadCmd = &cobra.Command{
	Use:   "download <sandbox-id> <remote-path> <local-path>",
	Short: "Download a file from a sandbox",
	Args:  cobra.ExactArgs(3),
	RunE:  runDownload,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <sandbox-id> <local-path> <remote-path>",
	Short: "Upload a file to a sandbox",
	Args:  cobra.ExactArgs(3),
	RunE:  runUpload,
}

func init() {
	filesCmd.Flags().Bool("recursive", false, "Recurse into subdirectories")
}

func runFiles(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}

	path := "/"
	if len(args) == 2 {
		path = args[1]
	}
	recursive, _ := cmd.Flags().GetBool("recursive")

	entries, err := client.Files(cmd.Context(), args[0], path, recursive)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == "json" {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println(styled(dimStyle, "No files found"))
		return nil
	}

	// Directories first, then by name.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})

	rows := make([][]string, len(entries))
	for i, e := range entries {
		kind, size := "file", fmt.Sprintf("%d", e.SizeBytes)
		if e.IsDir {
			kind, size = "dir", "-"
		}
		rows[i] = []string{kind, e.Path, size}
	}
	renderTable("Files in "+path, []string{"Type", "Path", "Size"}, rows)
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	client, err := newInspector(cmd)
	if err != nil {
		return err
	}
	sandboxID, remotePath, localPath := args[0], args[1], args[2]

	content, err := client.Download(cmd.Context(), sandboxID, remotePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(localPath, content, 0644); err != nil {
		return err
	}

	fmt.Printf("Downloaded %d bytes to %s\n", len(content), localPath)
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	sandboxID, localPath, remotePath := args[0], args[1], args[2]

	content, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}

	client, err := newInspector(cmd)
	if err != nil {
		return err
	}
	if err := client.Upload(cmd.Context(), sandboxID, remotePath, content); err != nil {
		return err
	}

	fmt.Printf("Uploaded %d bytes to %s\n", len(content), remotePath)
	return nil
}
