package models

// CommandResult is the outcome of running a shell command in a sandbox.
// A non-zero exit code is a result, not a client-level error.
type CommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Success reports whether the command exited with code 0.
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CodeResult is the outcome of executing code in a sandbox's interpreter.
// A runtime error inside the sandbox surfaces through Error, not as a
// client-level error.
type CodeResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// Error is the sandboxed runtime's error text, empty on success.
	Error string `json:"error,omitempty"`

	// Results holds the rendered value of each evaluated unit, in order.
	Results []string `json:"results,omitempty"`
}

// Success reports whether the code executed without a runtime error.
func (r *CodeResult) Success() bool {
	return r.Error == ""
}

// FileInfo describes one entry of a sandbox filesystem listing.
type FileInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`

	// SizeBytes is 0 for directories by convention.
	SizeBytes int64 `json:"size_bytes"`
}
