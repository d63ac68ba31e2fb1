// Package inspector is a client for inspecting and managing remote sandboxes:
// listing, resource metrics, command and code execution, file transfer, and
// termination. Two facades expose the identical operation set: Inspector
// blocks the calling goroutine, AsyncInspector returns Task futures. Both
// share one operation core, so inputs, outputs, and error kinds never differ
// between modes.
package inspector

import (
	"context"
	"time"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// Inspector is the blocking facade. Every operation performs its remote call
// on the calling goroutine and returns when the provider responds. The
// zero-state client holds only immutable configuration, so an Inspector is
// safe for concurrent use.
type Inspector struct {
	core *core
}

// NewInspector creates a blocking inspector talking to the sandbox provider.
func NewInspector(apiKey string, opts ...ClientOption) (*Inspector, error) {
	client, err := NewClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Inspector{core: newCore(&httpProvider{client: client}, client.defaultTimeout)}, nil
}

// ListSandboxes returns all sandboxes, optionally narrowed by filter. Order
// follows the provider and is not guaranteed sorted.
func (i *Inspector) ListSandboxes(ctx context.Context, filter *ListFilter) ([]models.SandboxInfo, error) {
	return i.core.listSandboxes(ctx, filter)
}

// Info returns detailed information about one sandbox.
func (i *Inspector) Info(ctx context.Context, sandboxID string) (*models.SandboxInfo, error) {
	return i.core.info(ctx, sandboxID)
}

// Metrics returns the latest resource snapshot for one sandbox.
func (i *Inspector) Metrics(ctx context.Context, sandboxID string) (*models.SandboxMetrics, error) {
	return i.core.metrics(ctx, sandboxID)
}

// MetricsRange returns historical snapshots between start and end, ordered by
// timestamp ascending. A start after end is rejected before any remote call.
func (i *Inspector) MetricsRange(ctx context.Context, sandboxID string, start, end time.Time) ([]models.SandboxMetrics, error) {
	return i.core.metricsRange(ctx, sandboxID, start, end)
}

// Exec runs a shell command in the sandbox. A non-zero exit code is reported
// in the result, not as an error. When execution exceeds timeout (or the
// default when timeout <= 0) a *TimeoutError is returned carrying any partial
// output the provider captured.
func (i *Inspector) Exec(ctx context.Context, sandboxID, command string, timeout time.Duration) (*models.CommandResult, error) {
	return i.core.exec(ctx, sandboxID, command, timeout)
}

// Python executes Python code in the sandbox's interpreter. A runtime error
// inside the sandbox is reported through CodeResult.Error, not as a
// client-level error. Timeout semantics match Exec.
func (i *Inspector) Python(ctx context.Context, sandboxID, code string, timeout time.Duration) (*models.CodeResult, error) {
	return i.core.python(ctx, sandboxID, code, timeout)
}

// Files lists entries under path (default "/" when empty), optionally
// recursing into subdirectories.
func (i *Inspector) Files(ctx context.Context, sandboxID, path string, recursive bool) ([]models.FileInfo, error) {
	return i.core.files(ctx, sandboxID, path, recursive)
}

// Download returns the raw content of a file in the sandbox.
func (i *Inspector) Download(ctx context.Context, sandboxID, remotePath string) ([]byte, error) {
	return i.core.download(ctx, sandboxID, remotePath)
}

// Upload writes content to remotePath in the sandbox.
func (i *Inspector) Upload(ctx context.Context, sandboxID, remotePath string, content []byte) error {
	return i.core.upload(ctx, sandboxID, remotePath, content)
}

// Kill terminates a sandbox. It returns true if a sandbox was terminated and
// false if it did not exist or was already gone; "already gone" is never an
// error.
func (i *Inspector) Kill(ctx context.Context, sandboxID string) (bool, error) {
	return i.core.kill(ctx, sandboxID)
}

// KillAll terminates every sandbox and returns the count terminated. It
// refuses to act unless confirm is true; the gate is enforced here, before
// any provider call.
func (i *Inspector) KillAll(ctx context.Context, confirm bool) (int, error) {
	return i.core.killAll(ctx, confirm)
}

// Summary aggregates the current sandbox population. An empty population is
// a valid Summary with zero counts, not an error.
func (i *Inspector) Summary(ctx context.Context) (*models.Summary, error) {
	return i.core.summary(ctx)
}
