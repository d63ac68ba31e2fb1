package inspector

import (
	"context"
	"time"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// Task is an in-flight asynchronous operation producing a T. Wait may be
// called any number of times and from any goroutine; the result is fixed once
// the operation completes.
type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func runTask[T any](fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		t.val, t.err = fn()
		close(t.done)
	}()
	return t
}

// Wait blocks until the operation completes or ctx is done. Abandoning the
// wait does not undo the remote call: fire effects may outlive cancellation
// of the wait.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the operation completes, for use in
// caller select loops.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// AsyncInspector is the suspending facade. Each operation starts immediately
// on its own goroutine and returns a Task; the caller suspends in Task.Wait
// rather than in the operation call. Operations share the blocking facade's
// core, so both modes validate inputs and classify errors identically.
type AsyncInspector struct {
	core *core
}

// NewAsyncInspector creates an asynchronous inspector talking to the sandbox
// provider.
func NewAsyncInspector(apiKey string, opts ...ClientOption) (*AsyncInspector, error) {
	client, err := NewClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &AsyncInspector{core: newCore(&httpProvider{client: client}, client.defaultTimeout)}, nil
}

// ListSandboxes starts listing all sandboxes, optionally narrowed by filter.
func (a *AsyncInspector) ListSandboxes(ctx context.Context, filter *ListFilter) *Task[[]models.SandboxInfo] {
	return runTask(func() ([]models.SandboxInfo, error) {
		return a.core.listSandboxes(ctx, filter)
	})
}

// Info starts fetching detailed information about one sandbox.
func (a *AsyncInspector) Info(ctx context.Context, sandboxID string) *Task[*models.SandboxInfo] {
	return runTask(func() (*models.SandboxInfo, error) {
		return a.core.info(ctx, sandboxID)
	})
}

// Metrics starts fetching the latest resource snapshot for one sandbox.
func (a *AsyncInspector) Metrics(ctx context.Context, sandboxID string) *Task[*models.SandboxMetrics] {
	return runTask(func() (*models.SandboxMetrics, error) {
		return a.core.metrics(ctx, sandboxID)
	})
}

// MetricsRange starts fetching historical snapshots between start and end.
func (a *AsyncInspector) MetricsRange(ctx context.Context, sandboxID string, start, end time.Time) *Task[[]models.SandboxMetrics] {
	return runTask(func() ([]models.SandboxMetrics, error) {
		return a.core.metricsRange(ctx, sandboxID, start, end)
	})
}

// Exec starts running a shell command in the sandbox.
func (a *AsyncInspector) Exec(ctx context.Context, sandboxID, command string, timeout time.Duration) *Task[*models.CommandResult] {
	return runTask(func() (*models.CommandResult, error) {
		return a.core.exec(ctx, sandboxID, command, timeout)
	})
}

// Python starts executing Python code in the sandbox's interpreter.
func (a *AsyncInspector) Python(ctx context.Context, sandboxID, code string, timeout time.Duration) *Task[*models.CodeResult] {
	return runTask(func() (*models.CodeResult, error) {
		return a.core.python(ctx, sandboxID, code, timeout)
	})
}

// Files starts listing entries under path.
func (a *AsyncInspector) Files(ctx context.Context, sandboxID, path string, recursive bool) *Task[[]models.FileInfo] {
	return runTask(func() ([]models.FileInfo, error) {
		return a.core.files(ctx, sandboxID, path, recursive)
	})
}

// Download starts reading the raw content of a file in the sandbox.
func (a *AsyncInspector) Download(ctx context.Context, sandboxID, remotePath string) *Task[[]byte] {
	return runTask(func() ([]byte, error) {
		return a.core.download(ctx, sandboxID, remotePath)
	})
}

// Upload starts writing content to remotePath in the sandbox.
func (a *AsyncInspector) Upload(ctx context.Context, sandboxID, remotePath string, content []byte) *Task[struct{}] {
	return runTask(func() (struct{}, error) {
		return struct{}{}, a.core.upload(ctx, sandboxID, remotePath, content)
	})
}

// Kill starts terminating a sandbox. See Inspector.Kill for the true/false
// contract.
func (a *AsyncInspector) Kill(ctx context.Context, sandboxID string) *Task[bool] {
	return runTask(func() (bool, error) {
		return a.core.kill(ctx, sandboxID)
	})
}

// KillAll starts terminating every sandbox. The confirm gate applies before
// any provider call, exactly as in the blocking facade.
func (a *AsyncInspector) KillAll(ctx context.Context, confirm bool) *Task[int] {
	return runTask(func() (int, error) {
		return a.core.killAll(ctx, confirm)
	})
}

// Summary starts aggregating the current sandbox population.
func (a *AsyncInspector) Summary(ctx context.Context) *Task[*models.Summary] {
	return runTask(func() (*models.Summary, error) {
		return a.core.summary(ctx)
	})
}
