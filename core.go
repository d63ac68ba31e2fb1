package inspector

import (
	"context"
	"time"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// ListFilter narrows a sandbox listing. A nil filter matches everything.
type ListFilter struct {
	// State keeps only sandboxes in the given state.
	State *models.SandboxState

	// Metadata keeps only sandboxes whose metadata contains every listed
	// key/value pair exactly.
	Metadata map[string]string
}

// core implements every facade operation once. Both execution-mode adapters
// delegate here, so validation and error mapping cannot drift between them.
type core struct {
	api            providerAPI
	now            func() time.Time
	defaultTimeout time.Duration
}

func newCore(api providerAPI, defaultTimeout time.Duration) *core {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &core{
		api:            api,
		now:            time.Now,
		defaultTimeout: defaultTimeout,
	}
}

func requireSandboxID(sandboxID string) error {
	if sandboxID == "" {
		return &ValidationError{Field: "sandbox_id", Message: "must not be empty"}
	}
	return nil
}

func (c *core) resolveTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return c.defaultTimeout
	}
	return timeout
}

func (c *core) listSandboxes(ctx context.Context, filter *ListFilter) ([]models.SandboxInfo, error) {
	sandboxes, err := c.api.listSandboxes(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return sandboxes, nil
	}

	// Provider order is preserved; filtering only drops entries.
	filtered := make([]models.SandboxInfo, 0, len(sandboxes))
	for _, s := range sandboxes {
		if filter.State != nil && s.State != *filter.State {
			continue
		}
		if !s.MatchesMetadata(filter.Metadata) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

func (c *core) info(ctx context.Context, sandboxID string) (*models.SandboxInfo, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	return c.api.getSandbox(ctx, sandboxID)
}

func (c *core) metrics(ctx context.Context, sandboxID string) (*models.SandboxMetrics, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	series, err := c.api.getMetrics(ctx, sandboxID, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, &ProviderError{Message: "provider returned no metrics for sandbox " + sandboxID}
	}
	// Without a range the latest snapshot is the answer.
	latest := series[len(series)-1]
	return &latest, nil
}

func (c *core) metricsRange(ctx context.Context, sandboxID string, start, end time.Time) ([]models.SandboxMetrics, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	return c.api.getMetrics(ctx, sandboxID, &start, &end)
}

func (c *core) exec(ctx context.Context, sandboxID, command string, timeout time.Duration) (*models.CommandResult, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	if command == "" {
		return nil, &ValidationError{Field: "command", Message: "must not be empty"}
	}
	return c.api.runCommand(ctx, sandboxID, command, c.resolveTimeout(timeout))
}

func (c *core) python(ctx context.Context, sandboxID, code string, timeout time.Duration) (*models.CodeResult, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, &ValidationError{Field: "code", Message: "must not be empty"}
	}
	return c.api.runCode(ctx, sandboxID, code, c.resolveTimeout(timeout))
}

func (c *core) files(ctx context.Context, sandboxID, path string, recursive bool) ([]models.FileInfo, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	if path == "" {
		path = "/"
	}
	return c.api.listFiles(ctx, sandboxID, path, recursive)
}

func (c *core) download(ctx context.Context, sandboxID, remotePath string) ([]byte, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return nil, err
	}
	if remotePath == "" {
		return nil, &ValidationError{Field: "remote_path", Message: "must not be empty"}
	}
	return c.api.readFile(ctx, sandboxID, remotePath)
}

func (c *core) upload(ctx context.Context, sandboxID, remotePath string, content []byte) error {
	if err := requireSandboxID(sandboxID); err != nil {
		return err
	}
	if remotePath == "" {
		return &ValidationError{Field: "remote_path", Message: "must not be empty"}
	}
	return c.api.writeFile(ctx, sandboxID, remotePath, content)
}

func (c *core) kill(ctx context.Context, sandboxID string) (bool, error) {
	if err := requireSandboxID(sandboxID); err != nil {
		return false, err
	}
	return c.api.killSandbox(ctx, sandboxID)
}

// killAll terminates every sandbox. The confirm gate lives here, not in the
// presentation layer, so API consumers get the same protection as CLI users:
// without confirm no provider call is issued at all.
func (c *core) killAll(ctx context.Context, confirm bool) (int, error) {
	if !confirm {
		return 0, &ConfirmationRequiredError{Action: "kill all sandboxes"}
	}

	sandboxes, err := c.api.listSandboxes(ctx)
	if err != nil {
		return 0, err
	}

	killed := 0
	for _, s := range sandboxes {
		ok, err := c.api.killSandbox(ctx, s.SandboxID)
		if err != nil {
			return killed, err
		}
		if ok {
			killed++
		}
	}
	return killed, nil
}

func (c *core) summary(ctx context.Context) (*models.Summary, error) {
	sandboxes, err := c.api.listSandboxes(ctx)
	if err != nil {
		return nil, err
	}
	sum := models.BuildSummary(sandboxes, c.now())
	return &sum, nil
}
