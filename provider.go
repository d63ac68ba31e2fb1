package inspector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/cm2435/e2b-sandbox-inspector/models"
)

// providerAPI is the collaborator boundary: the remote sandbox platform's
// operation surface as the facade core consumes it. Tests substitute a mock;
// production uses httpProvider.
type providerAPI interface {
	listSandboxes(ctx context.Context) ([]models.SandboxInfo, error)
	getSandbox(ctx context.Context, sandboxID string) (*models.SandboxInfo, error)
	getMetrics(ctx context.Context, sandboxID string, start, end *time.Time) ([]models.SandboxMetrics, error)
	runCommand(ctx context.Context, sandboxID, command string, timeout time.Duration) (*models.CommandResult, error)
	runCode(ctx context.Context, sandboxID, code string, timeout time.Duration) (*models.CodeResult, error)
	listFiles(ctx context.Context, sandboxID, path string, recursive bool) ([]models.FileInfo, error)
	readFile(ctx context.Context, sandboxID, path string) ([]byte, error)
	writeFile(ctx context.Context, sandboxID, path string, content []byte) error
	killSandbox(ctx context.Context, sandboxID string) (bool, error)
}

// httpProvider implements providerAPI over the provider's REST API.
type httpProvider struct {
	client *Client
}

// Structured error codes the provider emits in error bodies.
const (
	codeSandboxNotFound = "sandbox_not_found"
	codePathNotFound    = "path_not_found"
	codeIsADirectory    = "is_a_directory"
	codeTimeout         = "timeout"
)

// execGrace is added to the HTTP deadline so the provider's own timeout
// response can arrive before the local context expires.
const execGrace = 10 * time.Second

// sandboxWire is a sandbox object as the provider serializes it.
type sandboxWire struct {
	SandboxID  string            `json:"sandboxID"`
	TemplateID string            `json:"templateID"`
	Name       string            `json:"name"`
	Metadata   map[string]string `json:"metadata"`
	State      string            `json:"state"`
	StartedAt  time.Time         `json:"startedAt"`
	EndAt      time.Time         `json:"endAt"`
	CPUCount   int               `json:"cpuCount"`
	MemoryMB   int               `json:"memoryMB"`
}

func (w *sandboxWire) toModel() (*models.SandboxInfo, error) {
	if w.SandboxID == "" {
		return nil, &SchemaError{Message: "sandbox object missing sandboxID"}
	}
	if w.TemplateID == "" {
		return nil, &SchemaError{Message: fmt.Sprintf("sandbox %s missing templateID", w.SandboxID)}
	}
	if w.StartedAt.IsZero() {
		return nil, &SchemaError{Message: fmt.Sprintf("sandbox %s missing startedAt", w.SandboxID)}
	}
	return &models.SandboxInfo{
		SandboxID:  w.SandboxID,
		TemplateID: w.TemplateID,
		Name:       w.Name,
		Metadata:   w.Metadata,
		State:      models.SandboxState(w.State),
		StartedAt:  w.StartedAt,
		EndAt:      w.EndAt,
		CPUCount:   w.CPUCount,
		MemoryMB:   w.MemoryMB,
	}, nil
}

// metricWire is a metric snapshot as the provider serializes it. Memory and
// disk sizes arrive in bytes.
type metricWire struct {
	Timestamp  int64   `json:"ts"`
	CPUCount   int     `json:"cpu_count"`
	CPUUsedPct float64 `json:"cpu_used_pct"`
	MemTotal   int64   `json:"mem_total"`
	MemUsed    int64   `json:"mem_used"`
	DiskTotal  int64   `json:"disk_total"`
	DiskUsed   int64   `json:"disk_used"`
}

func (w *metricWire) toModel() models.SandboxMetrics {
	const mib = 1024 * 1024
	return models.SandboxMetrics{
		CPUCount:    w.CPUCount,
		CPUPct:      w.CPUUsedPct,
		MemTotalMB:  int(w.MemTotal / mib),
		MemUsedMB:   int(w.MemUsed / mib),
		DiskTotalMB: int(w.DiskTotal / mib),
		DiskUsedMB:  int(w.DiskUsed / mib),
		Timestamp:   time.Unix(w.Timestamp, 0).UTC(),
	}
}

// entryWire is a filesystem entry as the provider's agent serializes it.
type entryWire struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (w *entryWire) toModel() models.FileInfo {
	fi := models.FileInfo{
		Name:  w.Name,
		Path:  w.Path,
		IsDir: w.Type == "dir",
	}
	if !fi.IsDir {
		fi.SizeBytes = w.Size
	}
	return fi
}

// errorBody attempts to parse a structured code and message out of a JSON
// error response body.
func errorBody(body []byte) (code, message string) {
	if len(body) == 0 {
		return "", ""
	}
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		return parsed.Code, parsed.Message
	}
	return "", ""
}

// mapStatusError converts a non-2xx response to the error taxonomy. 404
// handling is caller-specific (sandbox vs path), so callers intercept it
// before delegating here.
func mapStatusError(statusCode int, body []byte) error {
	_, message := errorBody(body)
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: message}
	}
	if message == "" {
		message = string(bytes.TrimSpace(body))
	}
	return &ProviderError{StatusCode: statusCode, Message: message}
}

func (p *httpProvider) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := p.client.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ProviderError{Err: err}
	}
	return resp, nil
}

func readBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data
}

func decodeInto(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &SchemaError{Message: "failed to decode provider response", Err: err}
	}
	return nil
}

func (p *httpProvider) listSandboxes(ctx context.Context) ([]models.SandboxInfo, error) {
	resp, err := p.do(ctx, http.MethodGet, "/sandboxes", nil)
	if err != nil {
		return nil, err
	}
	body := readBody(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var wires []sandboxWire
	if err := decodeInto(body, &wires); err != nil {
		return nil, err
	}
	sandboxes := make([]models.SandboxInfo, 0, len(wires))
	for i := range wires {
		info, err := wires[i].toModel()
		if err != nil {
			return nil, err
		}
		sandboxes = append(sandboxes, *info)
	}
	return sandboxes, nil
}

func (p *httpProvider) getSandbox(ctx context.Context, sandboxID string) (*models.SandboxInfo, error) {
	resp, err := p.do(ctx, http.MethodGet, "/sandboxes/"+url.PathEscape(sandboxID), nil)
	if err != nil {
		return nil, err
	}
	body := readBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{SandboxID: sandboxID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var wire sandboxWire
	if err := decodeInto(body, &wire); err != nil {
		return nil, err
	}
	return wire.toModel()
}

func (p *httpProvider) getMetrics(ctx context.Context, sandboxID string, start, end *time.Time) ([]models.SandboxMetrics, error) {
	path := "/sandboxes/" + url.PathEscape(sandboxID) + "/metrics"
	query := url.Values{}
	if start != nil {
		query.Set("start", strconv.FormatInt(start.Unix(), 10))
	}
	if end != nil {
		query.Set("end", strconv.FormatInt(end.Unix(), 10))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := p.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	body := readBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{SandboxID: sandboxID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var wires []metricWire
	if err := decodeInto(body, &wires); err != nil {
		return nil, err
	}
	metrics := make([]models.SandboxMetrics, len(wires))
	for i := range wires {
		metrics[i] = wires[i].toModel()
	}
	// The contract is timestamp-ascending regardless of provider order.
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Timestamp.Before(metrics[j].Timestamp)
	})
	return metrics, nil
}

func (p *httpProvider) runCommand(ctx context.Context, sandboxID, command string, timeout time.Duration) (*models.CommandResult, error) {
	payload, err := json.Marshal(map[string]any{
		"command":    command,
		"timeoutSec": int(timeout.Seconds()),
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout+execGrace)
	defer cancel()

	resp, err := p.do(execCtx, http.MethodPost, "/sandboxes/"+url.PathEscape(sandboxID)+"/commands", bytes.NewReader(payload))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{SandboxID: sandboxID, Timeout: timeout}
		}
		return nil, err
	}
	body := readBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{SandboxID: sandboxID}
	}
	if resp.StatusCode == http.StatusRequestTimeout {
		return nil, timeoutFromBody(sandboxID, timeout, body)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var wire struct {
		Stdout   string `json:"stdout"`
		Stderr   string `json:"stderr"`
		ExitCode int    `json:"exitCode"`
	}
	if err := decodeInto(body, &wire); err != nil {
		return nil, err
	}
	return &models.CommandResult{
		Stdout:   wire.Stdout,
		Stderr:   wire.Stderr,
		ExitCode: wire.ExitCode,
	}, nil
}

// timeoutFromBody builds a TimeoutError carrying whatever partial output the
// provider reported at the deadline.
func timeoutFromBody(sandboxID string, timeout time.Duration, body []byte) error {
	var partial struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
	}
	_ = json.Unmarshal(body, &partial)
	return &TimeoutError{
		SandboxID: sandboxID,
		Timeout:   timeout,
		Stdout:    partial.Stdout,
		Stderr:    partial.Stderr,
	}
}

func (p *httpProvider) runCode(ctx context.Context, sandboxID, code string, timeout time.Duration) (*models.CodeResult, error) {
	payload, err := json.Marshal(map[string]any{
		"code":       code,
		"language":   "python",
		"timeoutSec": int(timeout.Seconds()),
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout+execGrace)
	defer cancel()

	resp, err := p.do(execCtx, http.MethodPost, "/sandboxes/"+url.PathEscape(sandboxID)+"/code", bytes.NewReader(payload))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{SandboxID: sandboxID, Timeout: timeout}
		}
		return nil, err
	}
	body := readBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{SandboxID: sandboxID}
	}
	if resp.StatusCode == http.StatusRequestTimeout {
		return nil, timeoutFromBody(sandboxID, timeout, body)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var wire struct {
		Stdout  string   `json:"stdout"`
		Stderr  string   `json:"stderr"`
		Error   string   `json:"error"`
		Results []string `json:"results"`
	}
	if err := decodeInto(body, &wire); err != nil {
		return nil, err
	}
	return &models.CodeResult{
		Stdout:  wire.Stdout,
		Stderr:  wire.Stderr,
		Error:   wire.Error,
		Results: wire.Results,
	}, nil
}

func (p *httpProvider) listFiles(ctx context.Context, sandboxID, path string, recursive bool) ([]models.FileInfo, error) {
	query := url.Values{"path": {path}}
	if recursive {
		query.Set("recursive", "true")
	}

	resp, err := p.do(ctx, http.MethodGet, "/sandboxes/"+url.PathEscape(sandboxID)+"/files?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	body := readBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		if code, _ := errorBody(body); code == codePathNotFound {
			return nil, &PathNotFoundError{SandboxID: sandboxID, Path: path}
		}
		return nil, &NotFoundError{SandboxID: sandboxID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapStatusError(resp.StatusCode, body)
	}

	var wires []entryWire
	if err := decodeInto(body, &wires); err != nil {
		return nil, err
	}
	entries := make([]models.FileInfo, len(wires))
	for i := range wires {
		entries[i] = wires[i].toModel()
	}
	return entries, nil
}

func (p *httpProvider) readFile(ctx context.Context, sandboxID, path string) ([]byte, error) {
	query := url.Values{"path": {path}}
	resp, err := p.do(ctx, http.MethodGet, "/sandboxes/"+url.PathEscape(sandboxID)+"/files/content?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	body := readBody(resp)
	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		if code, _ := errorBody(body); code == codePathNotFound {
			return nil, &PathNotFoundError{SandboxID: sandboxID, Path: path}
		}
		return nil, &NotFoundError{SandboxID: sandboxID}
	case http.StatusBadRequest:
		if code, _ := errorBody(body); code == codeIsADirectory {
			return nil, &IsADirectoryError{Path: path}
		}
	}
	return nil, mapStatusError(resp.StatusCode, body)
}

func (p *httpProvider) writeFile(ctx context.Context, sandboxID, path string, content []byte) error {
	query := url.Values{"path": {path}}
	req, err := p.client.NewRequest(ctx, http.MethodPut, "/sandboxes/"+url.PathEscape(sandboxID)+"/files/content?"+query.Encode(), bytes.NewReader(content))
	if err != nil {
		return &ProviderError{Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		return &ProviderError{Err: err}
	}
	body := readBody(resp)
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return &NotFoundError{SandboxID: sandboxID}
	}
	return mapStatusError(resp.StatusCode, body)
}

func (p *httpProvider) killSandbox(ctx context.Context, sandboxID string) (bool, error) {
	resp, err := p.do(ctx, http.MethodDelete, "/sandboxes/"+url.PathEscape(sandboxID), nil)
	if err != nil {
		return false, err
	}
	body := readBody(resp)
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		// Already gone is the false case, not an error.
		return false, nil
	}
	return false, mapStatusError(resp.StatusCode, body)
}
