package inspector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *httpProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)
	return &httpProvider{client: client}
}

func TestListSandboxesDecoding(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sandboxes", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		fmt.Fprint(w, `[
			{
				"sandboxID": "sb-1",
				"templateID": "base",
				"name": "worker",
				"metadata": {"env": "prod"},
				"state": "running",
				"startedAt": "2025-06-01T10:00:00Z",
				"endAt": "2025-06-01T14:00:00Z",
				"cpuCount": 2,
				"memoryMB": 512
			}
		]`)
	})

	sandboxes, err := p.listSandboxes(context.Background())
	require.NoError(t, err)
	require.Len(t, sandboxes, 1)

	s := sandboxes[0]
	assert.Equal(t, "sb-1", s.SandboxID)
	assert.Equal(t, "base", s.TemplateID)
	assert.Equal(t, "worker", s.Name)
	assert.Equal(t, "prod", s.Metadata["env"])
	assert.Equal(t, 2, s.CPUCount)
	assert.Equal(t, 512, s.MemoryMB)
}

func TestListSandboxesMissingRequiredField(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"sandboxID": "sb-1", "startedAt": "2025-06-01T10:00:00Z"}]`)
	})

	_, err := p.listSandboxes(context.Background())
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestGetSandboxNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": "sandbox_not_found", "message": "no such sandbox"}`)
	})

	_, err := p.getSandbox(context.Background(), "sb-gone")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "sb-gone", notFound.SandboxID)
}

func TestAuthErrorMapping(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				fmt.Fprint(w, `{"message": "invalid API key"}`)
			})

			_, err := p.listSandboxes(context.Background())
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Contains(t, authErr.Error(), "invalid API key")
		})
	}
}

func TestServerErrorMapping(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "upstream exploded"}`)
	})

	_, err := p.listSandboxes(context.Background())
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusInternalServerError, provErr.StatusCode)
}

func TestGetMetricsConversion(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		// Out of order on purpose; sizes in bytes.
		fmt.Fprint(w, `[
			{"ts": 1748779200, "cpu_count": 2, "cpu_used_pct": 55.5,
			 "mem_total": 536870912, "mem_used": 134217728,
			 "disk_total": 1073741824, "disk_used": 268435456},
			{"ts": 1748779100, "cpu_count": 2, "cpu_used_pct": 40.0,
			 "mem_total": 536870912, "mem_used": 104857600,
			 "disk_total": 1073741824, "disk_used": 268435456}
		]`)
	})

	metrics, err := p.getMetrics(context.Background(), "sb-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	// Sorted ascending regardless of provider order.
	assert.True(t, metrics[0].Timestamp.Before(metrics[1].Timestamp))

	latest := metrics[1]
	assert.Equal(t, 55.5, latest.CPUPct)
	assert.Equal(t, 512, latest.MemTotalMB)
	assert.Equal(t, 128, latest.MemUsedMB)
	assert.Equal(t, 1024, latest.DiskTotalMB)
	assert.Equal(t, 256, latest.DiskUsedMB)
	assert.Equal(t, time.Unix(1748779200, 0).UTC(), latest.Timestamp)
}

func TestGetMetricsRangeQuery(t *testing.T) {
	var gotStart, gotEnd string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		fmt.Fprint(w, `[]`)
	})

	start := time.Unix(1748775600, 0)
	end := time.Unix(1748779200, 0)
	_, err := p.getMetrics(context.Background(), "sb-1", &start, &end)
	require.NoError(t, err)
	assert.Equal(t, "1748775600", gotStart)
	assert.Equal(t, "1748779200", gotEnd)
}

func TestRunCommand(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"command":"ls /tmp"`)
		assert.Contains(t, string(body), `"timeoutSec":30`)
		fmt.Fprint(w, `{"stdout": "a.txt\n", "stderr": "", "exitCode": 0}`)
	})

	result, err := p.runCommand(context.Background(), "sb-1", "ls /tmp", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "a.txt\n", result.Stdout)
	assert.True(t, result.Success())
}

func TestRunCommandNonZeroExit(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stdout": "", "stderr": "no such file", "exitCode": 2}`)
	})

	result, err := p.runCommand(context.Background(), "sb-1", "cat /missing", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ExitCode)
	assert.False(t, result.Success())
}

func TestRunCommandTimeoutPartialOutput(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestTimeout)
		fmt.Fprint(w, `{"stdout": "tick\ntick\n", "stderr": ""}`)
	})

	_, err := p.runCommand(context.Background(), "sb-1", "sleep 100", 5*time.Second)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "sb-1", timeoutErr.SandboxID)
	assert.Equal(t, 5*time.Second, timeoutErr.Timeout)
	assert.Equal(t, "tick\ntick\n", timeoutErr.Stdout)
}

func TestRunCode(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"language":"python"`)
		fmt.Fprint(w, `{"stdout": "", "stderr": "", "error": "", "results": ["4"]}`)
	})

	result, err := p.runCode(context.Background(), "sb-1", "2 + 2", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, []string{"4"}, result.Results)
}

func TestRunCodeRuntimeError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"stdout": "", "stderr": "", "error": "ZeroDivisionError: division by zero"}`)
	})

	result, err := p.runCode(context.Background(), "sb-1", "1/0", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Contains(t, result.Error, "ZeroDivisionError")
}

func TestListFilesPathNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": "path_not_found", "message": "no such path"}`)
	})

	_, err := p.listFiles(context.Background(), "sb-1", "/missing", false)
	var pathErr *PathNotFoundError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "/missing", pathErr.Path)
}

func TestListFilesSandboxNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": "sandbox_not_found", "message": "no such sandbox"}`)
	})

	_, err := p.listFiles(context.Background(), "sb-gone", "/", false)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListFilesDirectorySizes(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "logs", "path": "/app/logs", "type": "dir", "size": 4096},
			{"name": "app.py", "path": "/app/app.py", "type": "file", "size": 2048}
		]`)
	})

	entries, err := p.listFiles(context.Background(), "sb-1", "/app", false)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.True(t, entries[0].IsDir)
	// Directories report size 0 whatever the provider claims.
	assert.Zero(t, entries[0].SizeBytes)
	assert.False(t, entries[1].IsDir)
	assert.Equal(t, int64(2048), entries[1].SizeBytes)
}

func TestReadFile(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/etc/hosts", r.URL.Query().Get("path"))
		fmt.Fprint(w, "127.0.0.1 localhost\n")
	})

	content, err := p.readFile(context.Background(), "sb-1", "/etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n", string(content))
}

func TestReadFileIsADirectory(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code": "is_a_directory", "message": "cannot read a directory"}`)
	})

	_, err := p.readFile(context.Background(), "sb-1", "/etc")
	var dirErr *IsADirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "/etc", dirErr.Path)
}

func TestWriteFile(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	})

	err := p.writeFile(context.Background(), "sb-1", "/tmp/data.bin", []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", gotContentType)
	assert.Equal(t, []byte{0x01, 0x02}, gotBody)
}

func TestKillSandbox(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	killed, err := p.killSandbox(context.Background(), "sb-1")
	require.NoError(t, err)
	assert.True(t, killed)
}

func TestKillSandboxAlreadyGone(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": "sandbox_not_found"}`)
	})

	killed, err := p.killSandbox(context.Background(), "sb-gone")
	require.NoError(t, err)
	assert.False(t, killed)
}

func TestMalformedResponse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})

	_, err := p.listSandboxes(context.Background())
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
