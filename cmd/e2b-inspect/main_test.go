package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inspector "github.com/cm2435/e2b-sandbox-inspector"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil-adjacent unknown error", errors.New("boom"), exitFailure},
		{"auth", &inspector.AuthError{}, exitAuth},
		{"sandbox not found", &inspector.NotFoundError{SandboxID: "sb-1"}, exitNotFound},
		{"path not found", &inspector.PathNotFoundError{SandboxID: "sb-1", Path: "/x"}, exitNotFound},
		{"timeout", &inspector.TimeoutError{SandboxID: "sb-1"}, exitTimeout},
		{"confirmation required", &inspector.ConfirmationRequiredError{Action: "kill all sandboxes"}, exitUsage},
		{"invalid range", &inspector.InvalidRangeError{}, exitUsage},
		{"validation", &inspector.ValidationError{Field: "sandbox_id"}, exitUsage},
		{"user aborted", errAborted, exitUsage},
		{"provider", &inspector.ProviderError{StatusCode: 500}, exitFailure},
		{"schema", &inspector.SchemaError{Message: "bad payload"}, exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestParseMetadataFlags(t *testing.T) {
	got, err := parseMetadataFlags([]string{"env=prod", "team=ml"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"env": "prod", "team": "ml"}, got)

	got, err = parseMetadataFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Empty value is legal, empty key is not.
	got, err = parseMetadataFlags([]string{"flag="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"flag": ""}, got)

	_, err = parseMetadataFlags([]string{"no-equals"})
	assert.Error(t, err)

	_, err = parseMetadataFlags([]string{"=value"})
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{3*time.Minute + 12*time.Second, "3m 12s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{0, "0s"},
		{-30 * time.Second, "0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "longer-than...", truncate("longer-than-allowed", 11))
}

func TestPadCell(t *testing.T) {
	assert.Equal(t, "ab   ", padCell("ab", 5))
	assert.Equal(t, "abcdef", padCell("abcdef", 3))
}
