// Package models provides the value objects returned by sandbox inspection
// operations. Every type is an immutable snapshot constructed from a provider
// response; derived quantities that depend on the current time take an
// explicit instant so callers (and tests) control the clock.
package models

import "time"

// SandboxState is the lifecycle state of a sandbox.
type SandboxState string

// Sandbox states reported by the provider.
const (
	StateRunning SandboxState = "running"
	StatePaused  SandboxState = "paused"
)

// SandboxInfo describes a single sandbox instance.
type SandboxInfo struct {
	SandboxID  string            `json:"sandbox_id"`
	TemplateID string            `json:"template_id"`
	Name       string            `json:"name,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	State      SandboxState      `json:"state"`
	StartedAt  time.Time         `json:"started_at"`
	EndAt      time.Time         `json:"end_at"`
	CPUCount   int               `json:"cpu_count"`
	MemoryMB   int               `json:"memory_mb"`
}

// Uptime returns how long the sandbox has been alive at the given instant.
func (s *SandboxInfo) Uptime(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// TimeRemaining returns how long until the sandbox reaches its scheduled
// expiry at the given instant. An already-expired sandbox reports zero,
// never a negative duration.
func (s *SandboxInfo) TimeRemaining(now time.Time) time.Duration {
	remaining := s.EndAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MatchesMetadata reports whether every key/value pair in filter is present
// in the sandbox metadata. An empty filter matches everything.
func (s *SandboxInfo) MatchesMetadata(filter map[string]string) bool {
	for k, v := range filter {
		if s.Metadata[k] != v {
			return false
		}
	}
	return true
}

// Summary is an aggregate view over the whole sandbox population at one
// observation instant.
type Summary struct {
	RunningCount  int `json:"running_count"`
	PausedCount   int `json:"paused_count"`
	TotalCount    int `json:"total_count"`
	TotalCPU      int `json:"total_cpu"`
	TotalMemoryMB int `json:"total_memory_mb"`

	// Oldest/newest by StartedAt. All four fields are nil when no
	// sandboxes exist; that is a valid Summary, not an error.
	OldestSandboxID *string        `json:"oldest_sandbox_id"`
	OldestUptime    *time.Duration `json:"oldest_uptime"`
	NewestSandboxID *string        `json:"newest_sandbox_id"`
	NewestUptime    *time.Duration `json:"newest_uptime"`
}

// BuildSummary aggregates the given sandboxes as observed at now.
func BuildSummary(sandboxes []SandboxInfo, now time.Time) Summary {
	sum := Summary{TotalCount: len(sandboxes)}
	for _, s := range sandboxes {
		switch s.State {
		case StateRunning:
			sum.RunningCount++
		case StatePaused:
			sum.PausedCount++
		}
		sum.TotalCPU += s.CPUCount
		sum.TotalMemoryMB += s.MemoryMB
	}

	if len(sandboxes) == 0 {
		return sum
	}

	oldest, newest := &sandboxes[0], &sandboxes[0]
	for i := range sandboxes[1:] {
		s := &sandboxes[i+1]
		if s.StartedAt.Before(oldest.StartedAt) {
			oldest = s
		}
		if s.StartedAt.After(newest.StartedAt) {
			newest = s
		}
	}

	oldestID, newestID := oldest.SandboxID, newest.SandboxID
	oldestUp, newestUp := oldest.Uptime(now), newest.Uptime(now)
	sum.OldestSandboxID = &oldestID
	sum.OldestUptime = &oldestUp
	sum.NewestSandboxID = &newestID
	sum.NewestUptime = &newestUp
	return sum
}
