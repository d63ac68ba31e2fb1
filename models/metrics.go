package models

import (
	"math"
	"time"
)

// SandboxMetrics is a point-in-time resource snapshot for one sandbox.
// A historical query yields a slice of these ordered by Timestamp ascending.
type SandboxMetrics struct {
	CPUCount int `json:"cpu_count"`

	// CPUPct is reported by the provider and may exceed 100 due to
	// provider-side rounding; it is passed through unclamped.
	CPUPct float64 `json:"cpu_pct"`

	MemTotalMB  int       `json:"mem_total_mb"`
	MemUsedMB   int       `json:"mem_used_mb"`
	DiskTotalMB int       `json:"disk_total_mb"`
	DiskUsedMB  int       `json:"disk_used_mb"`
	Timestamp   time.Time `json:"timestamp"`
}

// MemPct returns memory usage as a percentage, rounded to one decimal place.
// A zero MemTotalMB yields 0 rather than an error.
func (m *SandboxMetrics) MemPct() float64 {
	return usagePct(m.MemUsedMB, m.MemTotalMB)
}

// DiskPct returns disk usage as a percentage, rounded to one decimal place.
// A zero DiskTotalMB yields 0 rather than an error.
func (m *SandboxMetrics) DiskPct() float64 {
	return usagePct(m.DiskUsedMB, m.DiskTotalMB)
}

func usagePct(used, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(used)/float64(total)*100*10) / 10
}
