package domain

import "time"

// Run status values for provider run telemetry.
const (
	RunIdle    = "idle"
	RunRunning = "running"
	RunSuccess = "success"
	RunFailed  = "failed"
)

// ProviderRun is the per-provider telemetry row, overwritten at run start and
// run end. One row per provider.
type ProviderRun struct {
	Provider      string     `json:"provider"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	Status        string     `json:"status"`
	Error         string     `json:"error,omitempty"`
}
