package health

// Status of a single probed dependency.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Overall status of the deployment across all dependencies.
type Overall string

const (
	OverallOK       Overall = "ok"
	OverallDegraded Overall = "degraded"
)

// ServiceStatus is the outcome of probing one dependency. Source and Host
// describe the configured target and are filled in regardless of whether
// the probe succeeded.
type ServiceStatus struct {
	Status Status `json:"status"`
	Source string `json:"source"`
	Host   string `json:"host"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates the database and cache probes. Built fresh per call,
// never persisted.
type Report struct {
	Status   Overall       `json:"status"`
	Database ServiceStatus `json:"database"`
	Redis    ServiceStatus `json:"redis"`
}
