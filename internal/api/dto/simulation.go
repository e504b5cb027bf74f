package dto

import "dispatch-simulation-service/internal/domain"

// Stream message types sent on a run's event stream.
const (
	StreamStarted   = "started"
	StreamProgress  = "progress"
	StreamCompleted = "completed"
	StreamCancelled = "cancelled"
	StreamError     = "error"
)

type RunStarted struct {
	Type        string `json:"type"`
	SessionID   string `json:"sessionId"`
	ProjectName string `json:"projectName"`
}

type RunSummary struct {
	Duration       int     `json:"duration"`
	Vehicles       int     `json:"vehicles"`
	Demands        int     `json:"demands"`
	Completed      int     `json:"completed"`
	Rejected       int     `json:"rejected"`
	Errors         int     `json:"errors"`
	CompletionRate float64 `json:"completionRate"`
	Utilization    float64 `json:"utilization"`
}

type RunCompleted struct {
	Type        string     `json:"type"`
	Success     bool       `json:"success"`
	ProjectName string     `json:"projectName"`
	RunID       string     `json:"runId"`
	Summary     RunSummary `json:"summary"`
}

type RunEnded struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Exists         bool                   `json:"exists"`
	ActiveSessions []string               `json:"activeSessions"`
	Metadata       *domain.ResultMetadata `json:"metadata,omitempty"`
}

func NewRunSummary(m domain.ResultMetadata) RunSummary {
	return RunSummary{
		Duration:       m.TotalDuration,
		Vehicles:       m.TotalVehicles,
		Demands:        m.TotalDemands,
		Completed:      m.CompletedDemands,
		Rejected:       m.RejectedDemands,
		Errors:         m.ErrorDemands,
		CompletionRate: m.CompletionRate,
		Utilization:    m.VehicleUtilization,
	}
}
