package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// ResultMetadata summarises a finished (or cancelled) run.
type ResultMetadata struct {
	RunID              string    `json:"runId,omitempty"`
	ProjectName        string    `json:"projectName"`
	GeneratedAt        time.Time `json:"generatedAt"`
	Version            string    `json:"version"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	StartSeconds       int       `json:"startSeconds"`
	EndSeconds         int       `json:"endSeconds"`
	TotalDuration      int       `json:"totalDuration"`
	TotalVehicles      int       `json:"totalVehicles"`
	TotalDemands       int       `json:"totalDemands"`
	CompletedDemands   int       `json:"completedDemands"`
	RejectedDemands    int       `json:"rejectedDemands"`
	ErrorDemands       int       `json:"errorDemands"`
	PendingDemands     int       `json:"pendingDemands"`
	CompletionRate     float64   `json:"completionRate"`
	AverageWaitTime    float64   `json:"averageWaitTime"`
	AverageServiceTime float64   `json:"averageServiceTime"`
	VehicleUtilization float64   `json:"vehicleUtilization"`
	Cancelled          bool      `json:"cancelled"`
}

type ResultJobType struct {
	Name           string `json:"job"`
	ServiceSeconds int    `json:"serviceTime"`
}

// ResultConfiguration echoes the inputs a run was produced from.
type ResultConfiguration struct {
	WaitTimeLimit  int             `json:"waitTimeLimit"`
	OperatingStart string          `json:"operatingStart"`
	OperatingEnd   string          `json:"operatingEnd"`
	DefaultService int             `json:"defaultServiceTime"`
	JobTypes       []ResultJobType `json:"jobTypes"`
}

type VehicleResult struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	JobTypes        []string          `json:"job_types"`
	InitialLocation orb.Point         `json:"initialLocation"`
	FinalLocation   orb.Point         `json:"finalLocation"`
	FinalState      VehicleState      `json:"finalState"`
	Statistics      VehicleStatistics `json:"statistics"`
	Timeline        []TimelineEntry   `json:"timeline"`
}

// SimulationResult is the persisted outcome of a run.
type SimulationResult struct {
	Metadata      ResultMetadata      `json:"metadata"`
	Configuration ResultConfiguration `json:"configuration"`
	Vehicles      []VehicleResult     `json:"vehicles"`
	Routes        []*Route            `json:"routes"`
	Demands       []*Demand           `json:"demands"`
	Events        []Event             `json:"events"`
}
