package services

import (
	"dispatch-simulation-service/internal/domain"
	"time"
)

// ResultVersion is written into every assembled result.
const ResultVersion = "1.0"

// AssembleResult folds the final state of a run into its persisted shape.
// It reads out and never modifies it.
func AssembleResult(out *RunOutput, generatedAt time.Time) *domain.SimulationResult {
	s := out.Summary

	res := &domain.SimulationResult{
		Metadata: domain.ResultMetadata{
			ProjectName:        out.Config.ProjectName,
			GeneratedAt:        generatedAt.UTC(),
			Version:            ResultVersion,
			StartTime:          out.Window.StartClock,
			EndTime:            out.Window.EndClock,
			StartSeconds:       out.Window.Start,
			EndSeconds:         out.Window.End,
			TotalDuration:      out.Window.Duration(),
			TotalVehicles:      len(out.Vehicles),
			TotalDemands:       len(out.Demands),
			CompletedDemands:   s.Completed,
			RejectedDemands:    s.Rejected,
			ErrorDemands:       s.Errors,
			PendingDemands:     s.Pending,
			CompletionRate:     s.CompletionRate,
			AverageWaitTime:    s.AverageWaitTime,
			AverageServiceTime: s.AverageServiceTime,
			VehicleUtilization: s.Utilization,
			Cancelled:          out.Cancelled,
		},
		Configuration: domain.ResultConfiguration{
			WaitTimeLimit:  out.Config.WaitTimeLimit,
			OperatingStart: out.Window.StartClock,
			OperatingEnd:   out.Window.EndClock,
		},
		Vehicles: make([]domain.VehicleResult, 0, len(out.Vehicles)),
		Routes:   out.Routes,
		Demands:  out.Demands,
		Events:   out.Events,
	}

	if out.JobTypes != nil {
		res.Configuration.DefaultService = out.JobTypes.DefaultSeconds()
		for _, jt := range out.JobTypes.All() {
			res.Configuration.JobTypes = append(res.Configuration.JobTypes, domain.ResultJobType{
				Name:           jt.Name,
				ServiceSeconds: jt.ServiceSeconds,
			})
		}
	}

	for _, v := range out.Vehicles {
		res.Vehicles = append(res.Vehicles, domain.VehicleResult{
			ID:              v.ID,
			Name:            v.Name,
			JobTypes:        v.JobTypes,
			InitialLocation: v.InitialLocation,
			FinalLocation:   v.Location,
			FinalState:      v.State,
			Statistics:      v.Statistics,
			Timeline:        v.Timeline,
		})
	}

	if res.Routes == nil {
		res.Routes = []*domain.Route{}
	}
	if res.Demands == nil {
		res.Demands = []*domain.Demand{}
	}
	if res.Events == nil {
		res.Events = []domain.Event{}
	}

	return res
}
