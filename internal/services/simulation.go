package services

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/jobtype"
	"dispatch-simulation-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned for configuration problems detected before
// the loop starts.
var ErrInvalidConfig = errors.New("invalid simulation config")

const (
	// DefaultSnapshotInterval is the travel time between position snapshots.
	DefaultSnapshotInterval = 60

	progressEvery = 60
	logEvery      = 600
)

var validate = validator.New()

type EngineConfig struct {
	ProjectName      string
	StartTime        string `validate:"required"`
	EndTime          string `validate:"required"`
	WaitTimeLimit    int    `validate:"gt=0,lte=60"`
	SnapshotInterval int    `validate:"gte=0"`
}

// Summary is computed once when the loop ends.
type Summary struct {
	Completed          int
	Rejected           int
	Errors             int
	Pending            int
	InProgress         int
	CompletionRate     float64
	AverageWaitTime    float64
	AverageServiceTime float64
	Utilization        float64
}

// RunOutput is the final state of a run, handed to AssembleResult.
type RunOutput struct {
	Config    EngineConfig
	Window    Window
	Vehicles  []*domain.Vehicle
	Demands   []*domain.Demand
	Routes    []*domain.Route
	Events    []domain.Event
	JobTypes  *jobtype.Catalog
	Summary   Summary
	Cancelled bool
	EndedAt   int
}

// Engine runs one simulation from window start to window end, one simulated
// second per tick. An Engine is single-use and not safe for concurrent use.
type Engine struct {
	// Optional collaborators. Nil values are ignored.
	Progress  ports.ProgressSink
	Cancelled ports.CancellationCheck
	Logger    *log.Logger

	cfg        EngineConfig
	window     Window
	fleet      *domain.Fleet
	demands    []*domain.Demand
	byID       map[string]*domain.Demand
	jobTypes   *jobtype.Catalog
	dispatcher *Dispatcher

	events    []domain.Event
	routes    []*domain.Route
	routeSeq  int
	completed int
	rejected  int
	errored   int
	ran       bool
}

// NewEngine validates cfg and prepares the roster and demand list. Demands
// are stably sorted by request time; in a window that spans midnight, demands
// timestamped before the window start are moved to the next day first.
func NewEngine(
	cfg EngineConfig,
	vehicles []*domain.Vehicle,
	demands []*domain.Demand,
	jobTypes *jobtype.Catalog,
	dispatcher *Dispatcher,
) (*Engine, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("new engine: %w: %w", ErrInvalidConfig, err)
	}

	window, err := ParseWindow(cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w: %w", ErrInvalidConfig, err)
	}

	if dispatcher == nil || dispatcher.Isochrones == nil || dispatcher.Routes == nil {
		return nil, fmt.Errorf("new engine: %w: dispatcher needs isochrone and route providers", ErrInvalidConfig)
	}
	if jobTypes == nil {
		jobTypes = jobtype.NewCatalog(jobtype.DefaultServiceMinutes * 60)
	}

	fleet, err := domain.NewFleet(vehicles)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w: %w", ErrInvalidConfig, err)
	}

	sorted := make([]*domain.Demand, 0, len(demands))
	byID := make(map[string]*domain.Demand, len(demands))
	for i, d := range demands {
		if d == nil || d.ID == "" {
			return nil, fmt.Errorf("new engine: %w: demand at index %d has no id", ErrInvalidConfig, i)
		}
		if _, ok := byID[d.ID]; ok {
			return nil, fmt.Errorf("new engine: %w: duplicate demand id %q", ErrInvalidConfig, d.ID)
		}
		if window.Wraps() && d.RequestTime < window.Start {
			d.RequestTime += secondsPerDay
			d.Timeline.Requested = d.RequestTime
		}
		byID[d.ID] = d
		sorted = append(sorted, d)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RequestTime < sorted[j].RequestTime
	})

	return &Engine{
		cfg:        cfg,
		window:     window,
		fleet:      fleet,
		demands:    sorted,
		byID:       byID,
		jobTypes:   jobTypes,
		dispatcher: dispatcher,
	}, nil
}

func (e *Engine) Window() Window { return e.window }

func (e *Engine) Fleet() *domain.Fleet { return e.fleet }

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

func (e *Engine) record(now int, typ string, data map[string]any) {
	e.events = append(e.events, domain.Event{Timestamp: now, Type: typ, Data: data})
}

func (e *Engine) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return e.Cancelled != nil && e.Cancelled()
}

// Run executes the loop. Cancellation, through ctx or the Cancelled check,
// is observed at tick boundaries and is not an error: the partial state is
// returned with Cancelled set.
func (e *Engine) Run(ctx context.Context) (*RunOutput, error) {
	if e.ran {
		return nil, errors.New("run simulation: engine already used")
	}
	e.ran = true

	start, end := e.window.Start, e.window.End
	logger := e.logger()
	logger.Printf("simulation=%s op=start window=%s-%s vehicles=%d demands=%d",
		e.cfg.ProjectName, e.window.StartClock, e.window.EndClock, e.fleet.Len(), len(e.demands))

	e.record(start, domain.EventSimulationStart, map[string]any{
		"vehicles": e.fleet.Len(),
		"demands":  len(e.demands),
	})
	e.fleet.Start(start)
	e.publish(ports.ProgressStarted, start, "Simulation started")

	next := 0
	for next < len(e.demands) && e.demands[next].RequestTime < start {
		next++
	}
	if next > 0 {
		logger.Printf("simulation=%s op=skip_demands count=%d reason=before_window", e.cfg.ProjectName, next)
	}

	now := start
	cancelled := false
	for now <= end {
		if e.cancelled(ctx) {
			cancelled = true
			break
		}

		for next < len(e.demands) && e.demands[next].RequestTime == now {
			e.processDemand(ctx, e.demands[next], now)
			next++
		}

		for _, v := range e.fleet.Vehicles() {
			e.fleet.RefreshPosition(v, now, e.cfg.SnapshotInterval)
		}

		e.advanceVehicles(now)

		if (now-start)%progressEvery == 0 && now != start {
			e.publish(ports.ProgressUpdate, now, "")
		}
		if (now-start)%logEvery == 0 && now != start {
			logger.Printf("simulation=%s time=%s progress=%.1f%%", e.cfg.ProjectName, domain.FormatClock(now), e.percent(now))
		}

		now++
	}

	endedAt := now
	if endedAt > end {
		endedAt = end
	}
	summary := e.summarize()

	if cancelled {
		e.record(endedAt, domain.EventSimulationCancelled, map[string]any{
			"completedDemands": summary.Completed,
			"rejectedDemands":  summary.Rejected,
		})
		e.publish(ports.ProgressCancelled, endedAt, "Simulation cancelled")
		logger.Printf("simulation=%s op=cancelled time=%s", e.cfg.ProjectName, domain.FormatClock(endedAt))
	} else {
		e.record(endedAt, domain.EventSimulationEnd, map[string]any{
			"completedDemands": summary.Completed,
			"rejectedDemands":  summary.Rejected,
			"totalVehicleJobs": summary.Completed,
		})
		e.publish(ports.ProgressCompleted, endedAt, "Simulation completed")
		logger.Printf("simulation=%s op=end completed=%d rejected=%d errors=%d utilization=%.3f",
			e.cfg.ProjectName, summary.Completed, summary.Rejected, summary.Errors, summary.Utilization)
	}

	return &RunOutput{
		Config:    e.cfg,
		Window:    e.window,
		Vehicles:  e.fleet.Vehicles(),
		Demands:   e.demands,
		Routes:    e.routes,
		Events:    e.events,
		JobTypes:  e.jobTypes,
		Summary:   summary,
		Cancelled: cancelled,
		EndedAt:   endedAt,
	}, nil
}

func (e *Engine) processDemand(ctx context.Context, d *domain.Demand, now int) {
	e.record(now, domain.EventDemandOccurred, map[string]any{
		"demandId": d.ID,
		"jobType":  d.JobType,
		"location": d.Location,
	})

	a, err := e.dispatcher.TryDispatch(ctx, d, e.fleet, e.cfg.WaitTimeLimit, now)
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			d.MarkRejected(rej.Reason)
			e.rejected++
			e.record(now, domain.EventDemandRejected, map[string]any{
				"demandId": d.ID,
				"stage":    rej.Stage,
				"reason":   rej.Reason,
			})
			return
		}
		if ctx.Err() != nil {
			// Cancelled mid-call: the demand stays pending and the next
			// tick ends the run.
			e.logger().Printf("simulation=%s op=dispatch demand=%s cancelled=true", e.cfg.ProjectName, d.ID)
			return
		}
		e.fail(d, now, err)
		return
	}

	e.routeSeq++
	route := buildRoute(fmt.Sprintf("route_%03d", e.routeSeq), a, d, now)

	if err := e.fleet.Dispatch(a.Vehicle.ID, d.ID, route, d.Location, now); err != nil {
		e.fail(d, now, err)
		return
	}
	info := a.Info
	if err := d.MarkDispatched(a.Vehicle.ID, route.ID, now, &info); err != nil {
		e.fail(d, now, err)
		return
	}
	e.routes = append(e.routes, route)

	e.record(now, domain.EventVehicleDispatched, map[string]any{
		"demandId":         d.ID,
		"vehicleId":        a.Vehicle.ID,
		"routeId":          route.ID,
		"distance":         a.DistanceKm,
		"routeDistance":    route.Distance,
		"duration":         route.Duration,
		"estimatedArrival": route.EndTime,
	})
}

func (e *Engine) fail(d *domain.Demand, now int, err error) {
	d.MarkError(err)
	e.rejected++
	e.errored++
	e.record(now, domain.EventDemandError, map[string]any{
		"demandId": d.ID,
		"error":    err.Error(),
	})
	e.logger().Printf("simulation=%s op=dispatch demand=%s err=%v", e.cfg.ProjectName, d.ID, err)
}

// advanceVehicles applies arrivals and completions due at now. A vehicle
// can arrive and complete on the same tick when its service time is zero.
func (e *Engine) advanceVehicles(now int) {
	for _, v := range e.fleet.Vehicles() {
		if v.State == domain.VehicleMoving && v.Route != nil && v.ETA != nil && *v.ETA == now {
			d := e.byID[v.AssignedDemandID]
			service := e.jobTypes.ServiceSeconds(d.JobType)

			if err := e.fleet.Arrive(v.ID, now, service); err != nil {
				e.logger().Printf("simulation=%s op=arrive vehicle=%s err=%v", e.cfg.ProjectName, v.ID, err)
				continue
			}
			if err := d.MarkArrived(now, service); err != nil {
				e.logger().Printf("simulation=%s op=arrive demand=%s err=%v", e.cfg.ProjectName, d.ID, err)
			}

			e.record(now, domain.EventVehicleArrived, map[string]any{
				"vehicleId": v.ID,
				"demandId":  d.ID,
				"location":  v.Location,
			})
			e.record(now, domain.EventWorkStarted, map[string]any{
				"vehicleId":   v.ID,
				"demandId":    d.ID,
				"serviceTime": service,
			})
		}

		if v.State == domain.VehicleWorking && v.ServiceEnd != nil && *v.ServiceEnd == now {
			demandID, err := e.fleet.Complete(v.ID, now)
			if err != nil {
				e.logger().Printf("simulation=%s op=complete vehicle=%s err=%v", e.cfg.ProjectName, v.ID, err)
				continue
			}
			if d := e.byID[demandID]; d != nil {
				if err := d.MarkCompleted(now); err != nil {
					e.logger().Printf("simulation=%s op=complete demand=%s err=%v", e.cfg.ProjectName, d.ID, err)
				}
			}
			e.completed++

			e.record(now, domain.EventWorkCompleted, map[string]any{
				"vehicleId": v.ID,
				"demandId":  demandID,
			})
		}
	}
}

func (e *Engine) percent(now int) float64 {
	d := e.window.Duration()
	if d <= 0 {
		return 100
	}
	return float64(now-e.window.Start) / float64(d) * 100
}

func (e *Engine) publish(typ string, now int, msg string) {
	if e.Progress == nil {
		return
	}

	pct := e.percent(now)
	if typ == ports.ProgressCompleted {
		pct = 100
	}
	if msg == "" {
		msg = fmt.Sprintf("Processing: %s (%.1f%%)", domain.FormatClock(now), pct)
	}

	pending := len(e.demands) - e.completed - e.rejected
	if pending < 0 {
		pending = 0
	}

	e.Progress.Publish(ports.Progress{
		Type:        typ,
		Progress:    pct,
		CurrentTime: domain.FormatClock(now),
		Message:     msg,
		Completed:   e.completed,
		Rejected:    e.rejected,
		Pending:     pending,
	})
}

// summarize computes the final counts and averages. Rejected includes
// demands that failed on a provider error.
func (e *Engine) summarize() Summary {
	s := Summary{
		Completed: e.completed,
		Rejected:  e.rejected,
		Errors:    e.errored,
	}

	waitSum, serviceSum, n := 0, 0, 0
	for _, d := range e.demands {
		switch d.Status {
		case domain.DemandPending:
			s.Pending++
		case domain.DemandAssigned:
			s.InProgress++
		case domain.DemandCompleted:
			if d.Metrics.WaitTime != nil && d.Metrics.ServiceTime != nil {
				waitSum += *d.Metrics.WaitTime
				serviceSum += *d.Metrics.ServiceTime
				n++
			}
		}
	}
	if n > 0 {
		s.AverageWaitTime = float64(waitSum) / float64(n)
		s.AverageServiceTime = float64(serviceSum) / float64(n)
	}
	if len(e.demands) > 0 {
		s.CompletionRate = float64(s.Completed) / float64(len(e.demands))
	}

	duration := e.window.Duration()
	busy := 0
	for _, v := range e.fleet.Vehicles() {
		active := v.Statistics.MovingTime + v.Statistics.WorkingTime
		busy += active
		v.Statistics.IdleTime = max(duration-active, 0)
	}
	if capacity := duration * e.fleet.Len(); capacity > 0 {
		s.Utilization = float64(busy) / float64(capacity)
	}

	return s
}

// buildRoute turns a provider route into a domain route starting at now.
// A provider response without segments but with a geometry is treated as a
// single segment.
func buildRoute(id string, a *Assignment, d *domain.Demand, now int) *domain.Route {
	r := a.Route
	route := &domain.Route{
		ID:            id,
		VehicleID:     a.Vehicle.ID,
		DemandID:      d.ID,
		Type:          domain.RouteTypeToDemand,
		StartTime:     now,
		EndTime:       now + r.DurationSeconds,
		Duration:      r.DurationSeconds,
		Distance:      r.DistanceMeters,
		StartLocation: a.Vehicle.Location,
		EndLocation:   d.Location,
	}

	segs := r.Segments
	if len(segs) == 0 && len(r.Geometry) > 0 {
		segs = []ports.RouteSegment{{
			DurationSeconds: float64(r.DurationSeconds),
			DistanceMeters:  r.DistanceMeters,
			Polyline:        r.Geometry,
		}}
	}

	t := float64(now)
	route.Segments = make([]domain.Segment, 0, len(segs))
	for i, s := range segs {
		route.Segments = append(route.Segments, domain.Segment{
			Index:     i,
			Name:      s.Name,
			StartTime: t,
			EndTime:   t + s.DurationSeconds,
			Duration:  s.DurationSeconds,
			Distance:  s.DistanceMeters,
			Polyline:  s.Polyline,
		})
		t += s.DurationSeconds
	}

	return route
}
