package handlers

import (
	"dispatch-simulation-service/internal/api/dto"
	"dispatch-simulation-service/internal/platform/obs"
	"dispatch-simulation-service/internal/ports"
	"dispatch-simulation-service/internal/services"
	"errors"
	"log"
	"net/http"
	"strings"
)

type SimulationHandler struct {
	Projects         ports.ProjectRepository
	Results          ports.ResultRepository
	Dispatcher       *services.Dispatcher
	Sessions         *Sessions
	SnapshotInterval int

	// Mirror, when set, receives every progress update of a session in
	// addition to the event stream.
	Mirror func(project, sessionID string) ports.ProgressSink
}

func projectParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	project := strings.TrimSpace(r.PathValue("project"))
	if !ports.ValidProjectName(project) {
		writeError(w, r, http.StatusBadRequest, "invalid project name")
		return "", false
	}
	return project, true
}

// Run loads a project and streams the simulation as server-sent events:
// one started message, progress updates, then completed, cancelled or error.
// Load and configuration problems are reported as plain JSON errors before
// the stream opens.
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	project, ok := projectParam(w, r)
	if !ok {
		return
	}

	engine, err := services.PrepareProject(r.Context(), h.Projects, project, h.SnapshotInterval, h.Dispatcher)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "project not found")
		case errors.Is(err, ports.ErrInvalidProject), errors.Is(err, services.ErrInvalidConfig):
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("prepare simulation failed: project=%s err=%v", project, err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	sess := h.Sessions.start(project)
	defer h.Sessions.finish(sess.id)
	ctx := obs.WithSessionID(r.Context(), sess.id)

	stream := startEventStream(w, r)
	stream.send(dto.RunStarted{Type: dto.StreamStarted, SessionID: sess.id, ProjectName: project})

	sinks := []ports.ProgressSink{ports.ProgressFunc(func(p ports.Progress) {
		if p.Type == ports.ProgressUpdate {
			stream.send(p)
		}
	})}
	if h.Mirror != nil {
		sinks = append(sinks, h.Mirror(project, sess.id))
	}
	engine.Progress = ports.Fanout(sinks...)
	engine.Cancelled = sess.cancelled.Load

	log.Printf("simulation=%s session=%s op=run", project, sess.id)

	out, err := engine.Run(ctx)
	if err != nil {
		log.Printf("simulation failed: project=%s session=%s err=%v", project, sess.id, err)
		stream.send(dto.RunEnded{Type: dto.StreamError, Error: err.Error()})
		return
	}
	if out.Cancelled {
		stream.send(dto.RunEnded{Type: dto.StreamCancelled, Message: "Simulation cancelled by user"})
		return
	}

	res, err := services.SaveRun(ctx, h.Results, out)
	if err != nil {
		log.Printf("save simulation failed: project=%s session=%s err=%v", project, sess.id, err)
		stream.send(dto.RunEnded{Type: dto.StreamError, Error: "failed to save simulation result"})
		return
	}

	stream.send(dto.RunCompleted{
		Type:        dto.StreamCompleted,
		Success:     true,
		ProjectName: project,
		RunID:       res.Metadata.RunID,
		Summary:     dto.NewRunSummary(res.Metadata),
	})
}

func (h *SimulationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("session"))
	if !h.Sessions.Cancel(id) {
		writeError(w, r, http.StatusNotFound, "simulation session not found")
		return
	}

	log.Printf("session=%s op=cancel", id)
	writeJSON(w, r, http.StatusOK, dto.CancelResponse{Success: true, Message: "Cancellation requested"})
}

func (h *SimulationHandler) Result(w http.ResponseWriter, r *http.Request) {
	project, ok := projectParam(w, r)
	if !ok {
		return
	}

	res, err := h.Results.LoadResult(r.Context(), project)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "simulation result not found, run simulation first")
			return
		}
		log.Printf("load result failed: project=%s err=%v", project, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SimulationHandler) Status(w http.ResponseWriter, r *http.Request) {
	project, ok := projectParam(w, r)
	if !ok {
		return
	}

	res := dto.StatusResponse{ActiveSessions: h.Sessions.ForProject(project)}

	stored, err := h.Results.LoadResult(r.Context(), project)
	switch {
	case err == nil:
		res.Exists = true
		res.Metadata = &stored.Metadata
	case !errors.Is(err, ports.ErrNotFound):
		log.Printf("load result failed: project=%s err=%v", project, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}
