package main

import (
	"context"
	"dispatch-simulation-service/internal/app"
	"dispatch-simulation-service/internal/config"
	"dispatch-simulation-service/internal/ports"
	"dispatch-simulation-service/internal/services"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
)

// simulate runs one project from the command line and writes its result.
func main() {
	project := flag.String("project", "", "project directory name under PROJECTS_DIR")
	snapshot := flag.Int("snapshot-interval", -1, "seconds between position snapshots (default SNAPSHOT_INTERVAL_SECONDS)")
	quiet := flag.Bool("quiet", false, "suppress per-minute progress lines")
	flag.Parse()

	if *project == "" {
		fmt.Fprintln(os.Stderr, "--project is required")
		os.Exit(2)
	}

	cfg := config.Load()
	if *snapshot < 0 {
		*snapshot = cfg.SnapshotIntervalSeconds
	}

	// Ctrl-C cancels at the next simulated second.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	sessionID := "cli_" + uuid.NewString()
	var mirror ports.ProgressSink
	if m := a.Mirror(); m != nil {
		mirror = m(*project, sessionID)
	}
	var console ports.ProgressSink
	if !*quiet {
		console = ports.ProgressFunc(func(p ports.Progress) {
			log.Printf("session=%s type=%s time=%s progress=%.1f%% completed=%d rejected=%d pending=%d",
				sessionID, p.Type, p.CurrentTime, p.Progress, p.Completed, p.Rejected, p.Pending)
		})
	}

	res, err := services.RunProject(ctx, services.RunProjectRequest{
		ProjectName:      *project,
		SnapshotInterval: *snapshot,
		Progress:         ports.Fanout(console, mirror),
	}, a.Projects, a.Results, a.Dispatcher)
	if err != nil {
		log.Fatal(err)
	}

	m := res.Metadata
	if m.Cancelled {
		log.Printf("simulation=%s cancelled, result not saved", *project)
		return
	}
	log.Printf("simulation=%s run_id=%s demands=%d completed=%d rejected=%d errors=%d completion=%.1f%% utilization=%.1f%%",
		*project, m.RunID, m.TotalDemands, m.CompletedDemands, m.RejectedDemands, m.ErrorDemands,
		m.CompletionRate*100, m.VehicleUtilization*100)
}
