package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dispatch-simulation-service/internal/ports"
)

func writeProject(t *testing.T, root, name string, files map[string]string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for f, body := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

func TestLoadProject(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "seoul", map[string]string{
		"project.json": `{"name":"Seoul pilot","operatingTime":{"start":"09:00","end":"18:00"},"waitTimeLimit":10}`,
		"vehicle_set.csv": "name,lat,lng,capacity,job_type\n" +
			"Alpha,37.5665,126.978,4,call\n" +
			"Bravo, 37.57, 126.99, 2, call;delivery\n",
		"demand_data.csv": "time,lat,lng,address,job_type\n" +
			"09:30,37.56,126.97,\"Jung-gu, Seoul\",call\n" +
			"\n" +
			"09:05:30,37.55,126.98,Yongsan,delivery\n",
		"job_type.csv": "id,job,service_time\n1,call,15\n2,delivery,abc\n",
	})

	repo := NewFileProjectRepository(root, 600)
	p, err := repo.LoadProject(context.Background(), "seoul")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Config.Name != "Seoul pilot" || p.Config.WaitTimeLimit != 10 {
		t.Fatalf("config = %+v", p.Config)
	}

	if len(p.Vehicles) != 2 {
		t.Fatalf("vehicles = %d, want 2", len(p.Vehicles))
	}
	if p.Vehicles[0].ID != "vehicle_001" || p.Vehicles[0].Location[0] != 126.978 || p.Vehicles[0].Location[1] != 37.5665 {
		t.Fatalf("first vehicle = %+v", p.Vehicles[0])
	}
	if got := p.Vehicles[1].JobTypes; len(got) != 2 || got[1] != "delivery" {
		t.Fatalf("second vehicle job types = %v, want [call delivery]", got)
	}
	if p.Vehicles[1].Capacity != 2 {
		t.Fatalf("capacity = %d, want 2", p.Vehicles[1].Capacity)
	}

	if len(p.Demands) != 2 {
		t.Fatalf("demands = %d, want 2", len(p.Demands))
	}
	// Sorted by request time; ids keep file order.
	if p.Demands[0].ID != "demand_002" || p.Demands[0].RequestTime != 9*3600+5*60+30 {
		t.Fatalf("first demand = %s at %d", p.Demands[0].ID, p.Demands[0].RequestTime)
	}
	if p.Demands[1].Address != "Jung-gu, Seoul" {
		t.Fatalf("address = %q", p.Demands[1].Address)
	}

	if got := p.JobTypes.ServiceSeconds("call"); got != 900 {
		t.Fatalf("call service = %d, want 900", got)
	}
	if got := p.JobTypes.ServiceSeconds("delivery"); got != 600 {
		t.Fatalf("delivery service = %d, want default 600", got)
	}
}

func TestLoadProjectWithoutJobTypes(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "p1", map[string]string{
		"project.json":    `{"operatingTime":{"start":"09:00","end":"10:00"},"waitTimeLimit":5}`,
		"vehicle_set.csv": "name,lat,lng,capacity,job_type\nA,1,2,1,call\n",
		"demand_data.csv": "time,lat,lng,address,job_type\n",
	})

	p, err := NewFileProjectRepository(root, 300).LoadProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Config.Name != "p1" {
		t.Fatalf("name = %q, want p1", p.Config.Name)
	}
	if got := p.JobTypes.ServiceSeconds("call"); got != 300 {
		t.Fatalf("service = %d, want 300", got)
	}
}

func TestLoadProjectValidation(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "bad", map[string]string{
		"project.json":    `{"operatingTime":{"start":"09:00","end":"10:00"},"waitTimeLimit":90}`,
		"vehicle_set.csv": "name,lat,lng,capacity,job_type\n",
		"demand_data.csv": "time,lat,lng,address,job_type\n",
	})
	repo := NewFileProjectRepository(root, 600)

	if _, err := repo.LoadProject(context.Background(), "bad"); !errors.Is(err, ports.ErrInvalidProject) {
		t.Fatalf("wait time limit err = %v, want ErrInvalidProject", err)
	}
	if _, err := repo.LoadProject(context.Background(), "../etc"); !errors.Is(err, ports.ErrInvalidProjectName) {
		t.Fatalf("invalid name err = %v, want ErrInvalidProjectName", err)
	}
	if _, err := repo.LoadProject(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("missing project err = %v, want ErrNotFound", err)
	}
}
