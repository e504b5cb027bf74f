package repositories

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/jobtype"
	"dispatch-simulation-service/internal/ports"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"
)

const (
	projectFile  = "project.json"
	vehicleFile  = "vehicle_set.csv"
	demandFile   = "demand_data.csv"
	jobTypeFile  = "job_type.csv"
	jobTypeSplit = ";"
)

// FileProjectRepository loads projects from <Root>/<name>/.
type FileProjectRepository struct {
	Root                  string
	DefaultServiceSeconds int

	validate *validator.Validate
}

func NewFileProjectRepository(root string, defaultServiceSeconds int) *FileProjectRepository {
	return &FileProjectRepository{
		Root:                  root,
		DefaultServiceSeconds: defaultServiceSeconds,
		validate:              validator.New(),
	}
}

func (r *FileProjectRepository) dir(name string) (string, error) {
	if !ports.ValidProjectName(name) {
		return "", fmt.Errorf("project %q: %w", name, ports.ErrInvalidProjectName)
	}
	return filepath.Join(r.Root, name), nil
}

// LoadProject reads project.json, vehicle_set.csv, demand_data.csv and the
// optional job_type.csv. Demands are returned sorted by request time.
func (r *FileProjectRepository) LoadProject(ctx context.Context, name string) (*ports.Project, error) {
	dir, err := r.dir(name)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load project %q: %w", name, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("load project %q: %w", name, err)
	}

	cfg, err := r.loadConfig(filepath.Join(dir, projectFile))
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w: %w", name, ports.ErrInvalidProject, err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}

	vehicles, err := loadVehicles(filepath.Join(dir, vehicleFile))
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w: %w", name, ports.ErrInvalidProject, err)
	}

	demands, err := loadDemands(filepath.Join(dir, demandFile))
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w: %w", name, ports.ErrInvalidProject, err)
	}

	catalog := loadJobTypes(filepath.Join(dir, jobTypeFile), r.DefaultServiceSeconds)

	return &ports.Project{
		Name:     name,
		Config:   cfg,
		Vehicles: vehicles,
		Demands:  demands,
		JobTypes: catalog,
	}, nil
}

func (r *FileProjectRepository) loadConfig(path string) (ports.ProjectConfig, error) {
	var cfg ports.ProjectConfig

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", projectFile, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", projectFile, err)
	}

	v := r.validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate %s: %w", projectFile, err)
	}
	if _, err := domain.ParseClock(cfg.OperatingTime.Start); err != nil {
		return cfg, fmt.Errorf("validate %s: operatingTime.start: %w", projectFile, err)
	}
	if _, err := domain.ParseClock(cfg.OperatingTime.End); err != nil {
		return cfg, fmt.Errorf("validate %s: operatingTime.end: %w", projectFile, err)
	}

	return cfg, nil
}

// readRows returns the header and data rows of a CSV file. Blank lines are
// skipped and every field is trimmed.
func readRows(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var header []string
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func parseLatLng(lat, lng string) (orb.Point, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("lat %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("lng %q: %w", lng, err)
	}
	return domain.Coord(ln, la), nil
}

// vehicle_set.csv: name,lat,lng,capacity,job_type
func loadVehicles(path string) ([]*domain.Vehicle, error) {
	_, rows, err := readRows(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", vehicleFile, err)
	}

	vehicles := make([]*domain.Vehicle, 0, len(rows))
	for i, rec := range rows {
		loc, err := parseLatLng(field(rec, 1), field(rec, 2))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", vehicleFile, i+2, err)
		}

		var jobTypes []string
		for _, jt := range strings.Split(field(rec, 4), jobTypeSplit) {
			if jt = strings.TrimSpace(jt); jt != "" {
				jobTypes = append(jobTypes, jt)
			}
		}

		v := domain.NewVehicle(fmt.Sprintf("vehicle_%03d", i+1), field(rec, 0), loc, jobTypes)
		if c := field(rec, 3); c != "" {
			if v.Capacity, err = strconv.Atoi(c); err != nil {
				return nil, fmt.Errorf("%s row %d: capacity %q: %w", vehicleFile, i+2, c, err)
			}
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}

// demand_data.csv: time,lat,lng,address,job_type
func loadDemands(path string) ([]*domain.Demand, error) {
	_, rows, err := readRows(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", demandFile, err)
	}

	demands := make([]*domain.Demand, 0, len(rows))
	for i, rec := range rows {
		clock := field(rec, 0)
		ts, err := domain.ParseClock(clock)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", demandFile, i+2, err)
		}
		loc, err := parseLatLng(field(rec, 1), field(rec, 2))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", demandFile, i+2, err)
		}

		d := domain.NewDemand(fmt.Sprintf("demand_%03d", i+1), ts, loc, field(rec, 4))
		d.RequestClock = clock
		d.Address = field(rec, 3)
		demands = append(demands, d)
	}

	sort.SliceStable(demands, func(i, j int) bool {
		return demands[i].RequestTime < demands[j].RequestTime
	})

	return demands, nil
}

// job_type.csv: id,job,service_time (minutes), located by header. A missing
// or malformed file leaves only the default service time.
func loadJobTypes(path string, defaultSeconds int) *jobtype.Catalog {
	catalog := jobtype.NewCatalog(defaultSeconds)

	header, rows, err := readRows(path)
	if err != nil {
		log.Printf("job types: %s unavailable, using default service time: %v", jobTypeFile, err)
		return catalog
	}

	idIdx, jobIdx, timeIdx := -1, -1, -1
	for i, h := range header {
		switch h {
		case "id":
			idIdx = i
		case "job":
			jobIdx = i
		case "service_time":
			timeIdx = i
		}
	}
	if jobIdx < 0 || timeIdx < 0 {
		log.Printf("job types: %s lacks job/service_time columns, using default service time", jobTypeFile)
		return catalog
	}

	for _, rec := range rows {
		minutes, err := strconv.Atoi(field(rec, timeIdx))
		if err != nil {
			continue
		}
		jt := jobtype.JobType{Name: field(rec, jobIdx), ServiceSeconds: minutes * 60}
		if idIdx >= 0 {
			jt.ID = field(rec, idIdx)
		}
		if err := catalog.Add(jt); err != nil {
			log.Printf("job types: skip row: %v", err)
		}
	}

	return catalog
}
