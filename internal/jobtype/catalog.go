package jobtype

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultServiceMinutes applies to job types missing from the catalog.
const DefaultServiceMinutes = 10

// JobType is one row of the job type table.
type JobType struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"job"`
	ServiceSeconds int    `json:"service_time_seconds"`
}

// Catalog maps job type labels to fixed on-site service durations.
// It is populated once before a run and read-only afterwards.
type Catalog struct {
	types          map[string]JobType
	defaultSeconds int
}

func NewCatalog(defaultSeconds int) *Catalog {
	if defaultSeconds < 0 {
		defaultSeconds = 0
	}
	return &Catalog{
		types:          make(map[string]JobType),
		defaultSeconds: defaultSeconds,
	}
}

// Add registers or replaces a job type.
func (c *Catalog) Add(jt JobType) error {
	name := strings.TrimSpace(jt.Name)
	if name == "" {
		return errors.New("add job type: name must not be empty")
	}
	if jt.ServiceSeconds < 0 {
		return fmt.Errorf("add job type %q: negative service time %d", name, jt.ServiceSeconds)
	}

	jt.Name = name
	c.types[name] = jt
	return nil
}

// ServiceSeconds returns the service duration for jobType. Unknown job types
// fall back to the catalog default without error.
func (c *Catalog) ServiceSeconds(jobType string) int {
	if jt, ok := c.types[jobType]; ok {
		return jt.ServiceSeconds
	}
	return c.defaultSeconds
}

func (c *Catalog) Has(jobType string) bool {
	_, ok := c.types[jobType]
	return ok
}

func (c *Catalog) DefaultSeconds() int { return c.defaultSeconds }

// All returns the registered job types sorted by name.
func (c *Catalog) All() []JobType {
	out := make([]JobType, 0, len(c.types))
	for _, jt := range c.types {
		out = append(out, jt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
