package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/rootfind/methods"
)

// Job is a batch of root-finding runs read from a YAML file:
//
//	defaults:
//	  tolerance: 1e-6
//	runs:
//	  - method: newton
//	    f: x^2 - 3
//	    x0: 1
//	  - method: bisection
//	    f: x^2 - 3
//	    a: 1
//	    b: 2
//
// Numbers are kept as text so that they are validated like any other input.
type Job struct {
	// Defaults fill blank fields of every run.
	Defaults JobDefaults `yaml:"defaults"`
	// Runs are the requests to run, in order.
	Runs []methods.Request `yaml:"runs"`
}

// JobDefaults are the fields a job may set for all of its runs.
type JobDefaults struct {
	Tolerance string            `yaml:"tolerance"`
	MaxIter   string            `yaml:"maxIter"`
	Var       string            `yaml:"var"`
	Vars      map[string]string `yaml:"vars"`
}

// ErrEmptyJob is returned for a job with no runs.
var ErrEmptyJob = errors.New("job has no runs")

// LoadJob reads a job from a YAML file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %q: %w", path, err)
	}
	job, err := ParseJob(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("job file %q: %w", path, err)
	}
	return job, nil
}

// ParseJob decodes a job and applies its defaults to its runs. Unknown fields
// are errors.
func ParseJob(r io.Reader) (*Job, error) {
	var job Job
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyJob
		}
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	if len(job.Runs) == 0 {
		return nil, ErrEmptyJob
	}
	d := job.Defaults
	for i := range job.Runs {
		run := &job.Runs[i]
		if run.Method == "" {
			return nil, fmt.Errorf("run %d: method is required", i+1)
		}
		if run.Tolerance == "" {
			run.Tolerance = d.Tolerance
		}
		if run.MaxIter == "" {
			run.MaxIter = d.MaxIter
		}
		if run.Var == "" {
			run.Var = d.Var
		}
		for k, v := range d.Vars {
			if _, ok := run.Vars[k]; ok {
				continue
			}
			if run.Vars == nil {
				run.Vars = make(map[string]string, len(d.Vars))
			}
			run.Vars[k] = v
		}
	}
	return &job, nil
}
