package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// PlanOp is one entry in a plan file.
type PlanOp struct {
	Op     string `yaml:"op"`     // move, copy, or remove
	Source string `yaml:"source"` // unused for remove
	Target string `yaml:"target"`
}

// Plan is the YAML document consumed by the apply command.
type Plan struct {
	Ops []PlanOp `yaml:"ops"`
}

// loadPlan reads and validates a plan file.
func loadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if len(p.Ops) == 0 {
		return nil, fmt.Errorf("plan %s contains no operations", path)
	}
	for i, op := range p.Ops {
		switch op.Op {
		case "move", "copy":
			if op.Source == "" || op.Target == "" {
				return nil, fmt.Errorf("plan op %d: %s requires source and target", i, op.Op)
			}
		case "remove":
			if op.Target == "" {
				return nil, fmt.Errorf("plan op %d: remove requires target", i)
			}
			if op.Source != "" {
				return nil, fmt.Errorf("plan op %d: remove takes no source", i)
			}
		default:
			return nil, fmt.Errorf("plan op %d: unknown op %q (want move, copy, or remove)", i, op.Op)
		}
	}
	return &p, nil
}
