package feature

import (
	"discoveryspark/domain/core"
)

// TaskType defines how a target column is analyzed
type TaskType string

const (
	TaskRegression     TaskType = "regression"
	TaskClassification TaskType = "classification"
)

// TargetSpec binds a target column to its inferred task type and values.
// Created once per requested target at run start; immutable during the run.
type TargetSpec struct {
	Name    core.TargetKey `json:"name"`
	Task    TaskType       `json:"task"`
	Values  []float64      `json:"-"`
	Classes int            `json:"classes,omitempty"` // distinct non-missing values for classification
}

// NewTargetSpec validates and creates a target spec
func NewTargetSpec(name core.TargetKey, task TaskType, values []float64) (*TargetSpec, error) {
	if name == "" {
		return nil, core.NewConfigurationError("target", "name cannot be empty")
	}
	usable := len(DropMissing(values))
	if usable == 0 {
		return nil, core.NewInsufficientDataError(name.String(), 0)
	}
	spec := &TargetSpec{Name: name, Task: task, Values: values}
	if task == TaskClassification {
		spec.Classes = distinctCount(values)
	}
	return spec, nil
}

// distinctCount counts distinct non-missing values
func distinctCount(values []float64) int {
	seen := make(map[float64]struct{})
	for _, v := range values {
		if Missing(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}
