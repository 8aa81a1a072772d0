package attribution

import (
	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
)

// TaskTypeClassifier decides whether a target column is analyzed as a
// regression or a classification problem. Pure and deterministic.
type TaskTypeClassifier struct {
	threshold int
}

// NewTaskTypeClassifier creates a classifier with the given distinct-value
// threshold
func NewTaskTypeClassifier(threshold int) *TaskTypeClassifier {
	return &TaskTypeClassifier{threshold: threshold}
}

// Classify inspects a target's values after dropping missing entries.
// Cardinality at or below the threshold means classification; anything
// else is regression. An empty or all-missing column is unusable input.
func (c *TaskTypeClassifier) Classify(values []float64) (feature.TaskType, error) {
	distinct := make(map[float64]struct{})
	usable := 0
	for _, v := range values {
		if feature.Missing(v) {
			continue
		}
		usable++
		distinct[v] = struct{}{}
	}
	if usable == 0 {
		return "", core.NewInsufficientDataError("target", 0)
	}
	if len(distinct) <= c.threshold {
		return feature.TaskClassification, nil
	}
	return feature.TaskRegression, nil
}
