package domain

import (
	"fmt"
	"time"
)

// Outcome of one successful model invocation.
// Minutes is reported as the model emits it; no clamping is applied.
type Prediction struct {
	Record       AugmentedRecord
	Minutes      float64
	ModelVersion string
	PredictedAt  time.Time
	Cached       bool
}

// Display formats the estimate the way the dashboard shows it.
func (p Prediction) Display() string {
	return fmt.Sprintf("%.2f", p.Minutes)
}

// One row of the prediction audit log.
type PredictionLogEntry struct {
	ID           int64
	Record       AugmentedRecord
	Minutes      *float64
	Error        string
	ModelVersion string
	RequestedAt  time.Time
}
