// Package batch orchestrates rating computations over populations of
// players or managers, isolating per-entity failures into a typed report.
package batch

import (
	"time"

	"github.com/google/uuid"
)

// Sweep kinds, used in reports and metric labels.
const (
	SweepPlayers  = "players"
	SweepManagers = "managers"
)

// Failure records one entity the sweep could not rate.
type Failure struct {
	EntityID string `json:"entityId"`
	Reason   string `json:"reason"`
}

// Report summarizes one batch run. Failures never abort a sweep; they are
// collected here and the sweep continues with the next entity.
type Report struct {
	RunID     string    `json:"runId"`
	Sweep     string    `json:"sweep"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Succeeded int       `json:"succeeded"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures"`
}

func newReport(sweep string, started time.Time) Report {
	return Report{
		RunID:   uuid.NewString(),
		Sweep:   sweep,
		Started: started,
	}
}

func (r *Report) recordSuccess() { r.Succeeded++ }

func (r *Report) recordFailure(entityID string, err error) {
	r.Skipped++
	r.Failures = append(r.Failures, Failure{EntityID: entityID, Reason: err.Error()})
}
