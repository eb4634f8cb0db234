package pipeline

import "time"

// StageStatus is the lifecycle state of one stage within a run.
type StageStatus int

const (
	StatusPending StageStatus = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s StageStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// StageResult records the outcome of one stage.
type StageResult struct {
	Name     string
	Status   StageStatus
	Duration time.Duration
	ExitCode int
}

// RunStats summarizes a pipeline run. It is returned even when the run
// fails, so callers can report how far it got.
type RunStats struct {
	RunID      string
	InputFiles int
	Stages     []StageResult

	// Current is the index of the stage being executed, or -1 before the
	// first stage starts.
	Current int

	PromotedEntries int
	PromotedFiles   int
	PromotedBytes   int64

	Started  time.Time
	Duration time.Duration
	Success  bool
}

// Completed returns the number of stages that succeeded.
func (s *RunStats) Completed() int {
	n := 0
	for _, r := range s.Stages {
		if r.Status == StatusSucceeded {
			n++
		}
	}
	return n
}
