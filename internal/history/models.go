package history

import "time"

// Status represents the lifecycle of an export job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one export invocation record.
type Job struct {
	ID              int64
	Token           string
	PlanID          string
	Status          Status
	Format          string
	OutputPath      string
	DurationMS      int64
	SizeBytes       int64
	ProgressPhase   string
	ProgressCurrent int
	ProgressTotal   int
	ProgressMessage string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
