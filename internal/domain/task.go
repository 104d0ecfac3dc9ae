package domain

import "fmt"

type TaskKind string

const (
	TaskDetail TaskKind = "detail"
	TaskNews   TaskKind = "news"
)

type TaskStatus string

const (
	StatusPending  TaskStatus = "pending"
	StatusInFlight TaskStatus = "in_flight"
	StatusDone     TaskStatus = "done"
	StatusFailed   TaskStatus = "failed"
	StatusSkipped  TaskStatus = "skipped"
)

func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusSkipped
}

var transitions = map[TaskStatus][]TaskStatus{
	StatusPending:  {StatusInFlight},
	StatusInFlight: {StatusDone, StatusFailed, StatusSkipped},
	StatusFailed:   {StatusPending, StatusSkipped},
}

// Task is a single unit of fetch work for one ticker. A task is owned by
// exactly one goroutine at a time, so it carries no lock.
type Task struct {
	Ticker   Ticker
	Kind     TaskKind
	Attempts int
	Status   TaskStatus
	LastErr  error
}

func NewTask(t Ticker, kind TaskKind) *Task {
	return &Task{Ticker: t, Kind: kind, Status: StatusPending}
}

func (t *Task) String() string {
	return fmt.Sprintf("%s/%s#%d", t.Ticker.Key(), t.Kind, t.Attempts)
}

// Transition moves the task to the next state. Dispatching (Pending to
// InFlight) counts as an attempt.
func (t *Task) Transition(to TaskStatus) error {
	for _, allowed := range transitions[t.Status] {
		if allowed == to {
			if to == StatusInFlight {
				t.Attempts++
			}
			t.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
}
