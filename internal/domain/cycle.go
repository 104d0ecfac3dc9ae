package domain

import "time"

// CycleReport holds statistics about one harvest cycle.
type CycleReport struct {
	RunID            string             `json:"run_id"`
	Resumed          bool               `json:"resumed"`
	Markets          []Market           `json:"markets"`
	Tickers          int                `json:"tickers"`
	TickersCompleted int                `json:"tickers_completed"`
	TasksDone        int                `json:"tasks_done"`
	TasksSkipped     int                `json:"tasks_skipped"`
	Attempts         int                `json:"attempts"`
	DetailsUpserted  int                `json:"details_upserted"`
	NewsInserted     int                `json:"news_inserted"`
	ErrorsByClass    map[ErrorClass]int `json:"errors_by_class"`
	Interrupted      bool               `json:"interrupted"`
	StartedAt        time.Time          `json:"started_at"`
	Duration         time.Duration      `json:"duration"`
}

func NewCycleReport(runID string, resumed bool, markets []Market) *CycleReport {
	return &CycleReport{
		RunID:         runID,
		Resumed:       resumed,
		Markets:       markets,
		ErrorsByClass: make(map[ErrorClass]int),
		StartedAt:     time.Now(),
	}
}

type Checkpoint struct {
	RunID     string    `db:"run_id"`
	StartedAt time.Time `db:"started_at"`
}
