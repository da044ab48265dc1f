package domain

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusTimedOut  RunStatus = "timed_out"
	RunStatusAborted   RunStatus = "aborted"
)

type CellKind string

const (
	CellKindAntForaging CellKind = "ant_foraging"
	CellKindAntCarrying CellKind = "ant_carrying"
	CellKindNest        CellKind = "nest"
	CellKindMorsel      CellKind = "morsel"
	CellKindColonyTrail CellKind = "trail_colony"
	CellKindFoodTrail   CellKind = "trail_food"
)

type Run struct {
	ID          string     `json:"id"`
	Seed        int64      `json:"seed"`
	Ants        int        `json:"ants"`
	Morsels     int        `json:"morsels"`
	TotalSupply uint64     `json:"total_supply"`
	Status      RunStatus  `json:"status"`
	Generations uint64     `json:"generations"`
	Stored      uint64     `json:"stored"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

type Sample struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Generation uint64    `json:"generation"`
	Stored     uint64    `json:"stored"`
	Trails     int       `json:"trails"`
	Foraging   int       `json:"foraging"`
	Carrying   int       `json:"carrying"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is one rendered frame of the simulation, published to monitors.
type Snapshot struct {
	Generation  uint64 `json:"generation"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Stored      uint64 `json:"stored"`
	TotalSupply uint64 `json:"total_supply"`
	Over        bool   `json:"over"`
	Foraging    int    `json:"foraging"`
	Carrying    int    `json:"carrying"`
	Trails      int    `json:"trails"`
	Cells       []Cell `json:"cells"`
}

// Cell is one occupied tile in a snapshot. Value carries the entity's
// magnitude: remaining supply for morsels, strength for trail markers.
type Cell struct {
	X     int      `json:"x"`
	Y     int      `json:"y"`
	Kind  CellKind `json:"kind"`
	Value int      `json:"value,omitempty"`
}
