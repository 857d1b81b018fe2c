package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes how one move was chosen.
type SearchMetric struct {
	Duration   time.Duration
	Candidates int // Legal moves the policy chose from
}

type MoveMetric struct {
	Step   int
	Player string // Color of the mover
	Kind   string // "set", "drag" or "skip"
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Skips          int
}

type Collector interface {
	Start(candidates int)
	Complete() SearchMetric
}

type collector struct {
	startTime  time.Time
	candidates atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(candidates int) {
	m.startTime = time.Now()
	m.candidates.Store(int32(candidates))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:   time.Since(m.startTime),
		Candidates: int(m.candidates.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(candidates int)   {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
