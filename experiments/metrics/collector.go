package metrics

import (
	"time"
)

type SearchMetric struct {
	Simulations  int
	Duration     time.Duration
	FullPlayouts int // Rollouts that reached a terminal state
	Cutoffs      int // Rollouts scored by an evaluation function
	TreeSize     int
	TreeDepth    int
}

type MoveMetric struct {
	Step   int
	Player int
	Action string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // -1 for a draw or an unfinished game
	Scores         []float64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector records one search at a time. Searches are single-threaded so the
// counters need no synchronization.
type Collector interface {
	Start(simulations int)
	AddFullPlayout()
	AddCutoff()
	Complete(treeSize, treeDepth int) SearchMetric
}

type collector struct {
	simulations  int
	startTime    time.Time
	fullPlayouts int
	cutoffs      int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(simulations int) {
	m.startTime = time.Now()
	m.simulations = simulations
	m.fullPlayouts = 0
	m.cutoffs = 0
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) AddCutoff() {
	m.cutoffs++
}

func (m *collector) Complete(treeSize, treeDepth int) SearchMetric {
	return SearchMetric{
		Simulations:  m.simulations,
		Duration:     time.Since(m.startTime),
		FullPlayouts: m.fullPlayouts,
		Cutoffs:      m.cutoffs,
		TreeSize:     treeSize,
		TreeDepth:    treeDepth,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(simulations int)                      {}
func (m *dummyCollector) AddFullPlayout()                            {}
func (m *dummyCollector) AddCutoff()                                 {}
func (m *dummyCollector) Complete(treeSize, treeDepth int) SearchMetric { return SearchMetric{} }
