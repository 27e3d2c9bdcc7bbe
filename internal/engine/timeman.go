package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Limits bounds a search. Zero values mean "no limit" for each field.
type Limits struct {
	Depth     int              // maximum depth
	Nodes     uint64           // maximum nodes
	MoveTime  time.Duration    // fixed time for this move
	Time      [2]time.Duration // remaining clock per colour
	Inc       [2]time.Duration // increment per colour
	MovesToGo int              // moves until the next time control, 0 for sudden death
	Infinite  bool             // search until stopped
}

// TimeManager turns limits into a soft and a hard deadline.
type TimeManager struct {
	optimumTime time.Duration // stop starting new iterations after this
	maximumTime time.Duration // abort the running iteration after this
	startTime   time.Time
	timed       bool
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init prepares the manager for a search by us at game ply.
func (tm *TimeManager) Init(limits Limits, us board.Color, ply int) {
	tm.startTime = time.Now()
	tm.timed = true

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		tm.timed = false
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
	}

	base := timeLeft/time.Duration(mtg) + inc*9/10
	tm.optimumTime = base
	if ply < 8 {
		tm.optimumTime = base * 85 / 100
	}

	tm.maximumTime = tm.optimumTime * 5
	if limit := timeLeft * 8 / 10; tm.maximumTime > limit {
		tm.maximumTime = limit
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}

// Timed reports whether the search has a deadline at all.
func (tm *TimeManager) Timed() bool {
	return tm.timed
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the hard limit for this move.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop reports whether the hard deadline has passed.
func (tm *TimeManager) ShouldStop() bool {
	return tm.timed && tm.Elapsed() >= tm.maximumTime
}

// PastOptimum reports whether a new iteration should not be started.
func (tm *TimeManager) PastOptimum() bool {
	return tm.timed && tm.Elapsed() >= tm.optimumTime
}
