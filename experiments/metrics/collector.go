package metrics

import "sync"

// Tally is the single merge point shared by concurrent match workers.
type Tally struct {
	mu    sync.Mutex
	stats *MatchStats
}

func NewTally() *Tally {
	return &Tally{stats: NewMatchStats()}
}

func (t *Tally) Add(r GameResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Add(r)
}

// Snapshot returns a copy of the stats merged so far.
func (t *Tally) Snapshot() *MatchStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.Clone()
}
