// internal/aggregator/ledger.go
package aggregator

import "portfolio-projects/internal/model"

// Ledger folds repositories into Totals, counting each RepoID at most once.
// It is not safe for concurrent use; fold after fetches have been joined.
type Ledger struct {
	seen   map[model.RepoID]struct{}
	totals model.Totals
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[model.RepoID]struct{})}
}

// Append adds rec to the totals and reports whether it was counted.
// Nil records, records without an identity and already seen identities are ignored.
func (l *Ledger) Append(rec *model.RepoRecord) bool {
	if rec == nil {
		return false
	}
	id := rec.ID()
	if id == "" {
		return false
	}
	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	l.totals.Stars += max(rec.Stars, 0)
	l.totals.Forks += max(rec.Forks, 0)
	return true
}

// Totals returns the running totals.
func (l *Ledger) Totals() model.Totals {
	return l.totals
}

// Len returns the number of distinct repositories counted.
func (l *Ledger) Len() int {
	return len(l.seen)
}
