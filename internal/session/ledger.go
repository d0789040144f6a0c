package session

import (
	"carreras/internal/domain/settlement"
)

// OverrideLedger maps entity keys to manual override records for one report
// session. It lives in memory only: created empty when a range is selected,
// wiped on every range change, never persisted.
//
// Not safe for concurrent use on its own; all access goes through the owning
// ReportSession, which serializes it.
type OverrideLedger struct {
	entries map[string]settlement.Override
}

func NewOverrideLedger() *OverrideLedger {
	return &OverrideLedger{entries: map[string]settlement.Override{}}
}

// Get returns the override record for key, or the zero record when absent.
func (l *OverrideLedger) Get(key string) settlement.Override {
	return l.entries[key]
}

// Set replaces the entire override record for key. Committing an edit dialog
// always writes resolved values for every field shown, so a replace of
// untouched fields round-trips them unchanged.
func (l *OverrideLedger) Set(key string, ov settlement.Override) {
	l.entries[key] = ov
}

// Clear drops every override. Invoked on date-range change.
func (l *OverrideLedger) Clear() {
	l.entries = map[string]settlement.Override{}
}

// Len reports how many entities carry overrides.
func (l *OverrideLedger) Len() int {
	return len(l.entries)
}
