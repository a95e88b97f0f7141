package models

import "time"

// ProposedSlot is a candidate (start, duration) pair under evaluation. It is
// never persisted until confirmed.
type ProposedSlot struct {
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`
}

// End returns the derived end instant of the slot.
func (s ProposedSlot) End() time.Time {
	return s.Start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
