package models

import "time"

// ConflictType identifies what kind of commitment collided with a proposal.
type ConflictType string

const (
	ConflictExistingBooking ConflictType = "EXISTING_BOOKING"
	ConflictPTO             ConflictType = "PTO"
	ConflictExternalBusy    ConflictType = "EXTERNAL_CALENDAR_BUSY"
)

// ConflictSeverity classifies how a conflict affects scheduling. Hard
// conflicts block automatic booking; soft conflicts are advisory only.
type ConflictSeverity string

const (
	SeverityHard ConflictSeverity = "HARD"
	SeveritySoft ConflictSeverity = "SOFT"
)

// Conflict describes a single overlap between a proposed slot and an existing
// commitment of one participant.
type Conflict struct {
	Type             ConflictType     `json:"type"`
	Severity         ConflictSeverity `json:"severity"`
	ParticipantEmail string           `json:"participantEmail"`
	BookingID        string           `json:"bookingId"`
	Message          string           `json:"message"`
	// The overlapping portion of the two intervals.
	OverlapStart time.Time `json:"start"`
	OverlapEnd   time.Time `json:"end"`
}

// ConflictReport is the outcome of scanning all participants' commitments
// against a proposed interval.
type ConflictReport struct {
	HasConflicts   bool           `json:"hasConflicts"`
	Conflicts      []Conflict     `json:"conflicts,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
	SuggestedTimes []ProposedSlot `json:"suggestedTimes,omitempty"`
}

// HardConflicts returns only the conflicts that block automatic booking.
func (r *ConflictReport) HardConflicts() []Conflict {
	var hard []Conflict
	for _, c := range r.Conflicts {
		if c.Severity == SeverityHard {
			hard = append(hard, c)
		}
	}
	return hard
}
