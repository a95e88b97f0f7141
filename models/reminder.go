package models

import "time"

// Reminder recipient targets.
const (
	ReminderTargetCandidate   = "candidate"
	ReminderTargetInterviewer = "interviewer"
)

// ReminderPayload is the task payload enqueued for a scheduled reminder.
type ReminderPayload struct {
	BookingID      string    `json:"bookingId"`
	ParticipantID  string    `json:"participantId"`
	RecipientEmail string    `json:"recipientEmail"`
	Target         string    `json:"target"` // "candidate" or "interviewer"
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	FireAt         time.Time `json:"fireAt"`
}
