package models

// ScheduleResult is returned on a successful booking commit. Warnings collect
// non-fatal integration failures (calendar sync, email, reminders) that never
// revert the booking itself.
type ScheduleResult struct {
	Booking  *Booking `json:"booking"`
	Warnings []string `json:"warnings,omitempty"`
	// Forced is set when the booking proceeded over hard conflicts via an
	// authorized override.
	Forced              bool       `json:"forced,omitempty"`
	OverriddenConflicts []Conflict `json:"overriddenConflicts,omitempty"`
}
