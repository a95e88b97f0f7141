package models

import "errors"

// Sentinel errors shared between the repositories and the scheduling engine.
var (
	// ErrNotFound is wrapped by repository lookups that miss.
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken is returned by the booking store when the commit-time
	// uniqueness guard detects a competing booking for the same interviewer
	// and interval.
	ErrSlotTaken = errors.New("slot already taken")
)
