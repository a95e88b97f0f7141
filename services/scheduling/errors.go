package scheduling

import (
	"fmt"
	"strings"
	"time"

	"hireloop/models"
)

// ValidationError reports a malformed or incomplete scheduling request. The
// request is rejected immediately with no side effects.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid scheduling request: " + strings.Join(parts, "; ")
}

// NotFoundError reports an unknown candidate or interviewer, rejected before
// any availability or conflict work.
type NotFoundError struct {
	Kind string // "candidate", "interviewer", "booking"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// AvailabilityError reports that the interviewer has no open window matching
// the requested interval. It carries actionable suggestions; no booking is
// created.
type AvailabilityError struct {
	DayOfWeek       time.Weekday
	LocalTimeRange  string
	CrossesMidnight bool
	SuggestionDays  []time.Weekday
	AvailableSlots  []string // formatted window strings for the requested day
	SuggestionText  string
}

func (e *AvailabilityError) Error() string {
	if e.CrossesMidnight {
		return "requested interval extends past midnight in the interviewer's timezone"
	}
	return "interviewer is not available at the requested time"
}

// ConflictError reports hard conflicts without a valid override. It carries
// the structured conflicts and alternative slots; no booking is created, but a
// conflict alert has already been dispatched.
type ConflictError struct {
	Conflicts      []models.Conflict
	Warnings       []string
	SuggestedTimes []models.ProposedSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling blocked by %d conflict(s)", len(e.Conflicts))
}
