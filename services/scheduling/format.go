package scheduling

import (
	"fmt"
	"strings"
	"time"

	"hireloop/models"
)

// clockFromMinutes renders minutes-from-midnight as a zero-padded "HH:MM"
// string. Zero-padding keeps lexicographic comparison equivalent to time
// comparison within one calendar day.
func clockFromMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// formatWindow renders an availability window as "Monday 09:00-17:00".
func formatWindow(w models.AvailabilityWindow) string {
	return fmt.Sprintf("%s %s-%s", w.DayOfWeek.String(), w.StartTime, w.EndTime)
}

// formatDays renders weekday names as "Monday, Wednesday".
func formatDays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

// availabilitySuggestionText builds the human guidance attached to an
// availability rejection.
func availabilitySuggestionText(check *models.AvailabilityCheck) string {
	if check.CrossesMidnight {
		return "The requested duration extends past midnight in the interviewer's timezone. Pick an earlier start or a shorter duration."
	}
	if len(check.Windows) > 0 {
		parts := make([]string, 0, len(check.Windows))
		for _, w := range check.Windows {
			parts = append(parts, fmt.Sprintf("%s-%s", w.StartTime, w.EndTime))
		}
		return fmt.Sprintf("The interviewer is available on %s between %s.", check.DayOfWeek.String(), strings.Join(parts, ", "))
	}
	if len(check.SuggestionDays) > 0 {
		return fmt.Sprintf("The interviewer has no availability on %s. Try: %s.", check.DayOfWeek.String(), formatDays(check.SuggestionDays))
	}
	return "The interviewer has no configured availability."
}

// formatConflict renders a conflict into the human-readable alert message.
func formatConflict(c models.Conflict) string {
	window := fmt.Sprintf("%s to %s",
		c.OverlapStart.UTC().Format("Mon Jan 2 15:04"),
		c.OverlapEnd.UTC().Format("15:04 MST"))

	switch c.Type {
	case models.ConflictPTO:
		return fmt.Sprintf("%s has approved time off overlapping %s", c.ParticipantEmail, window)
	case models.ConflictExternalBusy:
		if c.Severity == models.SeverityHard {
			return fmt.Sprintf("%s has a busy external calendar entry overlapping %s", c.ParticipantEmail, window)
		}
		return fmt.Sprintf("%s has a tentative external calendar entry overlapping %s", c.ParticipantEmail, window)
	default:
		return fmt.Sprintf("%s already has an interview overlapping %s", c.ParticipantEmail, window)
	}
}
