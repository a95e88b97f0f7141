package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hireloop/models"
)

const minutesPerDay = 24 * 60

// AvailabilityResolver checks a proposed absolute instant against a
// participant's recurring weekly windows. All weekday and time-of-day math
// happens in the participant's own timezone, never the caller's and never UTC.
type AvailabilityResolver struct {
	Directory ParticipantDirectory
}

// Resolve converts the instant to the participant's local calendar day and
// time-of-day, then matches the [start, start+duration) range against that
// day's active windows.
func (r *AvailabilityResolver) Resolve(ctx context.Context, participant *models.Participant, instant time.Time, durationMinutes int) (*models.AvailabilityCheck, error) {
	loc, err := time.LoadLocation(participant.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q for participant %s: %w", participant.Timezone, participant.ID, err)
	}

	local := instant.In(loc)
	day := local.Weekday()
	startMin := local.Hour()*60 + local.Minute()
	endMin := startMin + durationMinutes

	check := &models.AvailabilityCheck{
		DayOfWeek:  day,
		LocalStart: clockFromMinutes(startMin),
	}

	// An interval that spills into the next local calendar day never matches:
	// window matching is defined within a single day.
	if endMin > minutesPerDay {
		check.CrossesMidnight = true
		check.LocalEnd = clockFromMinutes(endMin - minutesPerDay)
		return check, nil
	}
	check.LocalEnd = clockFromMinutes(endMin)

	windows, err := r.Directory.ListWindows(ctx, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching availability windows for %s: %w", participant.ID, err)
	}

	seenDays := make(map[time.Weekday]bool)
	for _, w := range windows {
		if !w.Active {
			continue
		}
		if w.DayOfWeek == day {
			check.Windows = append(check.Windows, w)
		} else if !seenDays[w.DayOfWeek] {
			seenDays[w.DayOfWeek] = true
			check.SuggestionDays = append(check.SuggestionDays, w.DayOfWeek)
		}
	}
	sort.Slice(check.SuggestionDays, func(i, j int) bool {
		return check.SuggestionDays[i] < check.SuggestionDays[j]
	})

	if len(check.Windows) == 0 {
		return check, nil
	}

	// Both sides are zero-padded HH:MM on the same local calendar day, so
	// string comparison is time comparison.
	for _, w := range check.Windows {
		if w.StartTime <= check.LocalStart && check.LocalEnd <= w.EndTime {
			check.IsOpen = true
			break
		}
	}
	return check, nil
}
