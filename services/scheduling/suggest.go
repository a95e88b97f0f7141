package scheduling

import (
	"context"
	"time"

	"hireloop/models"
)

// Search defaults for alternative-slot discovery.
const (
	DefaultMaxSuggestions    = 3
	DefaultSuggestionHorizon = 14 // days
	suggestionStep           = 30 * time.Minute
)

// SlotSuggester searches forward in time for the earliest slots that satisfy
// both availability and non-conflict for every participant.
type SlotSuggester struct {
	Availability *AvailabilityResolver
	Detector     *ConflictDetector
}

// Suggest scans forward from originalStart in fixed 30-minute increments,
// bounded by horizonDays, collecting up to maxResults qualifying slots in
// chronological order. Exhausting the horizon with fewer results is not an
// error. Zero maxResults/horizonDays select the defaults.
func (s *SlotSuggester) Suggest(ctx context.Context, participants []*models.Participant, originalStart time.Time, durationMinutes, maxResults, horizonDays int) ([]models.ProposedSlot, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxSuggestions
	}
	if horizonDays <= 0 {
		horizonDays = DefaultSuggestionHorizon
	}

	emails := make([]string, 0, len(participants))
	for _, p := range participants {
		emails = append(emails, p.Email)
	}

	horizon := originalStart.AddDate(0, 0, horizonDays)
	duration := time.Duration(durationMinutes) * time.Minute

	var found []models.ProposedSlot
	for candidate := originalStart; candidate.Before(horizon) && len(found) < maxResults; candidate = candidate.Add(suggestionStep) {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		ok, err := s.allOpen(ctx, participants, candidate, durationMinutes)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		report, err := s.Detector.Check(ctx, emails, candidate, candidate.Add(duration), "")
		if err != nil {
			return nil, err
		}
		if len(report.HardConflicts()) > 0 {
			continue
		}

		found = append(found, models.ProposedSlot{Start: candidate, DurationMinutes: durationMinutes})
	}
	return found, nil
}

// allOpen checks availability for every participant that has an availability
// model. Participants without any configured windows (candidates, external
// attendees) are unconstrained.
func (s *SlotSuggester) allOpen(ctx context.Context, participants []*models.Participant, start time.Time, durationMinutes int) (bool, error) {
	for _, p := range participants {
		check, err := s.Availability.Resolve(ctx, p, start, durationMinutes)
		if err != nil {
			return false, err
		}
		if check.IsOpen {
			continue
		}
		if !check.HasAvailabilityModel() && !check.CrossesMidnight {
			continue
		}
		return false, nil
	}
	return true, nil
}
