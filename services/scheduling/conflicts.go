package scheduling

import (
	"context"
	"fmt"
	"time"

	"hireloop/models"
)

// ConflictDetector scans all known commitments of a set of participants for
// overlaps with a proposed interval and classifies each as hard or soft.
type ConflictDetector struct {
	Bookings BookingStore
	// Suggester fills alternative slots when hard conflicts are found. May be
	// nil (the suggester itself runs detection without suggestions).
	Suggester *SlotSuggester
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints are never conflicts.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// Check scans the given participants' commitments against [start, end).
// excludeBookingID skips one booking, used when re-validating an update so a
// booking does not conflict with itself.
func (d *ConflictDetector) Check(ctx context.Context, participantEmails []string, start, end time.Time, excludeBookingID string) (*models.ConflictReport, error) {
	report := &models.ConflictReport{}

	for _, email := range participantEmails {
		bookings, err := d.Bookings.ListForParticipant(ctx, email, start, end)
		if err != nil {
			return nil, fmt.Errorf("listing commitments for %s: %w", email, err)
		}

		for i := range bookings {
			b := &bookings[i]
			if b.ID == excludeBookingID || b.Status != models.StatusScheduled {
				continue
			}
			if !overlaps(start, end, b.Start, b.End) {
				continue
			}

			conflict := models.Conflict{
				ParticipantEmail: email,
				BookingID:        b.ID,
				OverlapStart:     maxTime(start, b.Start),
				OverlapEnd:       minTime(end, b.End),
			}

			switch b.Kind {
			case models.KindPTO:
				conflict.Type = models.ConflictPTO
			case models.KindExternalCalendar:
				conflict.Type = models.ConflictExternalBusy
			default:
				conflict.Type = models.ConflictExistingBooking
			}
			conflict.Severity = models.SeveritySoft
			if b.Blocking() {
				conflict.Severity = models.SeverityHard
			}
			conflict.Message = formatConflict(conflict)

			report.Conflicts = append(report.Conflicts, conflict)
			if conflict.Severity == models.SeveritySoft {
				report.Warnings = append(report.Warnings, conflict.Message)
			}
		}
	}

	report.HasConflicts = len(report.Conflicts) > 0
	return report, nil
}

// CheckAndSuggest runs Check across the participants' emails and, when at
// least one hard conflict is present, asks the slot suggester for the earliest
// alternatives.
func (d *ConflictDetector) CheckAndSuggest(ctx context.Context, participants []*models.Participant, start time.Time, durationMinutes int, excludeBookingID string) (*models.ConflictReport, error) {
	emails := make([]string, 0, len(participants))
	for _, p := range participants {
		emails = append(emails, p.Email)
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	report, err := d.Check(ctx, emails, start, end, excludeBookingID)
	if err != nil {
		return nil, err
	}

	if d.Suggester != nil && len(report.HardConflicts()) > 0 {
		suggested, err := d.Suggester.Suggest(ctx, participants, start, durationMinutes, 0, 0)
		if err != nil {
			// Suggestions are best-effort guidance; the conflict verdict stands.
			report.Warnings = append(report.Warnings, fmt.Sprintf("could not compute alternative slots: %v", err))
		} else {
			report.SuggestedTimes = suggested
		}
	}
	return report, nil
}
