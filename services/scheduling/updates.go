package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireloop/models"

	"go.uber.org/zap"
)

// BookingUpdate carries the mutable fields of a reschedule. Nil/zero fields
// are left unchanged.
type BookingUpdate struct {
	Start           *time.Time
	DurationMinutes *int
	Location        *string
	MeetingLink     *string
	Status          *models.BookingStatus
	ForceSchedule   bool
	RequestedBy     models.Actor
}

// timeSensitive reports whether the update moves the booking in time or
// place, which requires a conflict re-check. Availability is deliberately not
// re-checked on update: the slot was already accepted once.
func (u BookingUpdate) timeSensitive() bool {
	return u.Start != nil || u.DurationMinutes != nil || u.Location != nil
}

// Revalidate is the re-validation hook invoked when an external update
// changes start, duration, or location. It re-runs conflict detection only,
// excluding the booking itself.
func (o *Orchestrator) Revalidate(ctx context.Context, booking *models.Booking, start time.Time, durationMinutes int) (*models.ConflictReport, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	report, err := o.Detector.Check(ctx, booking.ParticipantEmails, start, end, booking.ID)
	if err != nil {
		return nil, err
	}
	if o.Suggester != nil && len(report.HardConflicts()) > 0 {
		participants, perr := o.bookingParticipants(ctx, booking)
		if perr == nil {
			suggested, serr := o.Suggester.Suggest(ctx, participants, start, durationMinutes, 0, 0)
			if serr == nil {
				report.SuggestedTimes = suggested
			}
		}
	}
	return report, nil
}

// Reschedule applies an external update to a booking. Time or location
// changes go through the re-validation hook; hard conflicts block the update
// unless force-scheduled by a privileged actor.
func (o *Orchestrator) Reschedule(ctx context.Context, bookingID string, update BookingUpdate) (*models.ScheduleResult, error) {
	booking, err := o.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &NotFoundError{Kind: "booking", ID: bookingID}
		}
		return nil, err
	}

	start := booking.Start
	duration := booking.DurationMinutes
	if update.Start != nil {
		start = *update.Start
	}
	if update.DurationMinutes != nil {
		duration = *update.DurationMinutes
		if duration < models.MinDurationMinutes || duration > models.MaxDurationMinutes {
			return nil, &ValidationError{Fields: map[string]string{
				"durationMinutes": fmt.Sprintf("duration must be between %d and %d minutes",
					models.MinDurationMinutes, models.MaxDurationMinutes),
			}}
		}
	}

	var warnings []string
	if update.timeSensitive() {
		report, err := o.Revalidate(ctx, booking, start, duration)
		if err != nil {
			return nil, err
		}
		if hard := report.HardConflicts(); len(hard) > 0 {
			if !update.ForceSchedule || !update.RequestedBy.Privileged() {
				return nil, &ConflictError{
					Conflicts:      report.Conflicts,
					Warnings:       report.Warnings,
					SuggestedTimes: report.SuggestedTimes,
				}
			}
			o.logger().Warn("reschedule forced over hard conflicts",
				zap.String("bookingId", bookingID),
				zap.String("actor", update.RequestedBy.ID))
		}
		warnings = append(warnings, report.Warnings...)
	}

	booking.Start = start
	booking.DurationMinutes = duration
	booking.End = start.Add(time.Duration(duration) * time.Minute)
	if update.Location != nil {
		booking.Location = *update.Location
	}
	if update.MeetingLink != nil {
		booking.MeetingLink = *update.MeetingLink
	}
	if update.Status != nil {
		booking.Status = *update.Status
	}
	booking.UpdatedAt = time.Now()

	if err := o.Bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("updating booking %s: %w", bookingID, err)
	}

	if o.Calendar != nil && booking.CalendarEventID != "" {
		cctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		err := o.Calendar.UpdateEvent(cctx, booking)
		cancel()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar sync failed: %v", err))
		}
	}

	return &models.ScheduleResult{Booking: booking, Warnings: warnings}, nil
}

// Cancel marks a booking cancelled and best-effort removes its calendar
// mirror and notifies participants.
func (o *Orchestrator) Cancel(ctx context.Context, bookingID string, actor models.Actor) (*models.ScheduleResult, error) {
	booking, err := o.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &NotFoundError{Kind: "booking", ID: bookingID}
		}
		return nil, err
	}

	booking.Status = models.StatusCancelled
	booking.UpdatedAt = time.Now()
	if err := o.Bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("cancelling booking %s: %w", bookingID, err)
	}

	var warnings []string
	if o.Calendar != nil && booking.CalendarEventID != "" {
		cctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		err := o.Calendar.DeleteEvent(cctx, booking.CalendarEventID)
		cancel()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar event removal failed: %v", err))
		}
	}
	if o.Notifier != nil {
		for _, email := range booking.ParticipantEmails {
			nctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
			err := o.Notifier.SendEmail(nctx, email, "Interview cancelled",
				fmt.Sprintf("The interview scheduled for %s was cancelled by %s.",
					booking.Start.UTC().Format(time.RFC1123), actor.Name))
			cancel()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("cancellation email to %s failed: %v", email, err))
			}
		}
	}

	return &models.ScheduleResult{Booking: booking, Warnings: warnings}, nil
}

// bookingParticipants resolves the directory entries behind a booking's
// participant references, skipping external names.
func (o *Orchestrator) bookingParticipants(ctx context.Context, booking *models.Booking) ([]*models.Participant, error) {
	ids := make([]string, 0, 2)
	if booking.CandidateID != "" {
		ids = append(ids, booking.CandidateID)
	}
	if booking.InterviewerID != "" {
		ids = append(ids, booking.InterviewerID)
	}

	participants := make([]*models.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := o.Directory.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}
