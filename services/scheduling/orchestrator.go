package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireloop/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State names the phases of a scheduling workflow. Terminal post-booking
// states (CANCELLED, COMPLETED, NO_SHOW) are reached via the update
// operations, not by Schedule itself.
type State string

const (
	StateValidating           State = "VALIDATING"
	StateCheckingAvailability State = "CHECKING_AVAILABILITY"
	StateCheckingConflicts    State = "CHECKING_CONFLICTS"
	StateBlocked              State = "BLOCKED"
	StateConfirmed            State = "CONFIRMED"
	StateBooked               State = "BOOKED"
)

// Timeout applied to each best-effort side effect (calendar sync, email,
// reminder enqueue) so integrations can never stall a decided booking.
const sideEffectTimeout = 5 * time.Second

// Orchestrator sequences validation, availability resolution, conflict
// detection, the force-override policy, booking commit, and best-effort side
// effects for a single scheduling request.
type Orchestrator struct {
	Directory    ParticipantDirectory
	Bookings     BookingStore
	Availability *AvailabilityResolver
	Detector     *ConflictDetector
	Suggester    *SlotSuggester
	Alerts       *AlertDispatcher
	Calendar     CalendarSync      // optional
	Notifier     Notifier          // optional
	Reminders    ReminderScheduler // optional
	Logger       *zap.Logger

	// DefaultReminderHours applies when a request enables reminders without
	// specifying an offset.
	DefaultReminderHours int
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.L()
}

// Schedule runs the full workflow for one request. Each request is an
// independent short-lived sequential workflow; the only shared state is the
// booking store, whose commit guard covers the check-then-act race.
func (o *Orchestrator) Schedule(ctx context.Context, req models.SchedulingRequest) (*models.ScheduleResult, error) {
	// VALIDATING
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	candidate, err := o.Directory.GetByID(ctx, req.CandidateID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &NotFoundError{Kind: "candidate", ID: req.CandidateID}
		}
		return nil, fmt.Errorf("resolving candidate %s: %w", req.CandidateID, err)
	}

	participants := []*models.Participant{candidate}
	var interviewer *models.Participant
	if id, ok := req.Interviewer.ByID(); ok {
		interviewer, err = o.Directory.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, &NotFoundError{Kind: "interviewer", ID: id}
			}
			return nil, fmt.Errorf("resolving interviewer %s: %w", id, err)
		}
		participants = append(participants, interviewer)
	}

	// CHECKING_AVAILABILITY: only internal interviewers have an availability
	// model; a custom/external interviewer skips straight to conflicts.
	if interviewer != nil {
		check, err := o.Availability.Resolve(ctx, interviewer, req.Start, req.DurationMinutes)
		if err != nil {
			return nil, err
		}
		if !check.IsOpen {
			return nil, availabilityError(check)
		}
	}

	// CHECKING_CONFLICTS
	report, err := o.Detector.CheckAndSuggest(ctx, participants, req.Start, req.DurationMinutes, "")
	if err != nil {
		return nil, err
	}

	hard := report.HardConflicts()
	forced := false
	if len(hard) > 0 {
		// The detection alert goes out even when the request will be blocked,
		// to keep the audit trail complete.
		o.Alerts.Notify(ctx, hard, req, false)

		if !req.ForceSchedule || !req.RequestedBy.Privileged() {
			return nil, &ConflictError{
				Conflicts:      report.Conflicts,
				Warnings:       report.Warnings,
				SuggestedTimes: report.SuggestedTimes,
			}
		}
		forced = true
		o.logger().Warn("hard conflicts overridden by privileged actor",
			zap.String("actor", req.RequestedBy.ID),
			zap.Int("conflicts", len(hard)))
	}

	// CONFIRMED -> BOOKED
	booking := o.buildBooking(req, candidate, interviewer)
	if err := o.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			return nil, o.commitConflict(ctx, req, participants)
		}
		return nil, fmt.Errorf("committing booking: %w", err)
	}

	result := &models.ScheduleResult{
		Booking: booking,
		Forced:  forced,
	}
	if forced {
		result.OverriddenConflicts = hard
		o.Alerts.Notify(ctx, hard, req, true)
	}
	result.Warnings = append(result.Warnings, report.Warnings...)
	result.Warnings = append(result.Warnings, o.runSideEffects(ctx, req, booking, candidate, interviewer)...)
	return result, nil
}

// commitConflict handles a uniqueness violation at commit time: another
// request won the slot between CHECKING_CONFLICTS and the commit. It is
// surfaced as a fresh hard conflict, never as a fatal error.
func (o *Orchestrator) commitConflict(ctx context.Context, req models.SchedulingRequest, participants []*models.Participant) error {
	report, err := o.Detector.CheckAndSuggest(ctx, participants, req.Start, req.DurationMinutes, "")
	if err != nil {
		o.logger().Error("conflict re-check after commit collision failed", zap.Error(err))
		report = &models.ConflictReport{}
	}

	conflicts := report.Conflicts
	if len(report.HardConflicts()) == 0 {
		// The competing booking may not be visible yet; report the collision
		// itself as the conflict.
		conflicts = append(conflicts, models.Conflict{
			Type:             models.ConflictExistingBooking,
			Severity:         models.SeverityHard,
			Message:          "the requested slot was booked by a concurrent request",
			ParticipantEmail: participantEmailForInterviewer(participants, req),
			OverlapStart:     req.Start,
			OverlapEnd:       req.End(),
		})
	}

	hard := make([]models.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		if c.Severity == models.SeverityHard {
			hard = append(hard, c)
		}
	}
	o.Alerts.Notify(ctx, hard, req, false)

	return &ConflictError{
		Conflicts:      conflicts,
		Warnings:       report.Warnings,
		SuggestedTimes: report.SuggestedTimes,
	}
}

func participantEmailForInterviewer(participants []*models.Participant, req models.SchedulingRequest) string {
	if id, ok := req.Interviewer.ByID(); ok {
		for _, p := range participants {
			if p.ID == id {
				return p.Email
			}
		}
	}
	return ""
}

func (o *Orchestrator) buildBooking(req models.SchedulingRequest, candidate, interviewer *models.Participant) *models.Booking {
	now := time.Now()
	emails := []string{candidate.Email}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		Kind:            models.KindInterview,
		Status:          models.StatusScheduled,
		CandidateID:     candidate.ID,
		Start:           req.Start,
		End:             req.End(),
		DurationMinutes: req.DurationMinutes,
		MeetingType:     req.MeetingType,
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
		CreatedBy:       req.RequestedBy.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if interviewer != nil {
		booking.InterviewerID = interviewer.ID
		emails = append(emails, interviewer.Email)
	} else if name, ok := req.Interviewer.ByName(); ok {
		booking.InterviewerName = name
	}
	booking.ParticipantEmails = emails
	return booking
}

// runSideEffects performs the post-commit integrations: external calendar
// event, confirmation emails, reminder scheduling. Each failure becomes a
// warning on the result; none reverts the booking.
func (o *Orchestrator) runSideEffects(ctx context.Context, req models.SchedulingRequest, booking *models.Booking, candidate, interviewer *models.Participant) []string {
	var warnings []string

	if o.Calendar != nil {
		cctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		eventID, err := o.Calendar.CreateEvent(cctx, booking)
		cancel()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("calendar sync failed: %v", err))
		} else {
			booking.CalendarEventID = eventID
			if err := o.Bookings.Update(ctx, booking); err != nil {
				warnings = append(warnings, fmt.Sprintf("could not attach calendar event id: %v", err))
			}
		}
	}

	if o.Notifier != nil {
		subject := "Interview scheduled"
		body := fmt.Sprintf("Your interview is scheduled for %s (%d minutes).",
			booking.Start.UTC().Format(time.RFC1123), booking.DurationMinutes)
		for _, p := range confirmationRecipients(candidate, interviewer) {
			nctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
			err := o.Notifier.SendEmail(nctx, p.Email, subject, body)
			cancel()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("confirmation email to %s failed: %v", p.Email, err))
			}
		}
	}

	if req.SendReminders && o.Reminders != nil {
		warnings = append(warnings, o.scheduleReminders(ctx, req, booking, candidate, interviewer)...)
	}

	return warnings
}

func confirmationRecipients(candidate, interviewer *models.Participant) []*models.Participant {
	recipients := []*models.Participant{candidate}
	if interviewer != nil {
		recipients = append(recipients, interviewer)
	}
	return recipients
}

func (o *Orchestrator) scheduleReminders(ctx context.Context, req models.SchedulingRequest, booking *models.Booking, candidate, interviewer *models.Participant) []string {
	hours := req.ReminderHours
	if hours <= 0 {
		hours = o.DefaultReminderHours
	}
	fireAt := booking.Start.Add(-time.Duration(hours) * time.Hour)

	type party struct {
		p      *models.Participant
		target string
	}
	parties := []party{{candidate, models.ReminderTargetCandidate}}
	if interviewer != nil {
		parties = append(parties, party{interviewer, models.ReminderTargetInterviewer})
	}

	var warnings []string
	for _, pt := range parties {
		payload := models.ReminderPayload{
			BookingID:      booking.ID,
			ParticipantID:  pt.p.ID,
			RecipientEmail: pt.p.Email,
			Target:         pt.target,
			Title:          "Upcoming interview",
			Body: fmt.Sprintf("Reminder: interview at %s (%d minutes).",
				booking.Start.UTC().Format(time.RFC1123), booking.DurationMinutes),
			FireAt: fireAt,
		}
		rctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
		err := o.Reminders.Schedule(rctx, payload, fireAt)
		cancel()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("reminder for %s could not be scheduled: %v", pt.p.Email, err))
		}
	}
	return warnings
}

func validateRequest(req models.SchedulingRequest) error {
	fields := make(map[string]string)
	if req.CandidateID == "" {
		fields["candidateId"] = "candidate is required"
	}
	if req.Interviewer.IsZero() {
		fields["interviewer"] = "either interviewerId or customInterviewerName is required"
	}
	if req.DurationMinutes < models.MinDurationMinutes || req.DurationMinutes > models.MaxDurationMinutes {
		fields["durationMinutes"] = fmt.Sprintf("duration must be between %d and %d minutes",
			models.MinDurationMinutes, models.MaxDurationMinutes)
	}
	if req.Start.IsZero() {
		fields["start"] = "start time is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func availabilityError(check *models.AvailabilityCheck) *AvailabilityError {
	availErr := &AvailabilityError{
		DayOfWeek:       check.DayOfWeek,
		LocalTimeRange:  fmt.Sprintf("%s-%s", check.LocalStart, check.LocalEnd),
		CrossesMidnight: check.CrossesMidnight,
		SuggestionDays:  check.SuggestionDays,
		SuggestionText:  availabilitySuggestionText(check),
	}
	for _, w := range check.Windows {
		availErr.AvailableSlots = append(availErr.AvailableSlots, formatWindow(w))
	}
	return availErr
}
