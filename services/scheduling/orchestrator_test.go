package scheduling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hireloop/models"
)

func recruiter() models.Actor {
	return models.Actor{ID: "act-1", Email: "recruiter@example.com", Name: "Rae Recruiter", Role: models.RoleRecruiter}
}

func coordinator() models.Actor {
	return models.Actor{ID: "act-2", Email: "coord@example.com", Name: "Cal Coordinator", Role: "coordinator"}
}

func mustRef(t *testing.T, id string) models.InterviewerRef {
	t.Helper()
	ref, err := models.InterviewerByID(id)
	if err != nil {
		t.Fatalf("InterviewerByID(%q) error = %v", id, err)
	}
	return ref
}

func baseRequest(t *testing.T) models.SchedulingRequest {
	t.Helper()
	return models.SchedulingRequest{
		CandidateID:     "cand-1",
		Interviewer:     mustRef(t, "int-1"),
		Start:           monday.Add(10 * time.Hour),
		DurationMinutes: 60,
		MeetingType:     models.MeetingVideo,
		RequestedBy:     recruiter(),
	}
}

func newScheduleFixture(existing ...*models.Booking) (*Orchestrator, *fakeDirectory, *fakeBookingStore, *fakeAudit) {
	interviewer := testInterviewer("UTC")
	candidate := testCandidate()
	dir := newFakeDirectory(interviewer, candidate)
	dir.setWindows(interviewer.ID, window(interviewer.ID, time.Monday, "09:00", "17:00"))

	store := newFakeBookingStore(existing...)
	audit := &fakeAudit{}
	return newTestEngine(dir, store, audit), dir, store, audit
}

func TestOrchestrator_Schedule(t *testing.T) {
	ctx := context.Background()

	t.Run("books an open conflict-free slot", func(t *testing.T) {
		engine, _, store, audit := newScheduleFixture()

		result, err := engine.Schedule(ctx, baseRequest(t))
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		b := result.Booking
		if b == nil || b.Status != models.StatusScheduled || b.Kind != models.KindInterview {
			t.Fatalf("booking = %+v, want a SCHEDULED interview", b)
		}
		if b.ID == "" {
			t.Errorf("booking has no id")
		}
		if !b.End.Equal(b.Start.Add(time.Hour)) {
			t.Errorf("End = %v, want start+60m", b.End)
		}
		if len(b.ParticipantEmails) != 2 {
			t.Errorf("ParticipantEmails = %v, want candidate and interviewer", b.ParticipantEmails)
		}
		if result.Forced || len(result.Warnings) != 0 {
			t.Errorf("clean booking should carry no force flag or warnings: %+v", result)
		}
		if store.count() != 1 {
			t.Errorf("store has %d bookings, want 1", store.count())
		}
		if len(audit.events) != 0 {
			t.Errorf("no conflicts means no alerts, got %d", len(audit.events))
		}
	})

	t.Run("rejects malformed requests field by field", func(t *testing.T) {
		engine, _, store, _ := newScheduleFixture()

		req := models.SchedulingRequest{DurationMinutes: 5, RequestedBy: recruiter()}
		_, err := engine.Schedule(ctx, req)

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want *ValidationError", err)
		}
		for _, field := range []string{"candidateId", "interviewer", "durationMinutes", "start"} {
			if _, ok := validationErr.Fields[field]; !ok {
				t.Errorf("missing field error for %q: %+v", field, validationErr.Fields)
			}
		}
		if store.count() != 0 {
			t.Errorf("invalid request must not create bookings")
		}
	})

	t.Run("rejects durations above the cap", func(t *testing.T) {
		engine, _, _, _ := newScheduleFixture()

		req := baseRequest(t)
		req.DurationMinutes = 481
		_, err := engine.Schedule(ctx, req)

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("error = %v, want *ValidationError", err)
		}
		if _, ok := validationErr.Fields["durationMinutes"]; !ok {
			t.Errorf("durationMinutes not flagged: %+v", validationErr.Fields)
		}
	})

	t.Run("unknown candidate is not found", func(t *testing.T) {
		engine, _, _, _ := newScheduleFixture()

		req := baseRequest(t)
		req.CandidateID = "ghost"
		_, err := engine.Schedule(ctx, req)

		var notFoundErr *NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("error = %v, want *NotFoundError", err)
		}
		if notFoundErr.Kind != "candidate" {
			t.Errorf("Kind = %s, want candidate", notFoundErr.Kind)
		}
	})

	t.Run("blocks outside availability with day suggestions", func(t *testing.T) {
		engine, _, store, audit := newScheduleFixture()

		req := baseRequest(t)
		req.Start = monday.AddDate(0, 0, 1).Add(10 * time.Hour) // Tuesday
		_, err := engine.Schedule(ctx, req)

		var availErr *AvailabilityError
		if !errors.As(err, &availErr) {
			t.Fatalf("error = %v, want *AvailabilityError", err)
		}
		if availErr.DayOfWeek != time.Tuesday {
			t.Errorf("DayOfWeek = %v, want Tuesday", availErr.DayOfWeek)
		}
		if len(availErr.SuggestionDays) != 1 || availErr.SuggestionDays[0] != time.Monday {
			t.Errorf("SuggestionDays = %v, want [Monday]", availErr.SuggestionDays)
		}
		if !strings.Contains(availErr.SuggestionText, "Monday") {
			t.Errorf("SuggestionText = %q, want a Monday hint", availErr.SuggestionText)
		}
		if store.count() != 0 {
			t.Errorf("availability rejection must not create bookings")
		}
		if len(audit.events) != 0 {
			t.Errorf("availability rejection is not a conflict alert")
		}
	})

	t.Run("interviewer blocked on weekday without windows even when unconstrained elsewhere", func(t *testing.T) {
		engine, dir, _, _ := newScheduleFixture()
		// A single Monday window means every other weekday is closed, it never
		// falls back to unconstrained.
		dir.setWindows("int-1", window("int-1", time.Monday, "09:00", "17:00"))

		req := baseRequest(t)
		req.Start = monday.AddDate(0, 0, 4).Add(10 * time.Hour) // Friday
		_, err := engine.Schedule(ctx, req)

		var availErr *AvailabilityError
		if !errors.As(err, &availErr) {
			t.Fatalf("error = %v, want *AvailabilityError", err)
		}
	})

	t.Run("external interviewer skips availability", func(t *testing.T) {
		engine, _, store, _ := newScheduleFixture()

		req := baseRequest(t)
		ref, err := models.InterviewerByName("Dr. External")
		if err != nil {
			t.Fatalf("InterviewerByName() error = %v", err)
		}
		req.Interviewer = ref
		req.Start = monday.AddDate(0, 0, 1).Add(3 * time.Hour) // Tuesday 03:00, no windows anywhere

		result, err := engine.Schedule(ctx, req)
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if result.Booking.InterviewerName != "Dr. External" {
			t.Errorf("InterviewerName = %q, want Dr. External", result.Booking.InterviewerName)
		}
		if result.Booking.InterviewerID != "" {
			t.Errorf("external interviewer must not carry a directory id")
		}
		if store.count() != 1 {
			t.Errorf("booking not committed")
		}
	})

	t.Run("hard conflict blocks and alerts exactly once", func(t *testing.T) {
		engine, _, store, audit := newScheduleFixture(
			interviewAt("b-1", []string{"interviewer@example.com"}, monday.Add(10*time.Hour), 60),
		)

		_, err := engine.Schedule(ctx, baseRequest(t))

		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
		if len(conflictErr.Conflicts) != 1 {
			t.Fatalf("Conflicts = %+v, want one", conflictErr.Conflicts)
		}
		if len(conflictErr.SuggestedTimes) == 0 {
			t.Errorf("conflict rejection should carry alternative slots")
		}
		if store.count() != 1 {
			t.Errorf("blocked request must not add bookings, store has %d", store.count())
		}
		if len(audit.events) != 1 {
			t.Fatalf("want exactly one detection alert, got %d", len(audit.events))
		}
		if audit.events[0].Forced {
			t.Errorf("detection alert must not be marked forced")
		}
	})

	t.Run("privileged force override books and alerts twice", func(t *testing.T) {
		engine, _, store, audit := newScheduleFixture(
			interviewAt("b-1", []string{"interviewer@example.com"}, monday.Add(10*time.Hour), 60),
		)

		req := baseRequest(t)
		req.ForceSchedule = true
		result, err := engine.Schedule(ctx, req)
		if err != nil {
			t.Fatalf("Schedule() with force error = %v", err)
		}
		if !result.Forced {
			t.Errorf("Forced = false, want true")
		}
		if len(result.OverriddenConflicts) != 1 {
			t.Errorf("OverriddenConflicts = %+v, want the overridden hard conflict", result.OverriddenConflicts)
		}
		if store.count() != 2 {
			t.Errorf("store has %d bookings, want 2", store.count())
		}
		if len(audit.events) != 2 {
			t.Fatalf("want detection + override alerts, got %d", len(audit.events))
		}
		if audit.events[0].Forced || !audit.events[1].Forced {
			t.Errorf("alert forced flags = %v/%v, want false/true", audit.events[0].Forced, audit.events[1].Forced)
		}
	})

	t.Run("force is ignored for unprivileged actors", func(t *testing.T) {
		engine, _, store, _ := newScheduleFixture(
			interviewAt("b-1", []string{"interviewer@example.com"}, monday.Add(10*time.Hour), 60),
		)

		req := baseRequest(t)
		req.ForceSchedule = true
		req.RequestedBy = coordinator()
		_, err := engine.Schedule(ctx, req)

		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
		if store.count() != 1 {
			t.Errorf("unprivileged force must not book")
		}
	})

	t.Run("soft conflicts warn but never block", func(t *testing.T) {
		busy := interviewAt("ext-1", []string{"interviewer@example.com"}, monday.Add(10*time.Hour), 60)
		busy.Kind = models.KindExternalCalendar
		busy.Tentative = true
		engine, _, store, audit := newScheduleFixture(busy)

		result, err := engine.Schedule(ctx, baseRequest(t))
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("Warnings = %v, want the tentative overlap surfaced", result.Warnings)
		}
		if result.Forced {
			t.Errorf("soft conflicts do not need forcing")
		}
		if store.count() != 2 {
			t.Errorf("booking should proceed over soft conflicts")
		}
		if len(audit.events) != 0 {
			t.Errorf("soft conflicts do not trigger alerts")
		}
	})

	t.Run("side effect failures degrade to warnings", func(t *testing.T) {
		engine, _, store, _ := newScheduleFixture()
		engine.Calendar = &fakeCalendar{createErr: errors.New("calendar down")}
		engine.Notifier = &fakeNotifier{emailErr: errors.New("smtp down")}

		result, err := engine.Schedule(ctx, baseRequest(t))
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if store.count() != 1 {
			t.Fatalf("integration failures must not revert the booking")
		}
		// One calendar warning plus one per confirmation recipient.
		if len(result.Warnings) != 3 {
			t.Errorf("Warnings = %v, want 3", result.Warnings)
		}
	})

	t.Run("calendar event id is attached to the booking", func(t *testing.T) {
		engine, _, store, _ := newScheduleFixture()
		engine.Calendar = &fakeCalendar{}

		result, err := engine.Schedule(ctx, baseRequest(t))
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if result.Booking.CalendarEventID != "evt-1" {
			t.Errorf("CalendarEventID = %q, want evt-1", result.Booking.CalendarEventID)
		}
		stored, err := store.GetByID(ctx, result.Booking.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if stored.CalendarEventID != "evt-1" {
			t.Errorf("stored CalendarEventID = %q, want evt-1", stored.CalendarEventID)
		}
	})

	t.Run("schedules reminders for both parties", func(t *testing.T) {
		engine, _, _, _ := newScheduleFixture()
		reminders := &fakeReminders{}
		engine.Reminders = reminders

		req := baseRequest(t)
		req.SendReminders = true
		req.ReminderHours = 2
		if _, err := engine.Schedule(ctx, req); err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if len(reminders.scheduled) != 2 {
			t.Fatalf("scheduled %d reminders, want candidate + interviewer", len(reminders.scheduled))
		}
		targets := map[string]bool{}
		for _, p := range reminders.scheduled {
			targets[p.Target] = true
			if want := req.Start.Add(-2 * time.Hour); !p.FireAt.Equal(want) {
				t.Errorf("FireAt = %v, want %v", p.FireAt, want)
			}
		}
		if !targets[models.ReminderTargetCandidate] || !targets[models.ReminderTargetInterviewer] {
			t.Errorf("targets = %v, want both candidate and interviewer", targets)
		}
	})

	t.Run("commit collision re-routes through conflict detection", func(t *testing.T) {
		engine, _, store, audit := newScheduleFixture()
		store.createErr = models.ErrSlotTaken

		_, err := engine.Schedule(ctx, baseRequest(t))

		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
		if len(conflictErr.Conflicts) == 0 {
			t.Fatalf("collision must surface at least one conflict")
		}
		if conflictErr.Conflicts[0].Severity != models.SeverityHard {
			t.Errorf("collision conflict severity = %s, want HARD", conflictErr.Conflicts[0].Severity)
		}
		if len(audit.events) != 1 {
			t.Errorf("collision should alert once, got %d", len(audit.events))
		}
	})
}

func TestOrchestrator_Reschedule(t *testing.T) {
	ctx := context.Background()
	at10am := monday.Add(10 * time.Hour)

	t.Run("moves a booking when the new slot is free", func(t *testing.T) {
		booking := interviewAt("b-1", []string{"candidate@example.com", "interviewer@example.com"}, at10am, 60)
		engine, _, store, _ := newScheduleFixture(booking)

		newStart := at10am.Add(2 * time.Hour)
		result, err := engine.Reschedule(ctx, "b-1", BookingUpdate{Start: &newStart, RequestedBy: recruiter()})
		if err != nil {
			t.Fatalf("Reschedule() error = %v", err)
		}
		if !result.Booking.Start.Equal(newStart) || !result.Booking.End.Equal(newStart.Add(time.Hour)) {
			t.Errorf("booking interval = %v-%v, want moved by 2h", result.Booking.Start, result.Booking.End)
		}
		stored, _ := store.GetByID(ctx, "b-1")
		if !stored.Start.Equal(newStart) {
			t.Errorf("store not updated: %v", stored.Start)
		}
	})

	t.Run("time change into a conflict is blocked", func(t *testing.T) {
		booking := interviewAt("b-1", []string{"interviewer@example.com"}, at10am, 60)
		other := interviewAt("b-2", []string{"interviewer@example.com"}, at10am.Add(2*time.Hour), 60)
		engine, _, _, _ := newScheduleFixture(booking, other)

		newStart := at10am.Add(2 * time.Hour)
		_, err := engine.Reschedule(ctx, "b-1", BookingUpdate{Start: &newStart, RequestedBy: recruiter()})

		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
		if conflictErr.Conflicts[0].BookingID != "b-2" {
			t.Errorf("conflicting booking = %s, want b-2", conflictErr.Conflicts[0].BookingID)
		}
	})

	t.Run("status-only updates skip conflict detection", func(t *testing.T) {
		booking := interviewAt("b-1", []string{"interviewer@example.com"}, at10am, 60)
		// An overlapping booking exists, but a pure status change must not care.
		other := interviewAt("b-2", []string{"interviewer@example.com"}, at10am, 60)
		engine, _, _, _ := newScheduleFixture(booking, other)

		status := models.StatusCompleted
		result, err := engine.Reschedule(ctx, "b-1", BookingUpdate{Status: &status, RequestedBy: recruiter()})
		if err != nil {
			t.Fatalf("Reschedule() error = %v", err)
		}
		if result.Booking.Status != models.StatusCompleted {
			t.Errorf("Status = %s, want COMPLETED", result.Booking.Status)
		}
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		engine, _, _, _ := newScheduleFixture()
		_, err := engine.Reschedule(ctx, "ghost", BookingUpdate{RequestedBy: recruiter()})

		var notFoundErr *NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("error = %v, want *NotFoundError", err)
		}
	})
}

func TestOrchestrator_Cancel(t *testing.T) {
	ctx := context.Background()
	at10am := monday.Add(10 * time.Hour)

	booking := interviewAt("b-1", []string{"candidate@example.com", "interviewer@example.com"}, at10am, 60)
	booking.CalendarEventID = "evt-9"
	engine, _, store, _ := newScheduleFixture(booking)
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	engine.Calendar = cal
	engine.Notifier = notifier

	result, err := engine.Cancel(ctx, "b-1", recruiter())
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if result.Booking.Status != models.StatusCancelled {
		t.Errorf("Status = %s, want CANCELLED", result.Booking.Status)
	}
	stored, _ := store.GetByID(ctx, "b-1")
	if stored.Status != models.StatusCancelled {
		t.Errorf("stored status = %s, want CANCELLED", stored.Status)
	}
	if len(cal.deleted) != 1 || cal.deleted[0] != "evt-9" {
		t.Errorf("calendar deletions = %v, want [evt-9]", cal.deleted)
	}
	if len(notifier.emails) != 2 {
		t.Errorf("cancellation emails = %d, want both participants", len(notifier.emails))
	}

	// Cancelled bookings free the slot for new requests.
	if _, err := engine.Schedule(ctx, baseRequest(t)); err != nil {
		t.Errorf("slot should be free after cancellation, got %v", err)
	}
}
