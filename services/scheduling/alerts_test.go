package scheduling

import (
	"context"
	"strings"
	"testing"
	"time"

	"hireloop/models"

	"go.uber.org/zap"
)

func TestAlertDispatcher_Notify(t *testing.T) {
	ctx := context.Background()

	req := models.SchedulingRequest{
		CandidateID:     "cand-1",
		Interviewer:     mustRef(t, "int-1"),
		Start:           monday.Add(10 * time.Hour),
		DurationMinutes: 60,
		RequestedBy:     recruiter(),
	}

	conflict := models.Conflict{
		Type:             models.ConflictExistingBooking,
		Severity:         models.SeverityHard,
		ParticipantEmail: "interviewer@example.com",
		BookingID:        "b-1",
		Message:          "interviewer@example.com already has an interview overlapping",
		OverlapStart:     req.Start,
		OverlapEnd:       req.End(),
	}

	t.Run("records audit event and emails the requester", func(t *testing.T) {
		audit := &fakeAudit{}
		notifier := &fakeNotifier{}
		dispatcher := &AlertDispatcher{Notifier: notifier, Audit: audit, Logger: zap.NewNop()}

		dispatcher.Notify(ctx, []models.Conflict{conflict}, req, false)

		if len(audit.events) != 1 {
			t.Fatalf("audit events = %d, want 1", len(audit.events))
		}
		event := audit.events[0]
		if event.CandidateID != "cand-1" || event.Forced || len(event.Conflicts) != 1 {
			t.Errorf("event = %+v, want unforced snapshot of the conflict", event)
		}
		if len(notifier.emails) != 1 {
			t.Fatalf("emails = %d, want 1", len(notifier.emails))
		}
		mail := notifier.emails[0]
		if mail.To != req.RequestedBy.Email {
			t.Errorf("To = %s, want the requester", mail.To)
		}
		if !strings.Contains(mail.Subject, "conflict detected") {
			t.Errorf("Subject = %q, want a detection subject", mail.Subject)
		}
		if !strings.Contains(mail.Body, conflict.Message) {
			t.Errorf("Body missing the conflict message: %q", mail.Body)
		}
	})

	t.Run("forced dispatch has its own wording", func(t *testing.T) {
		audit := &fakeAudit{}
		notifier := &fakeNotifier{}
		dispatcher := &AlertDispatcher{Notifier: notifier, Audit: audit, Logger: zap.NewNop()}

		dispatcher.Notify(ctx, []models.Conflict{conflict}, req, true)

		if len(audit.events) != 1 || !audit.events[0].Forced {
			t.Fatalf("want one forced audit event, got %+v", audit.events)
		}
		if !strings.Contains(notifier.emails[0].Subject, "forced") {
			t.Errorf("Subject = %q, want an override subject", notifier.emails[0].Subject)
		}
		if !strings.Contains(notifier.emails[0].Body, req.RequestedBy.Name) {
			t.Errorf("Body should name who forced the booking: %q", notifier.emails[0].Body)
		}
	})

	t.Run("nothing dispatched without conflicts", func(t *testing.T) {
		audit := &fakeAudit{}
		notifier := &fakeNotifier{}
		dispatcher := &AlertDispatcher{Notifier: notifier, Audit: audit, Logger: zap.NewNop()}

		dispatcher.Notify(ctx, nil, req, false)

		if len(audit.events) != 0 || len(notifier.emails) != 0 {
			t.Errorf("empty conflict list must be a no-op")
		}
	})

	t.Run("notifier failure is swallowed", func(t *testing.T) {
		audit := &fakeAudit{}
		notifier := &fakeNotifier{emailErr: context.DeadlineExceeded}
		dispatcher := &AlertDispatcher{Notifier: notifier, Audit: audit, Logger: zap.NewNop()}

		dispatcher.Notify(ctx, []models.Conflict{conflict}, req, false)

		if len(audit.events) != 1 {
			t.Errorf("audit record should survive a notifier failure")
		}
	})
}
