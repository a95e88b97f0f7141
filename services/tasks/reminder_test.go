package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hireloop/models"
)

func TestNewReminderTask(t *testing.T) {
	payload := models.ReminderPayload{
		BookingID:      "b-1",
		ParticipantID:  "cand-1",
		RecipientEmail: "candidate@example.com",
		Target:         models.ReminderTargetCandidate,
		Title:          "Upcoming interview",
	}

	task, opts, err := NewReminderTask(payload, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("NewReminderTask() error = %v", err)
	}
	if task.Type() != TypeSendReminder {
		t.Errorf("Type() = %s, want %s", task.Type(), TypeSendReminder)
	}
	if len(opts) != 1 {
		t.Errorf("opts = %d, want the ProcessAt option", len(opts))
	}

	var decoded models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if decoded.BookingID != "b-1" || decoded.Target != models.ReminderTargetCandidate {
		t.Errorf("decoded payload = %+v", decoded)
	}
}

func TestAsynqReminderScheduler_DropsPastReminders(t *testing.T) {
	// A nil client would panic if the scheduler tried to enqueue; a fire time
	// in the past must short-circuit before that.
	s := &AsynqReminderScheduler{}
	err := s.Schedule(context.Background(), models.ReminderPayload{BookingID: "b-1"}, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Schedule() with past fireAt = %v, want nil", err)
	}
}
