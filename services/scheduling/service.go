package scheduling

import (
	"context"
	"time"

	"hireloop/models"
)

// ParticipantDirectory resolves participant identity, timezone, and weekly
// availability windows.
type ParticipantDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Participant, error)
	ListWindows(ctx context.Context, participantID string) ([]models.AvailabilityWindow, error)
}

// BookingStore persists bookings. Create must enforce the commit-time
// uniqueness guard for (interviewer, interval) and return models.ErrSlotTaken on a
// violation so the caller can re-route through conflict detection.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	// ListForParticipant returns the participant's commitments of any kind
	// whose interval touches [from, to).
	ListForParticipant(ctx context.Context, email string, from, to time.Time) ([]models.Booking, error)
}

// CalendarSync mirrors bookings into an external calendar. Every failure
// degrades to a warning; sync never decides booking success.
type CalendarSync interface {
	CreateEvent(ctx context.Context, booking *models.Booking) (string, error)
	UpdateEvent(ctx context.Context, booking *models.Booking) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// Notifier sends outbound messages. Failures degrade to warnings.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendPush(ctx context.Context, participant *models.Participant, title, body string, data map[string]string) error
}

// AuditSink records conflict-alert events for traceability.
type AuditSink interface {
	RecordConflictAlert(ctx context.Context, event models.AuditEvent) error
}

// ReminderScheduler enqueues a reminder to fire at the given instant.
type ReminderScheduler interface {
	Schedule(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}
