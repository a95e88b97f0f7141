package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hireloop/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertDispatcher formats detected conflicts into human-readable notices and
// dispatches them: once per detection event, and separately once more if the
// booking proceeds despite the conflict. It is fire-and-forget from the
// orchestrator's perspective; every failure is logged and swallowed.
type AlertDispatcher struct {
	Notifier Notifier
	Audit    AuditSink
	Logger   *zap.Logger
}

func (d *AlertDispatcher) Notify(ctx context.Context, conflicts []models.Conflict, req models.SchedulingRequest, wasForced bool) {
	logger := d.Logger
	if logger == nil {
		logger = zap.L()
	}
	if len(conflicts) == 0 {
		return
	}

	subject := "Scheduling conflict detected"
	if wasForced {
		subject = "Booking forced over scheduling conflict"
	}

	lines := make([]string, 0, len(conflicts)+1)
	lines = append(lines, fmt.Sprintf("Interview for candidate %s with %s at %s:",
		req.CandidateID, req.Interviewer.String(), req.Start.UTC().Format(time.RFC3339)))
	for _, c := range conflicts {
		lines = append(lines, "- "+c.Message)
	}
	if wasForced {
		lines = append(lines, fmt.Sprintf("The booking was created anyway by %s (%s).", req.RequestedBy.Name, req.RequestedBy.Email))
	}
	body := strings.Join(lines, "\n")

	if d.Audit != nil {
		event := models.AuditEvent{
			ID:          uuid.New().String(),
			CandidateID: req.CandidateID,
			Interviewer: req.Interviewer.String(),
			Start:       req.Start,
			End:         req.End(),
			Forced:      wasForced,
			ActorID:     req.RequestedBy.ID,
			ActorEmail:  req.RequestedBy.Email,
			Conflicts:   conflicts,
			CreatedAt:   time.Now(),
		}
		if err := d.Audit.RecordConflictAlert(ctx, event); err != nil {
			logger.Error("failed to record conflict audit event", zap.Error(err))
		}
	}

	if d.Notifier != nil && req.RequestedBy.Email != "" {
		if err := d.Notifier.SendEmail(ctx, req.RequestedBy.Email, subject, body); err != nil {
			logger.Error("failed to send conflict alert email",
				zap.String("to", req.RequestedBy.Email), zap.Error(err))
		}
	}
}
