package handlers

import (
	"context"
	"net/http"
	"time"

	"hireloop/models"
	"hireloop/utils"

	"github.com/gin-gonic/gin"
)

// ParticipantStore is the write side of the participant directory.
type ParticipantStore interface {
	UpsertParticipant(ctx context.Context, p *models.Participant) error
	ReplaceWindows(ctx context.Context, participantID string, windows []models.AvailabilityWindow) error
}

// AuditLog reads back recorded conflict alerts.
type AuditLog interface {
	ListForCandidate(ctx context.Context, candidateID string, limit int64) ([]models.AuditEvent, error)
}

// ParticipantHandler exposes directory configuration and the alert trail.
type ParticipantHandler struct {
	Store ParticipantStore
	Audit AuditLog
}

func NewParticipantHandler(store ParticipantStore, audit AuditLog) *ParticipantHandler {
	return &ParticipantHandler{Store: store, Audit: audit}
}

type participantInput struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone" binding:"required"`
	Role     string `json:"role"`
	FCMToken string `json:"fcmToken"`
}

// UpsertParticipant handles PUT /api/participants/:id.
func (h *ParticipantHandler) UpsertParticipant(c *gin.Context) {
	var input participantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := time.LoadLocation(input.Timezone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timezone must be a valid IANA identifier", "details": err.Error()})
		return
	}

	participant := &models.Participant{
		ID:       c.Param("id"),
		Email:    input.Email,
		Name:     input.Name,
		Timezone: input.Timezone,
		Role:     input.Role,
		FCMToken: input.FCMToken,
	}
	if err := h.Store.UpsertParticipant(c.Request.Context(), participant); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save participant", err.Error())
		return
	}
	c.JSON(http.StatusOK, participant)
}

type windowInput struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Active    *bool  `json:"active"`
}

// ReplaceWindows handles PUT /api/participants/:id/windows: it swaps the
// participant's full weekly availability configuration.
func (h *ParticipantHandler) ReplaceWindows(c *gin.Context) {
	participantID := c.Param("id")

	var inputs []windowInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	windows := make([]models.AvailabilityWindow, 0, len(inputs))
	for _, in := range inputs {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dayOfWeek must be 0 (Sunday) through 6 (Saturday)"})
			return
		}
		for _, clock := range []string{in.StartTime, in.EndTime} {
			if _, err := time.Parse("15:04", clock); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "times must be zero-padded HH:MM", "details": err.Error()})
				return
			}
		}
		if in.StartTime >= in.EndTime {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startTime must be before endTime"})
			return
		}

		active := true
		if in.Active != nil {
			active = *in.Active
		}
		windows = append(windows, models.AvailabilityWindow{
			ID:            participantID + "-" + in.StartTime + "-" + time.Weekday(in.DayOfWeek).String(),
			ParticipantID: participantID,
			DayOfWeek:     time.Weekday(in.DayOfWeek),
			StartTime:     in.StartTime,
			EndTime:       in.EndTime,
			Active:        active,
		})
	}

	if err := h.Store.ReplaceWindows(c.Request.Context(), participantID, windows); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save availability windows", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"participantId": participantID, "windows": windows})
}

// ListAlerts handles GET /api/candidates/:id/alerts: the recorded conflict
// alert trail for a candidate, newest first.
func (h *ParticipantHandler) ListAlerts(c *gin.Context) {
	events, err := h.Audit.ListForCandidate(c.Request.Context(), c.Param("id"), 50)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch alerts", err.Error())
		return
	}
	if events == nil {
		events = []models.AuditEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"candidateId": c.Param("id"), "alerts": events})
}
