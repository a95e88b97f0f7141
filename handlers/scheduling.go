package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hireloop/config"
	"hireloop/middleware"
	"hireloop/models"
	"hireloop/services/scheduling"
	"hireloop/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulingHandler exposes the scheduling engine over HTTP.
type SchedulingHandler struct {
	Engine       *scheduling.Orchestrator
	Suggester    *scheduling.SlotSuggester
	Availability *scheduling.AvailabilityResolver
	Directory    scheduling.ParticipantDirectory
	Bookings     scheduling.BookingStore
	Logger       *zap.Logger
}

// NewSchedulingHandler wires the handler around an assembled engine.
func NewSchedulingHandler(engine *scheduling.Orchestrator, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{
		Engine:       engine,
		Suggester:    engine.Suggester,
		Availability: engine.Availability,
		Directory:    engine.Directory,
		Bookings:     engine.Bookings,
		Logger:       logger,
	}
}

type scheduleRequestInput struct {
	CandidateID           string    `json:"candidateId"`
	InterviewerID         string    `json:"interviewerId"`
	CustomInterviewerName string    `json:"customInterviewerName"`
	Start                 time.Time `json:"start"`
	DurationMinutes       int       `json:"durationMinutes"`
	MeetingType           string    `json:"meetingType"`
	Location              string    `json:"location"`
	MeetingLink           string    `json:"meetingLink"`
	SendReminders         bool      `json:"sendReminders"`
	ReminderHours         int       `json:"reminderHours"`
	ForceSchedule         bool      `json:"forceSchedule"`
}

// Schedule handles POST /api/schedule.
func (h *SchedulingHandler) Schedule(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor identity"})
		return
	}

	var input scheduleRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	req := models.SchedulingRequest{
		CandidateID:     input.CandidateID,
		Start:           input.Start,
		DurationMinutes: input.DurationMinutes,
		MeetingType:     input.MeetingType,
		Location:        input.Location,
		MeetingLink:     input.MeetingLink,
		SendReminders:   input.SendReminders,
		ReminderHours:   input.ReminderHours,
		ForceSchedule:   input.ForceSchedule,
		RequestedBy:     actor,
	}

	// An absent interviewer reference is left zero so the engine reports it
	// alongside the other field errors; only the ambiguous case dies here.
	if input.InterviewerID != "" || input.CustomInterviewerName != "" {
		ref, err := models.NewInterviewerRef(input.InterviewerID, input.CustomInterviewerName)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "invalid scheduling request",
				"fields":  gin.H{"interviewer": err.Error()},
			})
			return
		}
		req.Interviewer = ref
	}

	result, err := h.Engine.Schedule(c.Request.Context(), req)
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type suggestRequestInput struct {
	CandidateID     string    `json:"candidateId"`
	InterviewerID   string    `json:"interviewerId"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`
	MaxResults      int       `json:"maxResults"`
	HorizonDays     int       `json:"horizonDays"`
}

// Suggest handles POST /api/schedule/suggest: alternative-slot discovery
// without attempting a booking.
func (h *SchedulingHandler) Suggest(c *gin.Context) {
	var input suggestRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.CandidateID == "" || input.Start.IsZero() ||
		input.DurationMinutes < models.MinDurationMinutes || input.DurationMinutes > models.MaxDurationMinutes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidateId, start, and a valid durationMinutes are required"})
		return
	}

	ctx := c.Request.Context()
	participants := make([]*models.Participant, 0, 2)
	for _, id := range []string{input.CandidateID, input.InterviewerID} {
		if id == "" {
			continue
		}
		p, err := h.Directory.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "participant " + id + " not found"})
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "failed to resolve participant", err.Error())
			return
		}
		participants = append(participants, p)
	}

	horizon := input.HorizonDays
	if horizon <= 0 {
		horizon = config.AppConfig.SuggestionHorizonDays
	}
	slots, err := h.Suggester.Suggest(ctx, participants, input.Start, input.DurationMinutes, input.MaxResults, horizon)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "slot suggestion failed", err.Error())
		return
	}
	if slots == nil {
		slots = []models.ProposedSlot{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestedTimes": slots})
}

// GetAvailability handles GET /api/participants/:id/availability. With an `at`
// query it resolves a concrete check; without one it returns the raw weekly
// windows.
func (h *SchedulingHandler) GetAvailability(c *gin.Context) {
	participantID := c.Param("id")
	ctx := c.Request.Context()

	if at := c.Query("at"); at != "" {
		instant, err := time.Parse(time.RFC3339, at)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC3339", "details": err.Error()})
			return
		}
		duration := 60
		if d := c.Query("duration"); d != "" {
			parsed, err := strconv.Atoi(d)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be a positive number of minutes"})
				return
			}
			duration = parsed
		}

		participant, err := h.Directory.GetByID(ctx, participantID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "participant " + participantID + " not found"})
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "failed to resolve participant", err.Error())
			return
		}
		check, err := h.Availability.Resolve(ctx, participant, instant, duration)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "availability resolution failed", err.Error())
			return
		}
		c.JSON(http.StatusOK, check)
		return
	}

	windows, err := h.Directory.ListWindows(ctx, participantID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch availability windows", err.Error())
		return
	}
	if windows == nil {
		windows = []models.AvailabilityWindow{}
	}
	c.JSON(http.StatusOK, gin.H{"participantId": participantID, "windows": windows})
}

// GetBooking handles GET /api/bookings/:id.
func (h *SchedulingHandler) GetBooking(c *gin.Context) {
	booking, err := h.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "booking " + c.Param("id") + " not found"})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, booking)
}

type bookingUpdateInput struct {
	Start           *time.Time `json:"start"`
	DurationMinutes *int       `json:"durationMinutes"`
	Location        *string    `json:"location"`
	MeetingLink     *string    `json:"meetingLink"`
	Status          *string    `json:"status"`
	ForceSchedule   bool       `json:"forceSchedule"`
}

// UpdateBooking handles PATCH /api/bookings/:id: external reschedules and
// status transitions, with a conflict re-check when the time changes.
func (h *SchedulingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor identity"})
		return
	}

	var input bookingUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	update := scheduling.BookingUpdate{
		Start:           input.Start,
		DurationMinutes: input.DurationMinutes,
		Location:        input.Location,
		MeetingLink:     input.MeetingLink,
		ForceSchedule:   input.ForceSchedule,
		RequestedBy:     actor,
	}
	if input.Status != nil {
		status := models.BookingStatus(*input.Status)
		switch status {
		case models.StatusScheduled, models.StatusCancelled, models.StatusCompleted, models.StatusNoShow:
			update.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown booking status " + *input.Status})
			return
		}
	}

	result, err := h.Engine.Reschedule(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelBooking handles DELETE /api/bookings/:id.
func (h *SchedulingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor identity"})
		return
	}

	result, err := h.Engine.Cancel(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeSchedulingError maps the engine's error taxonomy onto HTTP responses.
// Availability and conflict rejections share 409 but stay distinguishable by
// payload shape.
func (h *SchedulingHandler) writeSchedulingError(c *gin.Context, err error) {
	var (
		validationErr   *scheduling.ValidationError
		notFoundErr     *scheduling.NotFoundError
		availabilityErr *scheduling.AvailabilityError
		conflictErr     *scheduling.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid scheduling request",
			"fields":  validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Error()})
	case errors.As(err, &availabilityErr):
		c.JSON(http.StatusConflict, gin.H{
			"message":             availabilityErr.Error(),
			"outsideAvailability": true,
			"dayOfWeek":           availabilityErr.DayOfWeek.String(),
			"requestedLocalTime":  availabilityErr.LocalTimeRange,
			"crossesMidnight":     availabilityErr.CrossesMidnight,
			"availableSlots":      availabilityErr.AvailableSlots,
			"suggestionDays":      weekdayNames(availabilityErr.SuggestionDays),
			"suggestionText":      availabilityErr.SuggestionText,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"message":        conflictErr.Error(),
			"conflicts":      conflictErr.Conflicts,
			"suggestedTimes": conflictErr.SuggestedTimes,
			"warnings":       conflictErr.Warnings,
		})
	default:
		h.Logger.Error("scheduling request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "scheduling failed", err.Error())
	}
}

func weekdayNames(days []time.Weekday) []string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return names
}
