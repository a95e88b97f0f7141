package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"hireloop/config"
	"hireloop/models"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarSync mirrors bookings into a Google Calendar. It implements
// the scheduling CalendarSync collaborator; callers bound every call with a
// timeout and downgrade failures to warnings.
type GoogleCalendarSync struct {
	service    *gcal.Service
	calendarID string
}

// NewGoogleCalendarSync builds a sync client from service-account credentials.
func NewGoogleCalendarSync(ctx context.Context) (*GoogleCalendarSync, error) {
	credFile := config.AppConfig.GoogleCredentialsFile
	if credFile == "" {
		return nil, fmt.Errorf("google calendar sync requires GOOGLE_CREDENTIALS_FILE")
	}

	b, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("reading google credentials: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(b, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	service, err := gcal.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &GoogleCalendarSync{
		service:    service,
		calendarID: config.AppConfig.GoogleCalendarID,
	}, nil
}

func (s *GoogleCalendarSync) event(booking *models.Booking) *gcal.Event {
	summary := fmt.Sprintf("Interview: candidate %s", booking.CandidateID)
	attendees := make([]*gcal.EventAttendee, 0, len(booking.ParticipantEmails))
	for _, email := range booking.ParticipantEmails {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	return &gcal.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Meeting type: %s", booking.MeetingType),
		Location:    booking.Location,
		Attendees:   attendees,
		Start:       &gcal.EventDateTime{DateTime: booking.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: booking.End.Format(time.RFC3339)},
	}
}

// CreateEvent mirrors a booking as a new calendar event and returns its id.
func (s *GoogleCalendarSync) CreateEvent(ctx context.Context, booking *models.Booking) (string, error) {
	created, err := s.service.Events.Insert(s.calendarID, s.event(booking)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating calendar event: %w", err)
	}
	return created.Id, nil
}

// UpdateEvent pushes the booking's current time and place onto its event.
func (s *GoogleCalendarSync) UpdateEvent(ctx context.Context, booking *models.Booking) error {
	if booking.CalendarEventID == "" {
		return fmt.Errorf("booking %s has no calendar event", booking.ID)
	}
	_, err := s.service.Events.Update(s.calendarID, booking.CalendarEventID, s.event(booking)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating calendar event %s: %w", booking.CalendarEventID, err)
	}
	return nil
}

// DeleteEvent removes the calendar mirror of a cancelled booking.
func (s *GoogleCalendarSync) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.service.Events.Delete(s.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting calendar event %s: %w", eventID, err)
	}
	return nil
}
