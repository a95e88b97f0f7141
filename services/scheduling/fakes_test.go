package scheduling

import (
	"context"
	"sync"
	"time"

	"hireloop/models"

	"go.uber.org/zap"
)

// In-memory fakes for the engine's collaborator interfaces.

type fakeDirectory struct {
	participants map[string]*models.Participant
	windows      map[string][]models.AvailabilityWindow
}

func newFakeDirectory(participants ...*models.Participant) *fakeDirectory {
	d := &fakeDirectory{
		participants: make(map[string]*models.Participant),
		windows:      make(map[string][]models.AvailabilityWindow),
	}
	for _, p := range participants {
		d.participants[p.ID] = p
	}
	return d
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (*models.Participant, error) {
	p, ok := d.participants[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (d *fakeDirectory) ListWindows(_ context.Context, participantID string) ([]models.AvailabilityWindow, error) {
	return d.windows[participantID], nil
}

func (d *fakeDirectory) setWindows(participantID string, windows ...models.AvailabilityWindow) {
	d.windows[participantID] = windows
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	createErr error // returned once by the next Create, then cleared
	updateErr error
}

func newFakeBookingStore(existing ...*models.Booking) *fakeBookingStore {
	s := &fakeBookingStore{bookings: make(map[string]*models.Booking)}
	for _, b := range existing {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeBookingStore) Create(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		err := s.createErr
		s.createErr = nil
		return err
	}
	cp := *booking
	s.bookings[booking.ID] = &cp
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBookingStore) Update(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.bookings[booking.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *booking
	s.bookings[booking.ID] = &cp
	return nil
}

func (s *fakeBookingStore) ListForParticipant(_ context.Context, email string, from, to time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if !containsEmail(b.ParticipantEmails, email) {
			continue
		}
		if b.Start.Before(to) && b.End.After(from) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func containsEmail(emails []string, email string) bool {
	for _, e := range emails {
		if e == email {
			return true
		}
	}
	return false
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeNotifier struct {
	mu       sync.Mutex
	emails   []sentEmail
	pushes   int
	emailErr error
}

func (n *fakeNotifier) SendEmail(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.emailErr != nil {
		return n.emailErr
	}
	n.emails = append(n.emails, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (n *fakeNotifier) SendPush(_ context.Context, _ *models.Participant, _, _ string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes++
	return nil
}

type fakeAudit struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (a *fakeAudit) RecordConflictAlert(_ context.Context, event models.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

type fakeCalendar struct {
	created   int
	updated   int
	deleted   []string
	createErr error
}

func (c *fakeCalendar) CreateEvent(_ context.Context, _ *models.Booking) (string, error) {
	if c.createErr != nil {
		return "", c.createErr
	}
	c.created++
	return "evt-1", nil
}

func (c *fakeCalendar) UpdateEvent(_ context.Context, _ *models.Booking) error {
	c.updated++
	return nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	c.deleted = append(c.deleted, eventID)
	return nil
}

type fakeReminders struct {
	scheduled []models.ReminderPayload
	err       error
}

func (r *fakeReminders) Schedule(_ context.Context, payload models.ReminderPayload, _ time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.scheduled = append(r.scheduled, payload)
	return nil
}

// newTestEngine wires a full orchestrator around the fakes. Optional
// integrations are left nil unless a test sets them.
func newTestEngine(dir *fakeDirectory, store *fakeBookingStore, audit *fakeAudit) *Orchestrator {
	availability := &AvailabilityResolver{Directory: dir}
	detector := &ConflictDetector{Bookings: store}
	suggester := &SlotSuggester{Availability: availability, Detector: detector}
	detector.Suggester = suggester

	return &Orchestrator{
		Directory:            dir,
		Bookings:             store,
		Availability:         availability,
		Detector:             detector,
		Suggester:            suggester,
		Alerts:               &AlertDispatcher{Audit: audit, Logger: zap.NewNop()},
		Logger:               zap.NewNop(),
		DefaultReminderHours: 24,
	}
}

func window(participantID string, day time.Weekday, start, end string) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		ID:            participantID + "-" + day.String() + "-" + start,
		ParticipantID: participantID,
		DayOfWeek:     day,
		StartTime:     start,
		EndTime:       end,
		Active:        true,
	}
}

func testCandidate() *models.Participant {
	return &models.Participant{
		ID:       "cand-1",
		Email:    "candidate@example.com",
		Name:     "Casey Candidate",
		Timezone: "UTC",
		Role:     "candidate",
	}
}

func testInterviewer(tz string) *models.Participant {
	return &models.Participant{
		ID:       "int-1",
		Email:    "interviewer@example.com",
		Name:     "Iris Interviewer",
		Timezone: tz,
		Role:     "interviewer",
	}
}

func interviewAt(id string, emails []string, start time.Time, minutes int) *models.Booking {
	return &models.Booking{
		ID:                id,
		Kind:              models.KindInterview,
		Status:            models.StatusScheduled,
		ParticipantEmails: emails,
		Start:             start,
		End:               start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes:   minutes,
	}
}
