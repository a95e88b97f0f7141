package models

import "time"

// BookingKind distinguishes what a persisted commitment represents.
type BookingKind string

const (
	KindInterview        BookingKind = "INTERVIEW"
	KindExternalCalendar BookingKind = "EXTERNAL_CALENDAR"
	KindPTO              BookingKind = "PTO"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusScheduled BookingStatus = "SCHEDULED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusNoShow    BookingStatus = "NO_SHOW"
)

// Meeting types supported for interviews.
const (
	MeetingPhone    = "PHONE"
	MeetingVideo    = "VIDEO"
	MeetingInPerson = "IN_PERSON"
)

// Booking represents a persisted, confirmed meeting commitment.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	Kind            BookingKind   `bson:"kind" json:"kind"`
	Status          BookingStatus `bson:"status" json:"status"`
	CandidateID     string        `bson:"candidateId,omitempty" json:"candidateId,omitempty"`
	InterviewerID   string        `bson:"interviewerId,omitempty" json:"interviewerId,omitempty"`
	InterviewerName string        `bson:"interviewerName,omitempty" json:"interviewerName,omitempty"` // custom/external interviewer
	// Emails of every internal participant, used for conflict scans.
	ParticipantEmails []string  `bson:"participantEmails" json:"participantEmails"`
	Start             time.Time `bson:"start" json:"start"`
	End               time.Time `bson:"end" json:"end"` // always start + duration
	DurationMinutes   int       `bson:"durationMinutes" json:"durationMinutes"`
	MeetingType       string    `bson:"meetingType,omitempty" json:"meetingType,omitempty"`
	Location          string    `bson:"location,omitempty" json:"location,omitempty"`
	MeetingLink       string    `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	// Tentative marks external calendar entries whose busy status is ambiguous.
	Tentative       bool      `bson:"tentative,omitempty" json:"tentative,omitempty"`
	CalendarEventID string    `bson:"calendarEventId,omitempty" json:"calendarEventId,omitempty"`
	CreatedBy       string    `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Blocking reports whether an overlap with this booking must block automatic
// scheduling. Interviews and approved time off are hard; external calendar
// entries are hard only when their busy status is confirmed, tentative ones
// are advisory.
func (b *Booking) Blocking() bool {
	if b.Status != StatusScheduled {
		return false
	}
	switch b.Kind {
	case KindInterview, KindPTO:
		return true
	case KindExternalCalendar:
		return !b.Tentative
	default:
		return false
	}
}
