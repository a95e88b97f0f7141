package models

import (
	"errors"
	"time"
)

// Duration bounds for a single interview, in minutes.
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

var (
	ErrInterviewerRefEmpty    = errors.New("interviewer reference requires an id or a name")
	ErrInterviewerRefConflict = errors.New("interviewer reference cannot have both an id and a name")
)

// InterviewerRef is a tagged union: an interviewer is referenced either by a
// directory id or, for external interviewers, by a free-form name. Exactly one
// of the two is present; the constructors enforce this at creation time.
type InterviewerRef struct {
	id   string
	name string
}

// InterviewerByID references an internal interviewer by directory id.
func InterviewerByID(id string) (InterviewerRef, error) {
	if id == "" {
		return InterviewerRef{}, ErrInterviewerRefEmpty
	}
	return InterviewerRef{id: id}, nil
}

// InterviewerByName references an external interviewer that has no directory
// entry and therefore no availability model.
func InterviewerByName(name string) (InterviewerRef, error) {
	if name == "" {
		return InterviewerRef{}, ErrInterviewerRefEmpty
	}
	return InterviewerRef{name: name}, nil
}

// NewInterviewerRef builds a ref from optional id/name fields, rejecting the
// empty and the ambiguous case.
func NewInterviewerRef(id, name string) (InterviewerRef, error) {
	switch {
	case id != "" && name != "":
		return InterviewerRef{}, ErrInterviewerRefConflict
	case id != "":
		return InterviewerByID(id)
	case name != "":
		return InterviewerByName(name)
	default:
		return InterviewerRef{}, ErrInterviewerRefEmpty
	}
}

// ByID returns the directory id, if this ref is internal.
func (r InterviewerRef) ByID() (string, bool) { return r.id, r.id != "" }

// ByName returns the external name, if this ref is external.
func (r InterviewerRef) ByName() (string, bool) { return r.name, r.name != "" }

// IsZero reports whether the ref was never set.
func (r InterviewerRef) IsZero() bool { return r.id == "" && r.name == "" }

// String returns whichever identity is present, for log and alert text.
func (r InterviewerRef) String() string {
	if r.id != "" {
		return r.id
	}
	return r.name
}

// SchedulingRequest carries everything needed to decide whether an interview
// may be booked.
type SchedulingRequest struct {
	CandidateID     string
	Interviewer     InterviewerRef
	Start           time.Time
	DurationMinutes int
	MeetingType     string
	Location        string
	MeetingLink     string
	ReminderHours   int
	SendReminders   bool
	ForceSchedule   bool // effective only when RequestedBy is privileged
	RequestedBy     Actor
}

// End returns the derived end instant of the proposed interval.
func (r SchedulingRequest) End() time.Time {
	return r.Start.Add(time.Duration(r.DurationMinutes) * time.Minute)
}
