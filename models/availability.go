package models

import "time"

// AvailabilityWindow is a recurring weekly local-time range during which a
// participant may be booked. Times are zero-padded "HH:MM" strings in the
// participant's own timezone; multiple non-overlapping windows per day are
// allowed.
type AvailabilityWindow struct {
	ID            string       `bson:"id" json:"id"`
	ParticipantID string       `bson:"participantId" json:"participantId"`
	DayOfWeek     time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime     string       `bson:"startTime" json:"startTime"`
	EndTime       string       `bson:"endTime" json:"endTime"`
	Active        bool         `bson:"active" json:"active"`
}

// AvailabilityCheck is the result of resolving a proposed instant against a
// participant's weekly windows, computed in that participant's timezone.
type AvailabilityCheck struct {
	IsOpen          bool                 `json:"isOpen"`
	DayOfWeek       time.Weekday         `json:"dayOfWeek"`
	LocalStart      string               `json:"localStart"` // "HH:MM" in the participant's timezone
	LocalEnd        string               `json:"localEnd"`
	CrossesMidnight bool                 `json:"crossesMidnight,omitempty"`
	Windows         []AvailabilityWindow `json:"windows,omitempty"`        // active windows for that weekday
	SuggestionDays  []time.Weekday       `json:"suggestionDays,omitempty"` // weekdays that do have active windows
}

// HasAvailabilityModel reports whether the participant has any configured
// windows at all. A participant without windows is unconstrained rather than
// permanently closed.
func (c AvailabilityCheck) HasAvailabilityModel() bool {
	return c.IsOpen || len(c.Windows) > 0 || len(c.SuggestionDays) > 0
}
