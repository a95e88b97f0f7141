package models

// Participant is anyone who can appear on a booking: an interviewer or a
// candidate. Immutable for the duration of a scheduling operation.
type Participant struct {
	ID       string `bson:"id" json:"id"`
	Email    string `bson:"email" json:"email"`
	Name     string `bson:"name" json:"name"`
	Timezone string `bson:"timezone" json:"timezone"` // IANA identifier, e.g. "America/Los_Angeles"
	Role     string `bson:"role" json:"role"`         // "interviewer" or "candidate"
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`
}

// Actor roles permitted to override hard conflicts via forceSchedule.
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
)

// Actor identifies who issued a scheduling request. It is always passed
// explicitly into the orchestrator, never read from ambient request state.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Privileged reports whether the actor may force-schedule over hard conflicts.
func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleRecruiter
}
