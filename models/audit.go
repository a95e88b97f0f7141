package models

import "time"

// AuditEvent records one conflict-alert dispatch for traceability: once at
// detection, and once more if the booking proceeds despite the conflict.
type AuditEvent struct {
	ID          string     `bson:"id" json:"id"`
	CandidateID string     `bson:"candidateId" json:"candidateId"`
	Interviewer string     `bson:"interviewer" json:"interviewer"`
	Start       time.Time  `bson:"start" json:"start"`
	End         time.Time  `bson:"end" json:"end"`
	Forced      bool       `bson:"forced" json:"forced"`
	ActorID     string     `bson:"actorId" json:"actorId"`
	ActorEmail  string     `bson:"actorEmail" json:"actorEmail"`
	Conflicts   []Conflict `bson:"conflicts" json:"conflicts"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
}
