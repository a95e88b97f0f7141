package auditRepo

import (
	"context"
	"fmt"
	"time"

	"hireloop/database"
	"hireloop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoAuditRepo persists conflict-alert events for traceability.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo constructs an audit sink repository.
func NewMongoAuditRepo() *MongoAuditRepo {
	return &MongoAuditRepo{coll: database.DB().Collection("conflict_alerts")}
}

// RecordConflictAlert inserts one audit event.
func (repo *MongoAuditRepo) RecordConflictAlert(ctx context.Context, event models.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("error recording conflict alert: %w", err)
	}
	return nil
}

// ListForCandidate returns the alert history of a candidate, newest first.
func (repo *MongoAuditRepo) ListForCandidate(ctx context.Context, candidateID string, limit int64) ([]models.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := repo.coll.Find(ctx, bson.M{"candidateId": candidateID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing conflict alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.AuditEvent
	for cursor.Next(ctx) {
		var e models.AuditEvent
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("error decoding conflict alert: %w", err)
		}
		events = append(events, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return events, nil
}
