package participantRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireloop/database"
	"hireloop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const queryTimeout = 5 * time.Second

// MongoParticipantRepo implements the scheduling ParticipantDirectory using
// MongoDB.
type MongoParticipantRepo struct {
	participantColl *mongo.Collection
	windowColl      *mongo.Collection
}

// NewMongoParticipantRepo constructs a participant directory repository.
func NewMongoParticipantRepo() *MongoParticipantRepo {
	db := database.DB()
	return &MongoParticipantRepo{
		participantColl: db.Collection("participants"),
		windowColl:      db.Collection("availability_windows"),
	}
}

// GetByID retrieves a participant document by ID.
func (repo *MongoParticipantRepo) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var participant models.Participant
	err := repo.participantColl.FindOne(ctx, bson.M{"id": id}).Decode(&participant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("participant %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching participant %s: %w", id, err)
	}
	return &participant, nil
}

// ListWindows returns every availability window configured for a participant,
// active or not; the resolver filters on the active flag.
func (repo *MongoParticipantRepo) ListWindows(ctx context.Context, participantID string) ([]models.AvailabilityWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := repo.windowColl.Find(ctx, bson.M{"participantId": participantID})
	if err != nil {
		return nil, fmt.Errorf("error fetching windows for %s: %w", participantID, err)
	}
	defer cursor.Close(ctx)

	var windows []models.AvailabilityWindow
	for cursor.Next(ctx) {
		var w models.AvailabilityWindow
		if err := cursor.Decode(&w); err != nil {
			return nil, fmt.Errorf("error decoding availability window: %w", err)
		}
		windows = append(windows, w)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return windows, nil
}

// UpsertParticipant creates or replaces a directory entry.
func (repo *MongoParticipantRepo) UpsertParticipant(ctx context.Context, p *models.Participant) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := upsertOptions()
	if _, err := repo.participantColl.ReplaceOne(ctx, bson.M{"id": p.ID}, p, opts); err != nil {
		return fmt.Errorf("error upserting participant %s: %w", p.ID, err)
	}
	return nil
}

// ReplaceWindows swaps a participant's weekly windows atomically enough for
// configuration updates: delete then insert.
func (repo *MongoParticipantRepo) ReplaceWindows(ctx context.Context, participantID string, windows []models.AvailabilityWindow) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.windowColl.DeleteMany(ctx, bson.M{"participantId": participantID}); err != nil {
		return fmt.Errorf("error clearing windows for %s: %w", participantID, err)
	}
	if len(windows) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(windows))
	for i := range windows {
		windows[i].ParticipantID = participantID
		docs = append(docs, windows[i])
	}
	if _, err := repo.windowColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error inserting windows for %s: %w", participantID, err)
	}
	return nil
}
