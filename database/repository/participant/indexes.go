package participantRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func upsertOptions() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

// EnsureIndexes creates the necessary indexes on the participant collections.
func (repo *MongoParticipantRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	participantIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
	}
	if _, err := repo.participantColl.Indexes().CreateMany(ctx, participantIndexes); err != nil {
		return fmt.Errorf("failed to create participant indexes: %w", err)
	}

	windowIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "participantId", Value: 1}, {Key: "dayOfWeek", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("participant_day_active_idx"),
		},
	}
	if _, err := repo.windowColl.Indexes().CreateMany(ctx, windowIndexes); err != nil {
		return fmt.Errorf("failed to create window indexes: %w", err)
	}
	return nil
}
