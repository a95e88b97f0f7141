package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireloop/database"
	"hireloop/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const queryTimeout = 5 * time.Second

// MongoBookingRepo implements the scheduling BookingStore using MongoDB plus a
// Redis lock guarding the commit against the check-then-act race.
type MongoBookingRepo struct {
	coll  *mongo.Collection
	locks *redis.Client
}

// NewMongoBookingRepo constructs a booking repository.
func NewMongoBookingRepo(locks *redis.Client) *MongoBookingRepo {
	return &MongoBookingRepo{
		coll:  database.DB().Collection("bookings"),
		locks: locks,
	}
}

// Create inserts a booking. For interview bookings the insert runs under the
// interviewer commit lock and re-checks overlaps inside it, so a concurrent
// request that already won the interval surfaces as models.ErrSlotTaken.
func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if booking.Kind == models.KindInterview {
		unlock, err := repo.acquireCommitLock(ctx, booking)
		if err != nil {
			return err
		}
		defer unlock()

		taken, err := repo.hasBlockingOverlap(ctx, booking)
		if err != nil {
			return err
		}
		if taken {
			return models.ErrSlotTaken
		}
	}

	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// Update modifies an existing booking document.
func (repo *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"id": booking.ID}
	update := bson.M{"$set": booking}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", booking.ID, models.ErrNotFound)
	}
	return nil
}

// ListForParticipant returns all commitments of a participant whose interval
// touches [from, to), of any kind. Touching endpoints are excluded by the
// strict comparisons.
func (repo *MongoBookingRepo) ListForParticipant(ctx context.Context, email string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"participantEmails": email,
		"start":             bson.M{"$lt": to},
		"end":               bson.M{"$gt": from},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// hasBlockingOverlap checks, inside the commit lock, whether a scheduled
// blocking commitment of the same interviewer overlaps the new interval. The
// filter is the query-side form of models.Booking.Blocking: interviews, time
// off, and confirmed external entries block; tentative external entries do
// not.
func (repo *MongoBookingRepo) hasBlockingOverlap(ctx context.Context, booking *models.Booking) (bool, error) {
	var ownerFilter bson.M
	switch {
	case booking.InterviewerID != "":
		ownerFilter = bson.M{"interviewerId": booking.InterviewerID}
	case booking.InterviewerName != "":
		ownerFilter = bson.M{"interviewerName": booking.InterviewerName}
	default:
		return false, nil
	}

	filter := bson.M{
		"status": models.StatusScheduled,
		"$or": []bson.M{
			{"kind": bson.M{"$in": []models.BookingKind{models.KindInterview, models.KindPTO}}},
			{"kind": models.KindExternalCalendar, "tentative": bson.M{"$ne": true}},
		},
		"start": bson.M{"$lt": booking.End},
		"end":   bson.M{"$gt": booking.Start},
	}
	for k, v := range ownerFilter {
		filter[k] = v
	}

	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error checking commit overlap: %w", err)
	}
	return count > 0, nil
}
