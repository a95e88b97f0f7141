package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"hireloop/models"
)

// Commit locks are short-lived: they only need to cover one insert plus one
// overlap query.
const commitLockTTL = 10 * time.Second

// acquireCommitLock takes the per-interviewer Redis lock that serializes
// booking commits. Serializing per interviewer subsumes the per-interval
// guard: the overlap re-check inside the lock decides the winner. A held lock
// means another commit for this interviewer is in flight, which is treated as
// the slot being taken.
func (repo *MongoBookingRepo) acquireCommitLock(ctx context.Context, booking *models.Booking) (func(), error) {
	if repo.locks == nil {
		return func() {}, nil
	}

	owner := booking.InterviewerID
	if owner == "" {
		owner = "name:" + booking.InterviewerName
	}
	key := fmt.Sprintf("commitlock:%s", owner)

	ok, err := repo.locks.SetNX(ctx, key, booking.ID, commitLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("error acquiring commit lock for %s: %w", owner, err)
	}
	if !ok {
		return nil, models.ErrSlotTaken
	}

	unlock := func() {
		delCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		repo.locks.Del(delCtx, key)
	}
	return unlock, nil
}
