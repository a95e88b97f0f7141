package scheduling

import (
	"context"
	"testing"
	"time"

	"hireloop/models"
)

func newSuggestFixture(t *testing.T, existing ...*models.Booking) (*SlotSuggester, *fakeDirectory, []*models.Participant) {
	t.Helper()
	interviewer := testInterviewer("UTC")
	candidate := testCandidate()
	dir := newFakeDirectory(interviewer, candidate)
	dir.setWindows(interviewer.ID, window(interviewer.ID, time.Monday, "09:00", "12:00"))

	store := newFakeBookingStore(existing...)
	availability := &AvailabilityResolver{Directory: dir}
	detector := &ConflictDetector{Bookings: store}
	suggester := &SlotSuggester{Availability: availability, Detector: detector}
	return suggester, dir, []*models.Participant{candidate, interviewer}
}

func TestSlotSuggester_Suggest(t *testing.T) {
	ctx := context.Background()
	at9am := monday.Add(9 * time.Hour)

	t.Run("returns earliest free slots in order", func(t *testing.T) {
		suggester, _, participants := newSuggestFixture(t,
			interviewAt("b-1", []string{"interviewer@example.com"}, at9am, 60),
		)

		slots, err := suggester.Suggest(ctx, participants, at9am, 60, 3, 0)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if len(slots) != 3 {
			t.Fatalf("got %d slots, want 3", len(slots))
		}
		// Window is Monday 09:00-12:00 with 09:00-10:00 booked, so the earliest
		// fits are 10:00, 10:30, 11:00.
		want := []time.Time{at9am.Add(time.Hour), at9am.Add(90 * time.Minute), at9am.Add(2 * time.Hour)}
		for i, w := range want {
			if !slots[i].Start.Equal(w) {
				t.Errorf("slots[%d] = %v, want %v", i, slots[i].Start, w)
			}
		}
	})

	t.Run("every suggestion is open and conflict-free", func(t *testing.T) {
		suggester, _, participants := newSuggestFixture(t,
			interviewAt("b-1", []string{"interviewer@example.com"}, at9am.Add(30*time.Minute), 45),
		)

		slots, err := suggester.Suggest(ctx, participants, at9am, 60, 5, 21)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if len(slots) == 0 {
			t.Fatalf("expected at least one suggestion")
		}
		for _, slot := range slots {
			ok, err := suggester.allOpen(ctx, participants, slot.Start, slot.DurationMinutes)
			if err != nil {
				t.Fatalf("allOpen() error = %v", err)
			}
			if !ok {
				t.Errorf("suggested slot %v is outside availability", slot.Start)
			}
			report, err := suggester.Detector.Check(ctx,
				[]string{"candidate@example.com", "interviewer@example.com"},
				slot.Start, slot.End(), "")
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if len(report.HardConflicts()) > 0 {
				t.Errorf("suggested slot %v still has hard conflicts", slot.Start)
			}
		}
	})

	t.Run("horizon exhaustion returns fewer results", func(t *testing.T) {
		suggester, dir, participants := newSuggestFixture(t)
		// Shrink the only window so a 60-minute interview fits exactly once per
		// week, then search a one-day horizon that contains no Monday.
		dir.setWindows("int-1", window("int-1", time.Monday, "09:00", "10:00"))

		tuesday := monday.AddDate(0, 0, 1).Add(9 * time.Hour)
		slots, err := suggester.Suggest(ctx, participants, tuesday, 60, 3, 1)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if len(slots) != 0 {
			t.Errorf("got %d slots within an empty horizon, want 0", len(slots))
		}
	})

	t.Run("participants without windows are unconstrained", func(t *testing.T) {
		interviewer := testInterviewer("UTC")
		candidate := testCandidate()
		dir := newFakeDirectory(interviewer, candidate)
		// Nobody has windows at all; only conflicts can exclude slots.
		store := newFakeBookingStore()
		availability := &AvailabilityResolver{Directory: dir}
		detector := &ConflictDetector{Bookings: store}
		suggester := &SlotSuggester{Availability: availability, Detector: detector}

		slots, err := suggester.Suggest(ctx, []*models.Participant{candidate, interviewer}, at9am, 60, 2, 0)
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if len(slots) != 2 {
			t.Fatalf("got %d slots, want 2", len(slots))
		}
		if !slots[0].Start.Equal(at9am) {
			t.Errorf("first slot = %v, want the original start itself", slots[0].Start)
		}
	})
}
