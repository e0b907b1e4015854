package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"courtfinder/locks"
	"courtfinder/models"
	"courtfinder/repository"
	"courtfinder/repository/memory"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type staticCourts map[int64]bool

func (c staticCourts) Exists(_ context.Context, id int64) (bool, error) {
	return c[id], nil
}

type fixture struct {
	store    *memory.Store
	guard    *locks.Striped
	clock    *clockwork.FakeClock
	notifier *recordingNotifier
	votes    *VoteService
	reviews  *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		guard:    locks.NewStriped(16),
		clock:    clockwork.NewFakeClockAt(baseTime),
		notifier: &recordingNotifier{},
	}
	f.votes = NewVoteService(VoteServiceOptions{
		Store:    f.store,
		Guard:    f.guard,
		Notifier: f.notifier,
		Clock:    f.clock,
	})
	f.reviews = NewReviewService(ReviewServiceOptions{
		Store:  f.store,
		Guard:  f.guard,
		Courts: staticCourts{100: true, 200: true},
		Clock:  f.clock,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, id uint, name string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Email: name + "@example.com", DisplayName: name}
	require.NoError(t, f.store.Users().Save(context.Background(), u))
	return u
}

func (f *fixture) addReview(t *testing.T, id uint, authorID uint, courtID int64, rating int, createdAt time.Time) *models.Review {
	t.Helper()
	r := &models.Review{
		ID:        id,
		CourtID:   courtID,
		UserID:    authorID,
		Body:      "review body",
		Rating:    rating,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.store.Reviews().Save(context.Background(), r))
	return r
}

func (f *fixture) user(t *testing.T, id uint) *models.User {
	t.Helper()
	u, err := f.store.Users().FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) review(t *testing.T, id uint) *models.Review {
	t.Helper()
	r, err := f.store.Reviews().FindByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

// assertConsistent kiểm tra VoteCount và bộ đếm tác giả khớp với bảng vote
func assertConsistent(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()

	tallies, err := store.Votes().TallyByReview(ctx)
	require.NoError(t, err)
	reviews, err := store.Reviews().FindAll(ctx)
	require.NoError(t, err)

	received := map[uint]repository.Tally{}
	for _, r := range reviews {
		tally := tallies[r.ID]
		assert.Equal(t, tally.Net(), r.VoteCount, "vote count of review %d", r.ID)
		acc := received[r.UserID]
		acc.Upvotes += tally.Upvotes
		acc.Downvotes += tally.Downvotes
		received[r.UserID] = acc
	}

	users, err := store.Users().FindAll(ctx)
	require.NoError(t, err)
	for _, u := range users {
		assert.Equal(t, received[u.ID].Upvotes, u.UpvoteCount, "upvotes of user %d", u.ID)
		assert.Equal(t, received[u.ID].Downvotes, u.DownvoteCount, "downvotes of user %d", u.ID)
	}
}
