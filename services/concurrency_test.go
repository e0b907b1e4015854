package services

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"courtfinder/errors"
	"courtfinder/models"
	"courtfinder/repository"
	"courtfinder/repository/memory"

	"github.com/stretchr/testify/assert"
)

// unserializedStore chạy transaction không khóa và không rollback,
// chỉ còn guard của service giữ cho các thao tác trên một review tuần tự
type unserializedStore struct {
	*memory.Store
}

func (s unserializedStore) Votes() repository.VoteRepository {
	return yieldingVotes{s.Store.Votes()}
}

func (s unserializedStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	runtime.Gosched()
	return fn(s)
}

// yieldingVotes nhường CPU sau mỗi lần đọc vote để mở rộng cửa sổ đọc-rồi-ghi
type yieldingVotes struct {
	repository.VoteRepository
}

func (v yieldingVotes) FindByUserAndReview(ctx context.Context, userID, reviewID uint) (*models.Vote, error) {
	vote, err := v.VoteRepository.FindByUserAndReview(ctx, userID, reviewID)
	runtime.Gosched()
	return vote, err
}

func newUnserializedVotes(f *fixture) *VoteService {
	return NewVoteService(VoteServiceOptions{
		Store:    unserializedStore{f.store},
		Guard:    f.guard,
		Notifier: f.notifier,
		Clock:    f.clock,
	})
}

func acceptableVoteErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		assert.True(t, errors.HasCode(err, errors.ErrCodeAlreadyVoted), "unexpected error: %v", err)
	}
}

func TestSameVoterRacingOnOneReviewWithoutStoreLock(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, 1, "author")
	f.addUser(t, 2, "voter")
	f.addReview(t, 10, 1, 100, 4, baseTime)
	votes := newUnserializedVotes(f)
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(3)
			go func() {
				defer wg.Done()
				_, err := votes.AddVote(ctx, 10, 2, models.Upvote)
				acceptableVoteErr(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := votes.AddVote(ctx, 10, 2, models.Downvote)
				acceptableVoteErr(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := votes.RemoveVote(ctx, 10, 2)
				acceptableVoteErr(t, err)
			}()
		}
		wg.Wait()
		assertConsistent(t, f.store)
	}
}

func TestManyVotersOnOneReviewWithoutStoreLock(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, 1, "author")
	const voters = 30
	for id := uint(2); id < 2+voters; id++ {
		f.addUser(t, id, "voter"+string(rune('A'+id)))
	}
	f.addReview(t, 10, 1, 100, 4, baseTime)
	votes := newUnserializedVotes(f)
	ctx := context.Background()

	var wg sync.WaitGroup
	for id := uint(2); id < 2+voters; id++ {
		wg.Add(1)
		go func(voter uint) {
			defer wg.Done()
			_, err := votes.AddVote(ctx, 10, voter, models.Upvote)
			acceptableVoteErr(t, err)
			_, err = votes.AddVote(ctx, 10, voter, models.Downvote)
			acceptableVoteErr(t, err)
			if voter%3 == 0 {
				_, err = votes.RemoveVote(ctx, 10, voter)
				acceptableVoteErr(t, err)
			}
		}(id)
	}
	wg.Wait()

	assertConsistent(t, f.store)
	review := f.review(t, 10)
	assert.Equal(t, -(voters - voters/3), review.VoteCount)
}
