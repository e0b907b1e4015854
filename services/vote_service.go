package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "courtfinder/errors"
	"courtfinder/locks"
	"courtfinder/metrics"
	"courtfinder/models"
	"courtfinder/repository"
	"courtfinder/services/logger"
	"courtfinder/services/notification"

	"github.com/jonboulle/clockwork"
)

// VoteOutcome là kết quả của một thao tác vote
type VoteOutcome struct {
	ReviewID   uint              `json:"reviewId"`
	Transition models.Transition `json:"transition"`
	Type       models.VoteType   `json:"voteType,omitempty"`
	TotalVotes int               `json:"totalVotes"`
}

// ReconcileReport đếm số bản ghi đã được sửa lại
type ReconcileReport struct {
	ReviewsCorrected int `json:"reviewsCorrected"`
	UsersCorrected   int `json:"usersCorrected"`
}

func (r ReconcileReport) Total() int {
	return r.ReviewsCorrected + r.UsersCorrected
}

type VoteService struct {
	store      repository.Store
	guard      *locks.Striped
	aggregates *AggregateUpdater
	logger     logger.Logger
	metrics    *metrics.Metrics
	notifier   notification.Service
	clock      clockwork.Clock
}

type VoteServiceOptions struct {
	Store    repository.Store
	Guard    *locks.Striped
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Notifier notification.Service
	Clock    clockwork.Clock
}

func NewVoteService(opts VoteServiceOptions) *VoteService {
	s := &VoteService{
		store:      opts.Store,
		guard:      opts.Guard,
		aggregates: NewAggregateUpdater(),
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		notifier:   opts.Notifier,
		clock:      opts.Clock,
	}
	if s.guard == nil {
		s.guard = locks.NewStriped(locks.DefaultStripes)
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s
}

// AddVote tạo mới hoặc đảo chiều vote của voterID trên reviewID.
// Vote, tác giả và review được ghi trong cùng một transaction khi đang giữ khóa của review.
func (s *VoteService) AddVote(ctx context.Context, reviewID, voterID uint, voteType models.VoteType) (*VoteOutcome, error) {
	start := s.clock.Now()
	if !voteType.Valid() {
		s.metrics.ObserveVote("add", metrics.ResultRejected, s.clock.Since(start))
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unknown vote type %q", voteType))
	}

	unlock := s.guard.Lock(reviewID)
	defer unlock()

	var outcome *VoteOutcome
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireUser(ctx, tx, voterID); err != nil {
			return err
		}
		review, err := tx.Reviews().FindByID(ctx, reviewID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("review", reviewID)
		}
		if err != nil {
			return fmt.Errorf("find review: %w", err)
		}

		existing, err := findVote(ctx, tx, voterID, reviewID)
		if err != nil {
			return err
		}

		transition, delta, err := models.GetVoteState(existing).Cast(voteType)
		if errors.Is(err, models.ErrSameVote) {
			return apperrors.AlreadyVoted(string(voteType))
		}

		vote := existing
		if vote == nil {
			vote = &models.Vote{UserID: voterID, ReviewID: reviewID}
		}
		vote.Type = voteType
		if err := tx.Votes().Save(ctx, vote); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.AlreadyVoted(string(voteType))
			}
			return fmt.Errorf("save vote: %w", err)
		}

		if err := s.aggregates.Apply(ctx, tx, &review.User, review, delta); err != nil {
			return err
		}

		outcome = &VoteOutcome{
			ReviewID:   reviewID,
			Transition: transition,
			Type:       voteType,
			TotalVotes: review.VoteCount,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("add", "VoteService.AddVote", start, err)
	}

	s.metrics.ObserveVote("add", string(outcome.Transition), s.clock.Since(start))
	s.logger.Info("user %d %s review %d (%s), total %d", voterID, voteType, reviewID, outcome.Transition, outcome.TotalVotes)
	s.notify(outcome)
	return outcome, nil
}

// RemoveVote xóa vote của voterID trên reviewID. Không có vote thì không làm gì và không lỗi.
func (s *VoteService) RemoveVote(ctx context.Context, reviewID, voterID uint) (*VoteOutcome, error) {
	start := s.clock.Now()

	unlock := s.guard.Lock(reviewID)
	defer unlock()

	outcome := &VoteOutcome{ReviewID: reviewID, Transition: models.TransitionNone}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		review, err := tx.Reviews().FindByID(ctx, reviewID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find review: %w", err)
		}
		outcome.TotalVotes = review.VoteCount

		existing, err := findVote(ctx, tx, voterID, reviewID)
		if err != nil || existing == nil {
			return err
		}

		transition, delta := models.GetVoteState(existing).Remove()
		if err := tx.Votes().Delete(ctx, existing); err != nil {
			return fmt.Errorf("delete vote: %w", err)
		}
		if err := s.aggregates.Apply(ctx, tx, &review.User, review, delta); err != nil {
			return err
		}

		outcome.Transition = transition
		outcome.Type = existing.Type
		outcome.TotalVotes = review.VoteCount
		return nil
	})
	if err != nil {
		return nil, s.fail("remove", "VoteService.RemoveVote", start, err)
	}

	if outcome.Transition == models.TransitionNone {
		s.metrics.ObserveVote("remove", metrics.ResultNoop, s.clock.Since(start))
		return outcome, nil
	}
	s.metrics.ObserveVote("remove", metrics.ResultRemoved, s.clock.Since(start))
	s.logger.Info("user %d removed %s on review %d, total %d", voterID, outcome.Type, reviewID, outcome.TotalVotes)
	s.notify(outcome)
	return outcome, nil
}

// Reconcile tính lại VoteCount của mọi review và bộ đếm của mọi tác giả từ bảng vote,
// sửa những bản ghi bị lệch. Toàn bộ stripe bị khóa trong lúc chạy.
func (s *VoteService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	unlock := s.guard.LockAll()
	defer unlock()

	var report ReconcileReport
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		tallies, err := tx.Votes().TallyByReview(ctx)
		if err != nil {
			return fmt.Errorf("tally votes: %w", err)
		}
		reviews, err := tx.Reviews().FindAll(ctx)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}

		received := make(map[uint]repository.Tally)
		for _, r := range reviews {
			t := tallies[r.ID]
			if r.VoteCount != t.Net() {
				if err := tx.Reviews().SetVoteCount(ctx, r.ID, t.Net()); err != nil {
					return fmt.Errorf("set vote count of review %d: %w", r.ID, err)
				}
				s.logger.Info("review %d vote count corrected %d -> %d", r.ID, r.VoteCount, t.Net())
				report.ReviewsCorrected++
			}
			acc := received[r.UserID]
			acc.Upvotes += t.Upvotes
			acc.Downvotes += t.Downvotes
			received[r.UserID] = acc
		}

		users, err := tx.Users().FindAll(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		for _, u := range users {
			want := received[u.ID]
			if u.UpvoteCount == want.Upvotes && u.DownvoteCount == want.Downvotes {
				continue
			}
			if err := tx.Users().SetVoteCounts(ctx, u.ID, want.Upvotes, want.Downvotes); err != nil {
				return fmt.Errorf("set tallies of user %d: %w", u.ID, err)
			}
			s.logger.Info("user %d tallies corrected %d/%d -> %d/%d", u.ID, u.UpvoteCount, u.DownvoteCount, want.Upvotes, want.Downvotes)
			report.UsersCorrected++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("reconcile failed: %v", err)
		return ReconcileReport{}, apperrors.Internal("failed to reconcile vote aggregates", err)
	}

	s.metrics.AddCorrections(report.Total())
	return report, nil
}

func (s *VoteService) fail(operation, where string, start time.Time, err error) error {
	result := metrics.ResultError
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeAlreadyVoted):
		result = metrics.ResultAlreadyVoted
	case apperrors.IsAppError(err):
		result = metrics.ResultRejected
	}
	s.metrics.ObserveVote(operation, result, s.clock.Since(start))

	if apperrors.IsAppError(err) {
		return err
	}
	s.logger.Error("%s: %v", where, err)
	return apperrors.Internal("failed to process vote", fmt.Errorf("%s: %w", where, err))
}

func (s *VoteService) notify(o *VoteOutcome) {
	if s.notifier == nil {
		return
	}
	msg, err := notification.NewMessageBuilder(o.ReviewID, o.TotalVotes).
		WithTransition(string(o.Transition), string(o.Type)).
		At(s.clock.Now()).
		Build()
	if err != nil {
		s.logger.Error("build vote event: %v", err)
		return
	}
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Error("broadcast vote event for review %d: %v", o.ReviewID, err)
	}
}

func requireUser(ctx context.Context, store repository.Store, id uint) error {
	exists, err := store.Users().ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return apperrors.NotFound("user", id)
	}
	return nil
}

func findVote(ctx context.Context, store repository.Store, voterID, reviewID uint) (*models.Vote, error) {
	vote, err := store.Votes().FindByUserAndReview(ctx, voterID, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return vote, nil
}
