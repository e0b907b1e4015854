package services

import (
	"context"
	"errors"
	"fmt"

	"courtfinder/builders"
	"courtfinder/constants"
	"courtfinder/dto"
	apperrors "courtfinder/errors"
	"courtfinder/locks"
	"courtfinder/metrics"
	"courtfinder/models"
	"courtfinder/repository"
	"courtfinder/services/logger"
	"courtfinder/validator"

	"github.com/jonboulle/clockwork"
)

// CourtResolver kiểm tra một court id có tồn tại hay không
type CourtResolver interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ReviewService struct {
	store      repository.Store
	guard      *locks.Striped
	aggregates *AggregateUpdater
	cache      RatingCache
	courts     CourtResolver
	logger     logger.Logger
	metrics    *metrics.Metrics
	clock      clockwork.Clock
}

type ReviewServiceOptions struct {
	Store   repository.Store
	Guard   *locks.Striped
	Cache   RatingCache
	Courts  CourtResolver
	Logger  logger.Logger
	Metrics *metrics.Metrics
	Clock   clockwork.Clock
}

func NewReviewService(opts ReviewServiceOptions) *ReviewService {
	s := &ReviewService{
		store:      opts.Store,
		guard:      opts.Guard,
		aggregates: NewAggregateUpdater(),
		cache:      opts.Cache,
		courts:     opts.Courts,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
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

type ListReviewsParams struct {
	CourtID int64
	// CallerID bằng 0 nghĩa là người xem ẩn danh
	CallerID uint
	Page     int
	PageSize int
	Sort     SortMethod
}

// ListReviews trả về review của một sân: review của người xem được tách riêng,
// phần còn lại được sắp xếp rồi phân trang. Trạng thái vote của người xem
// được lấy bằng một truy vấn duy nhất.
func (s *ReviewService) ListReviews(ctx context.Context, p ListReviewsParams) (*dto.ReviewListResponse, error) {
	if p.Page < 1 {
		return nil, apperrors.InvalidArgument("page must be at least 1")
	}
	if p.PageSize < 1 {
		return nil, apperrors.InvalidArgument("reviewsPerPage must be at least 1")
	}
	sortMethod, err := ParseSortMethod(string(p.Sort))
	if err != nil {
		return nil, apperrors.InvalidArgument(err.Error())
	}

	reviews, err := s.store.Reviews().FindByCourt(ctx, p.CourtID)
	if err != nil {
		return nil, s.internal("ReviewService.ListReviews", "failed to load reviews", err)
	}
	if len(reviews) == 0 {
		return &dto.ReviewListResponse{OtherReviews: []dto.ReviewResponse{}}, nil
	}

	sortReviews(reviews, sortMethod)

	votes := map[uint]models.VoteType{}
	if p.CallerID != 0 {
		ids := make([]uint, len(reviews))
		for i, r := range reviews {
			ids[i] = r.ID
		}
		found, err := s.store.Votes().FindByUserAndReviews(ctx, p.CallerID, ids)
		if err != nil {
			return nil, s.internal("ReviewService.ListReviews", "failed to load votes", err)
		}
		for _, v := range found {
			votes[v.ReviewID] = v.Type
		}
	}

	var own *dto.ReviewResponse
	others := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp := toReviewResponse(r, votes[r.ID])
		if p.CallerID != 0 && r.UserID == p.CallerID {
			own = &resp
			continue
		}
		others = append(others, resp)
	}

	return &dto.ReviewListResponse{
		OwnReview:    own,
		OtherReviews: paginate(others, p.Page, p.PageSize),
		TotalOthers:  len(others),
	}, nil
}

// GetReview trả về một review kèm trạng thái vote của người xem
func (s *ReviewService) GetReview(ctx context.Context, reviewID, callerID uint) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, s.store, reviewID)
	if err != nil {
		return nil, err
	}
	var voteType models.VoteType
	if callerID != 0 {
		vote, err := findVote(ctx, s.store, callerID, reviewID)
		if err != nil {
			return nil, s.internal("ReviewService.GetReview", "failed to load vote", err)
		}
		if vote != nil {
			voteType = vote.Type
		}
	}
	resp := toReviewResponse(*review, voteType)
	return &resp, nil
}

// GetCourtRating trả về điểm trung bình (0 nếu chưa có review) và số review của sân
func (s *ReviewService) GetCourtRating(ctx context.Context, courtID int64) (*dto.CourtRatingResponse, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, courtID)
		switch {
		case err != nil:
			s.metrics.ObserveCache("error")
			s.logger.Error("read rating cache for court %d: %v", courtID, err)
		case found:
			s.metrics.ObserveCache("hit")
			return cached, nil
		default:
			s.metrics.ObserveCache("miss")
		}
	}

	reviews, err := s.store.Reviews().FindByCourt(ctx, courtID)
	if err != nil {
		return nil, s.internal("ReviewService.GetCourtRating", "failed to load reviews", err)
	}

	rating := &dto.CourtRatingResponse{Reviews: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		rating.Rating = float64(total) / float64(len(reviews))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, courtID, rating); err != nil {
			s.logger.Error("write rating cache for court %d: %v", courtID, err)
		}
	}
	return rating, nil
}

// CreateReview tạo review mới, mỗi user chỉ có một review cho mỗi sân
func (s *ReviewService) CreateReview(ctx context.Context, callerID uint, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := requireUser(ctx, s.store, callerID); err != nil {
		return nil, s.passOrInternal("ReviewService.CreateReview", err)
	}

	if s.courts != nil {
		exists, err := s.courts.Exists(ctx, req.CourtID)
		if err != nil {
			return nil, s.passOrInternal("ReviewService.CreateReview", err)
		}
		if !exists {
			return nil, apperrors.NotFound("court", req.CourtID)
		}
	}

	_, err := s.store.Reviews().FindByCourtAndUser(ctx, req.CourtID, callerID)
	if err == nil {
		return nil, alreadyReviewed(req.CourtID)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("ReviewService.CreateReview", "failed to check existing review", err)
	}

	review := builders.NewReviewBuilder().
		ForCourt(req.CourtID).
		ByAuthor(callerID).
		WithTitle(req.Title).
		WithBody(req.Body).
		WithRating(req.Rating).
		CreatedAt(s.clock.Now()).
		Build()
	if err := validator.ValidateReview(review); err != nil {
		return nil, err
	}

	if err := s.store.Reviews().Save(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadyReviewed(req.CourtID)
		}
		return nil, s.internal("ReviewService.CreateReview", "failed to save review", err)
	}

	s.invalidateRating(ctx, review.CourtID)
	s.logger.Info("user %d reviewed court %d (review %d, rating %d)", callerID, review.CourtID, review.ID, review.Rating)

	saved, err := s.findReview(ctx, s.store, review.ID)
	if err != nil {
		return nil, err
	}
	resp := toReviewResponse(*saved, "")
	return &resp, nil
}

// PartialUpdate sửa nội dung và/hoặc điểm của review, chỉ tác giả được phép
func (s *ReviewService) PartialUpdate(ctx context.Context, reviewID, callerID uint, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, s.store, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != callerID {
		return nil, apperrors.Forbidden("you are not the author of this review")
	}
	if req.Content == nil && req.Rating == nil {
		return nil, apperrors.InvalidArgument("no changes supplied")
	}
	if req.Rating != nil && (*req.Rating < constants.MinRating || *req.Rating > constants.MaxRating) {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("rating must be between %d and %d", constants.MinRating, constants.MaxRating))
	}

	if req.Content != nil {
		review.Body = *req.Content
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	review.Edited = true
	if err := validator.ValidateReview(review); err != nil {
		return nil, err
	}

	if err := s.store.Reviews().Save(ctx, review); err != nil {
		return nil, s.internal("ReviewService.PartialUpdate", "failed to save review", err)
	}
	s.invalidateRating(ctx, review.CourtID)

	return s.GetReview(ctx, reviewID, callerID)
}

// DeleteReview xóa review của callerID trên sân courtID cùng toàn bộ vote của nó.
// Số vote mà review đã nhận được trừ khỏi bộ đếm của tác giả.
func (s *ReviewService) DeleteReview(ctx context.Context, courtID int64, callerID uint) error {
	if err := requireUser(ctx, s.store, callerID); err != nil {
		return s.passOrInternal("ReviewService.DeleteReview", err)
	}

	if s.courts != nil {
		exists, err := s.courts.Exists(ctx, courtID)
		if err != nil {
			return s.passOrInternal("ReviewService.DeleteReview", err)
		}
		if !exists {
			return apperrors.NotFound("court", courtID)
		}
	}

	review, err := s.store.Reviews().FindByCourtAndUser(ctx, courtID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return reviewNotFoundFor(courtID, callerID)
	}
	if err != nil {
		return s.internal("ReviewService.DeleteReview", "failed to load review", err)
	}

	unlock := s.guard.Lock(review.ID)
	defer unlock()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		current, err := tx.Reviews().FindByID(ctx, review.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return reviewNotFoundFor(courtID, callerID)
		}
		if err != nil {
			return err
		}

		votes, err := tx.Votes().FindByReview(ctx, current.ID)
		if err != nil {
			return err
		}
		var delta models.Delta
		for _, v := range votes {
			delta = delta.Add(models.RemovalDelta(v.Type))
		}
		if err := tx.Votes().DeleteByReview(ctx, current.ID); err != nil {
			return err
		}
		if err := s.aggregates.Apply(ctx, tx, &current.User, nil, delta); err != nil {
			return err
		}
		return tx.Reviews().DeleteByID(ctx, current.ID)
	})
	if err != nil {
		return s.passOrInternal("ReviewService.DeleteReview", err)
	}

	s.invalidateRating(ctx, courtID)
	s.logger.Info("user %d deleted review %d on court %d", callerID, review.ID, courtID)
	return nil
}

func (s *ReviewService) findReview(ctx context.Context, store repository.Store, id uint) (*models.Review, error) {
	review, err := store.Reviews().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("review", id)
	}
	if err != nil {
		return nil, s.internal("ReviewService.findReview", "failed to load review", err)
	}
	return review, nil
}

func (s *ReviewService) invalidateRating(ctx context.Context, courtID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, courtID); err != nil {
		s.logger.Error("invalidate rating cache for court %d: %v", courtID, err)
	}
}

func (s *ReviewService) internal(where, message string, err error) error {
	s.logger.Error("%s: %v", where, err)
	return apperrors.Internal(message, fmt.Errorf("%s: %w", where, err))
}

func (s *ReviewService) passOrInternal(where string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return s.internal(where, "failed to process review", err)
}

func alreadyReviewed(courtID int64) error {
	return apperrors.AlreadyExists(fmt.Sprintf("you already have a review for court %d", courtID))
}

func reviewNotFoundFor(courtID int64, userID uint) error {
	return apperrors.NewAppError(apperrors.ErrCodeNotFound,
		fmt.Sprintf("review with court ID %d and user ID %d not found", courtID, userID), nil)
}

func toReviewResponse(r models.Review, vote models.VoteType) dto.ReviewResponse {
	return dto.ReviewResponse{
		ReviewID:          r.ID,
		CourtID:           r.CourtID,
		Title:             r.Title,
		Content:           r.Body,
		Rating:            r.Rating,
		TotalVotes:        r.VoteCount,
		Edited:            r.Edited,
		CreatedAt:         r.CreatedAt,
		AuthorDisplayName: r.User.DisplayName,
		AuthorTrustScore:  TrustScore(r.User.UpvoteCount, r.User.DownvoteCount),
		IsUpvoted:         vote == models.Upvote,
		IsDownvoted:       vote == models.Downvote,
	}
}
