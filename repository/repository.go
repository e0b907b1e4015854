package repository

import (
	"context"
	"errors"

	"courtfinder/models"
)

// ErrNotFound được trả về khi bản ghi không tồn tại
var ErrNotFound = errors.New("not found")

// ErrDuplicate được trả về khi vi phạm unique index
var ErrDuplicate = errors.New("duplicate key")

// Tally là số vote của một review theo từng loại
type Tally struct {
	Upvotes   int
	Downvotes int
}

// Net là VoteCount tương ứng với Tally
func (t Tally) Net() int {
	return t.Upvotes - t.Downvotes
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	// IncrementVoteCounts cộng dồn nguyên tử, không đọc-rồi-ghi
	IncrementVoteCounts(ctx context.Context, id uint, upDelta, downDelta int) error
	SetVoteCounts(ctx context.Context, id uint, up, down int) error
}

type ReviewRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	FindByCourtAndUser(ctx context.Context, courtID int64, userID uint) (*models.Review, error)
	// FindByCourt trả về review kèm tác giả, theo thứ tự id tăng dần
	FindByCourt(ctx context.Context, courtID int64) ([]models.Review, error)
	FindAll(ctx context.Context) ([]models.Review, error)
	Save(ctx context.Context, review *models.Review) error
	DeleteByID(ctx context.Context, id uint) error
	IncrementVoteCount(ctx context.Context, id uint, delta int) error
	SetVoteCount(ctx context.Context, id uint, count int) error
}

type VoteRepository interface {
	FindByUserAndReview(ctx context.Context, userID, reviewID uint) (*models.Vote, error)
	// FindByUserAndReviews lấy vote của một user trên nhiều review trong một truy vấn
	FindByUserAndReviews(ctx context.Context, userID uint, reviewIDs []uint) ([]models.Vote, error)
	FindByReview(ctx context.Context, reviewID uint) ([]models.Vote, error)
	Save(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, vote *models.Vote) error
	DeleteByReview(ctx context.Context, reviewID uint) error
	TallyByReview(ctx context.Context) (map[uint]Tally, error)
}

type CourtRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Court, error)
	Save(ctx context.Context, court *models.Court) error
}

// Store gom các repository và cho phép chạy chúng trong một transaction
type Store interface {
	Users() UserRepository
	Reviews() ReviewRepository
	Votes() VoteRepository
	Courts() CourtRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
