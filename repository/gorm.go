package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courtfinder/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore là Store dùng gorm (Postgres khi chạy thật, sqlite trong test)
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository     { return &gormUserRepository{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository { return &gormReviewRepository{db: s.db} }
func (s *GormStore) Votes() VoteRepository     { return &gormVoteRepository{db: s.db} }
func (s *GormStore) Courts() CourtRepository   { return &gormCourtRepository{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&GormStore{db: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

type gormUserRepository struct {
	db *gorm.DB
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save không bao giờ ghi đè bộ đếm vote
func (r *gormUserRepository) Save(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)
	if user.ID == 0 {
		return translate(db.Create(user).Error)
	}
	res := db.Model(user).Select("email", "display_name").Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// id được gán sẵn nhưng chưa có trong DB
		return translate(db.Create(user).Error)
	}
	return nil
}

func (r *gormUserRepository) IncrementVoteCounts(ctx context.Context, id uint, upDelta, downDelta int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"upvote_count":   gorm.Expr("upvote_count + ?", upDelta),
			"downvote_count": gorm.Expr("downvote_count + ?", downDelta),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) SetVoteCounts(ctx context.Context, id uint, up, down int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"upvote_count": up, "downvote_count": down}).Error
}

type gormReviewRepository struct {
	db *gorm.DB
}

func (r *gormReviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviewRepository) FindByCourtAndUser(ctx context.Context, courtID int64, userID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("court_id = ? AND user_id = ?", courtID, userID).
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *gormReviewRepository) FindByCourt(ctx context.Context, courtID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("court_id = ?", courtID).
		Order("id asc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviewRepository) FindAll(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).Order("id asc").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Save chỉ cập nhật các cột nội dung, vote_count do AggregateUpdater quản lý
func (r *gormReviewRepository) Save(ctx context.Context, review *models.Review) error {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	if review.ID == 0 {
		return translate(db.Create(review).Error)
	}
	res := db.Model(review).Select("title", "body", "rating", "edited").Updates(review)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(db.Create(review).Error)
	}
	return nil
}

func (r *gormReviewRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormReviewRepository) IncrementVoteCount(ctx context.Context, id uint, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		Update("vote_count", gorm.Expr("vote_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormReviewRepository) SetVoteCount(ctx context.Context, id uint, count int) error {
	return r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		Update("vote_count", count).Error
}

type gormVoteRepository struct {
	db *gorm.DB
}

func (r *gormVoteRepository) FindByUserAndReview(ctx context.Context, userID, reviewID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		First(&vote).Error
	if err != nil {
		return nil, translate(err)
	}
	return &vote, nil
}

func (r *gormVoteRepository) FindByUserAndReviews(ctx context.Context, userID uint, reviewIDs []uint) ([]models.Vote, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND review_id IN ?", userID, reviewIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *gormVoteRepository) FindByReview(ctx context.Context, reviewID uint) ([]models.Vote, error) {
	var votes []models.Vote
	if err := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Order("id asc").Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *gormVoteRepository) Save(ctx context.Context, vote *models.Vote) error {
	db := r.db.WithContext(ctx)
	if vote.ID == 0 {
		return translate(db.Create(vote).Error)
	}
	return translate(db.Model(vote).Update("type", vote.Type).Error)
}

func (r *gormVoteRepository) Delete(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Delete(&models.Vote{}, vote.ID).Error
}

func (r *gormVoteRepository) DeleteByReview(ctx context.Context, reviewID uint) error {
	return r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&models.Vote{}).Error
}

func (r *gormVoteRepository) TallyByReview(ctx context.Context) (map[uint]Tally, error) {
	var rows []struct {
		ReviewID uint
		Type     models.VoteType
		Total    int
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("review_id, type, count(*) as total").
		Group("review_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	tallies := make(map[uint]Tally, len(rows))
	for _, row := range rows {
		t := tallies[row.ReviewID]
		switch row.Type {
		case models.Upvote:
			t.Upvotes += row.Total
		case models.Downvote:
			t.Downvotes += row.Total
		}
		tallies[row.ReviewID] = t
	}
	return tallies, nil
}

type gormCourtRepository struct {
	db *gorm.DB
}

func (r *gormCourtRepository) FindByID(ctx context.Context, id int64) (*models.Court, error) {
	var court models.Court
	if err := r.db.WithContext(ctx).First(&court, id).Error; err != nil {
		return nil, translate(err)
	}
	return &court, nil
}

func (r *gormCourtRepository) Save(ctx context.Context, court *models.Court) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(court).Error
}
