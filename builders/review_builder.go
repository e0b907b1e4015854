package builders

import (
	"time"

	"courtfinder/models"
)

// ReviewBuilder giúp tạo review theo từng bước
type ReviewBuilder struct {
	review *models.Review
}

// NewReviewBuilder tạo instance mới của ReviewBuilder
func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{
		review: &models.Review{},
	}
}

func (b *ReviewBuilder) ForCourt(courtID int64) *ReviewBuilder {
	b.review.CourtID = courtID
	return b
}

func (b *ReviewBuilder) ByAuthor(userID uint) *ReviewBuilder {
	b.review.UserID = userID
	return b
}

func (b *ReviewBuilder) WithTitle(title string) *ReviewBuilder {
	b.review.Title = title
	return b
}

func (b *ReviewBuilder) WithBody(body string) *ReviewBuilder {
	b.review.Body = body
	return b
}

func (b *ReviewBuilder) WithRating(rating int) *ReviewBuilder {
	b.review.Rating = rating
	return b
}

// CreatedAt gán thời điểm tạo, chỉ được đặt một lần khi review mới được tạo
func (b *ReviewBuilder) CreatedAt(t time.Time) *ReviewBuilder {
	b.review.CreatedAt = t
	return b
}

// Build tạo review hoàn chỉnh, review mới luôn có VoteCount = 0 và chưa bị sửa
func (b *ReviewBuilder) Build() *models.Review {
	b.review.VoteCount = 0
	b.review.Edited = false
	return b.review
}
