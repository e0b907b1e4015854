package dto

import "time"

// ReviewResponse là review đã được gắn thông tin tác giả và trạng thái vote của người xem
type ReviewResponse struct {
	ReviewID          uint      `json:"reviewId"`
	CourtID           int64     `json:"courtId"`
	Title             string    `json:"title,omitempty"`
	Content           string    `json:"content"`
	Rating            int       `json:"rating"`
	TotalVotes        int       `json:"totalVotes"`
	Edited            bool      `json:"edited"`
	CreatedAt         time.Time `json:"createdAt"`
	AuthorDisplayName string    `json:"authorDisplayName"`
	AuthorTrustScore  float64   `json:"authorTrustScore"`
	IsUpvoted         bool      `json:"isUpvoted"`
	IsDownvoted       bool      `json:"isDownvoted"`
}

// ReviewListResponse tách review của chính người xem ra khỏi danh sách còn lại
type ReviewListResponse struct {
	OwnReview    *ReviewResponse  `json:"ownReview"`
	OtherReviews []ReviewResponse `json:"otherReviews"`
	TotalOthers  int              `json:"totalOthers"`
}

type CourtRatingResponse struct {
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

type CreateReviewRequest struct {
	CourtID int64  `json:"courtId" binding:"required,gt=0"`
	Title   string `json:"title" binding:"max=120"`
	Body    string `json:"body" binding:"required,max=5000"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

// UpdateReviewRequest: trường nil nghĩa là không thay đổi
type UpdateReviewRequest struct {
	Content *string `json:"content" binding:"omitempty,max=5000"`
	Rating  *int    `json:"rating"`
}

// ListReviewsQuery: page và reviewsPerPage là con trỏ để phân biệt "không gửi" với 0
type ListReviewsQuery struct {
	CourtID        int64  `form:"courtId" binding:"required,gt=0"`
	Page           *int   `form:"page"`
	ReviewsPerPage *int   `form:"reviewsPerPage"`
	SortMethod     string `form:"sortMethod"`
}
