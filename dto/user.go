package dto

import "time"

// UserProfileResponse định nghĩa response cho hồ sơ công khai của user
type UserProfileResponse struct {
	ID            uint      `json:"id"`
	DisplayName   string    `json:"displayName"`
	UpvoteCount   int       `json:"upvoteCount"`
	DownvoteCount int       `json:"downvoteCount"`
	TrustScore    float64   `json:"trustScore"`
	CreatedAt     time.Time `json:"createdAt"`
}
