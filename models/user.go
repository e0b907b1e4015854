package models

import "time"

// User là tác giả review và người bình chọn.
// UpvoteCount/DownvoteCount đếm số vote mà các review của user đã nhận được.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Email         string    `gorm:"unique;not null" json:"email"`
	DisplayName   string    `gorm:"unique;not null" json:"displayName"`
	UpvoteCount   int       `gorm:"not null;default:0" json:"upvoteCount"`
	DownvoteCount int       `gorm:"not null;default:0" json:"downvoteCount"`
}
