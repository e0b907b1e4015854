package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourtID   int64     `gorm:"not null;uniqueIndex:idx_review_court_user" json:"courtId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_court_user" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Title     string    `json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Rating    int       `gorm:"not null" json:"rating"`
	Edited    bool      `gorm:"default:false" json:"edited"`
	VoteCount int       `gorm:"not null;default:0" json:"voteCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
