package models

import (
	"fmt"
	"strings"
)

type VoteType string

const (
	Upvote   VoteType = "UPVOTE"
	Downvote VoteType = "DOWNVOTE"
)

func (t VoteType) Valid() bool {
	return t == Upvote || t == Downvote
}

// Opposite trả về loại vote ngược lại
func (t VoteType) Opposite() VoteType {
	if t == Upvote {
		return Downvote
	}
	return Upvote
}

// Sign là đóng góp của một vote vào VoteCount của review
func (t VoteType) Sign() int {
	if t == Upvote {
		return 1
	}
	return -1
}

func ParseVoteType(s string) (VoteType, error) {
	t := VoteType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown vote type %q", s)
	}
	return t, nil
}

type Vote struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	UserID   uint     `gorm:"not null;uniqueIndex:idx_vote_user_review" json:"userId"`
	ReviewID uint     `gorm:"not null;uniqueIndex:idx_vote_user_review;index" json:"reviewId"`
	Type     VoteType `gorm:"type:varchar(8);not null" json:"type"`
}
