package models

import "errors"

var ErrSameVote = errors.New("vote of this type already cast")

// Transition là loại thay đổi mà một thao tác vote tạo ra
type Transition string

const (
	TransitionNone    Transition = "none"
	TransitionCreated Transition = "created"
	TransitionFlipped Transition = "flipped"
	TransitionRemoved Transition = "removed"
)

// Delta là phần thay đổi cần cộng vào tác giả và review
type Delta struct {
	AuthorUpvotes   int
	AuthorDownvotes int
	ReviewVotes     int
}

func (d Delta) Inverse() Delta {
	return Delta{
		AuthorUpvotes:   -d.AuthorUpvotes,
		AuthorDownvotes: -d.AuthorDownvotes,
		ReviewVotes:     -d.ReviewVotes,
	}
}

func (d Delta) Add(o Delta) Delta {
	return Delta{
		AuthorUpvotes:   d.AuthorUpvotes + o.AuthorUpvotes,
		AuthorDownvotes: d.AuthorDownvotes + o.AuthorDownvotes,
		ReviewVotes:     d.ReviewVotes + o.ReviewVotes,
	}
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

// CreationDelta: tác giả +1 theo loại vote, review ±1
func CreationDelta(t VoteType) Delta {
	if t == Upvote {
		return Delta{AuthorUpvotes: 1, ReviewVotes: 1}
	}
	return Delta{AuthorDownvotes: 1, ReviewVotes: -1}
}

// FlipDelta: bỏ vote cũ rồi thêm vote mới, review ±2
func FlipDelta(from, to VoteType) Delta {
	return CreationDelta(from).Inverse().Add(CreationDelta(to))
}

// RemovalDelta là nghịch đảo của CreationDelta
func RemovalDelta(t VoteType) Delta {
	return CreationDelta(t).Inverse()
}

// VoteState định nghĩa interface cho trạng thái vote của một user trên một review
type VoteState interface {
	Cast(t VoteType) (Transition, Delta, error)
	Remove() (Transition, Delta)
}

// NoVoteState user chưa vote review này
type NoVoteState struct{}

func (s NoVoteState) Cast(t VoteType) (Transition, Delta, error) {
	return TransitionCreated, CreationDelta(t), nil
}

func (s NoVoteState) Remove() (Transition, Delta) {
	return TransitionNone, Delta{}
}

// VotedState user đang giữ một vote loại Type
type VotedState struct {
	Type VoteType
}

func (s VotedState) Cast(t VoteType) (Transition, Delta, error) {
	if t == s.Type {
		return TransitionNone, Delta{}, ErrSameVote
	}
	return TransitionFlipped, FlipDelta(s.Type, t), nil
}

func (s VotedState) Remove() (Transition, Delta) {
	return TransitionRemoved, RemovalDelta(s.Type)
}

// GetVoteState trả về state tương ứng với vote hiện có (nil nếu chưa vote)
func GetVoteState(existing *Vote) VoteState {
	if existing == nil {
		return NoVoteState{}
	}
	return VotedState{Type: existing.Type}
}
