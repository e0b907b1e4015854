package commands

import (
	"context"
	"fmt"

	"courtfinder/models"
	"courtfinder/services"
)

// Voter là phần của VoteService mà các command cần
type Voter interface {
	AddVote(ctx context.Context, reviewID, voterID uint, voteType models.VoteType) (*services.VoteOutcome, error)
	RemoveVote(ctx context.Context, reviewID, voterID uint) (*services.VoteOutcome, error)
}

// VoteCommand định nghĩa interface cho các command vote
type VoteCommand interface {
	Execute(ctx context.Context) (*services.VoteOutcome, error)
	String() string
}

// CastVoteCommand command để upvote hoặc downvote
type CastVoteCommand struct {
	voter    Voter
	reviewID uint
	voterID  uint
	voteType models.VoteType
}

func NewCastVoteCommand(voter Voter, reviewID, voterID uint, voteType models.VoteType) *CastVoteCommand {
	return &CastVoteCommand{
		voter:    voter,
		reviewID: reviewID,
		voterID:  voterID,
		voteType: voteType,
	}
}

func (c *CastVoteCommand) Execute(ctx context.Context) (*services.VoteOutcome, error) {
	return c.voter.AddVote(ctx, c.reviewID, c.voterID, c.voteType)
}

func (c *CastVoteCommand) String() string {
	return fmt.Sprintf("%s review %d by user %d", c.voteType, c.reviewID, c.voterID)
}

// RemoveVoteCommand command để bỏ vote
type RemoveVoteCommand struct {
	voter    Voter
	reviewID uint
	voterID  uint
}

func NewRemoveVoteCommand(voter Voter, reviewID, voterID uint) *RemoveVoteCommand {
	return &RemoveVoteCommand{
		voter:    voter,
		reviewID: reviewID,
		voterID:  voterID,
	}
}

func (c *RemoveVoteCommand) Execute(ctx context.Context) (*services.VoteOutcome, error) {
	return c.voter.RemoveVote(ctx, c.reviewID, c.voterID)
}

func (c *RemoveVoteCommand) String() string {
	return fmt.Sprintf("remove vote on review %d by user %d", c.reviewID, c.voterID)
}
