package services

import (
	"context"
	"fmt"

	"courtfinder/models"
	"courtfinder/repository"
)

// AggregateUpdater áp dụng Delta đã tính sẵn lên tác giả và review.
// Nó không tự quyết định delta.
type AggregateUpdater struct{}

func NewAggregateUpdater() *AggregateUpdater {
	return &AggregateUpdater{}
}

// Apply cập nhật bản ghi trong bộ nhớ và ghi xuống store bằng phép cộng nguyên tử,
// nên các vote đồng thời trên những review khác nhau của cùng tác giả không làm mất cập nhật.
// author hoặc review có thể là nil khi chỉ cần cập nhật một phía.
func (a *AggregateUpdater) Apply(ctx context.Context, store repository.Store, author *models.User, review *models.Review, d models.Delta) error {
	if author != nil && (d.AuthorUpvotes != 0 || d.AuthorDownvotes != 0) {
		if err := store.Users().IncrementVoteCounts(ctx, author.ID, d.AuthorUpvotes, d.AuthorDownvotes); err != nil {
			return fmt.Errorf("increment author %d tallies: %w", author.ID, err)
		}
		author.UpvoteCount += d.AuthorUpvotes
		author.DownvoteCount += d.AuthorDownvotes
	}

	if review != nil && d.ReviewVotes != 0 {
		if err := store.Reviews().IncrementVoteCount(ctx, review.ID, d.ReviewVotes); err != nil {
			return fmt.Errorf("increment review %d vote count: %w", review.ID, err)
		}
		review.VoteCount += d.ReviewVotes
	}
	return nil
}
