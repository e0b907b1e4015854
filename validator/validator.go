package validator

import (
	"fmt"
	"strings"

	"courtfinder/constants"
	"courtfinder/errors"
	"courtfinder/models"

	playground "github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength = 120
	MaxBodyLength  = 5000
)

var validate = playground.New()

// ValidateReview validate nội dung review trước khi lưu
func ValidateReview(review *models.Review) error {
	if review.CourtID <= 0 {
		return errors.InvalidArgument("courtId is required")
	}

	if review.UserID == 0 {
		return errors.InvalidArgument("review author is required")
	}

	if err := ValidateRating(review.Rating); err != nil {
		return err
	}

	if err := validate.Var(strings.TrimSpace(review.Body), "required"); err != nil {
		return errors.InvalidArgument("review content must not be empty")
	}

	if err := validate.Var(review.Body, fmt.Sprintf("max=%d", MaxBodyLength)); err != nil {
		return errors.InvalidArgument(fmt.Sprintf("review content must be at most %d characters", MaxBodyLength))
	}

	if err := validate.Var(review.Title, fmt.Sprintf("max=%d", MaxTitleLength)); err != nil {
		return errors.InvalidArgument(fmt.Sprintf("review title must be at most %d characters", MaxTitleLength))
	}

	return nil
}

// ValidateRating validate điểm đánh giá
func ValidateRating(rating int) error {
	if rating < constants.MinRating || rating > constants.MaxRating {
		return errors.InvalidArgument(fmt.Sprintf("rating must be between %d and %d", constants.MinRating, constants.MaxRating))
	}
	return nil
}

// ValidatePagination validate tham số phân trang
func ValidatePagination(page, perPage int) error {
	if page < 1 {
		return errors.InvalidArgument("page must be at least 1")
	}
	if perPage < 1 || perPage > constants.MaxReviewsPerPage {
		return errors.InvalidArgument(fmt.Sprintf("reviewsPerPage must be between 1 and %d", constants.MaxReviewsPerPage))
	}
	return nil
}
