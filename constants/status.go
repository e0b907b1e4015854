package constants

import "time"

// Review listing
const (
	DefaultPage           = 1
	DefaultReviewsPerPage = 10
	MaxReviewsPerPage     = 100
	DefaultSortMethod     = "NEWEST"
)

// Review rating
const (
	MinRating = 1
	MaxRating = 5
)

// Court netting: không rõ, không lưới, xích, nylon.
// Court rim type: không rõ, vành đơn, 1.5, vành đôi.
const (
	MaxNetting = 3
	MaxRimType = 3
)

// Cache
const (
	RatingCacheKeyFormat = "rates:court:%d"
	RatingCacheTTL       = 10 * time.Minute
)

// Context keys set by middleware
const (
	ContextUserID    = "userID"
	ContextRequestID = "requestID"
)
