package routes

import (
	"net/http"

	"courtfinder/controllers"
	"courtfinder/metrics"
	middlewares "courtfinder/middleware"
	"courtfinder/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps gom các service mà router cần
type Deps struct {
	Votes       *services.VoteService
	Reviews     *services.ReviewService
	Courts      *services.CourtService
	Users       *services.UserService
	JWTSecret   []byte
	VoteLimiter *middlewares.RateLimiter
	Registry    *prometheus.Registry
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	voteController := controllers.NewVoteController(deps.Votes)
	reviewController := controllers.NewReviewController(deps.Reviews)
	courtController := controllers.NewCourtController(deps.Courts)
	userController := controllers.NewUserController(deps.Users)

	auth := middlewares.AuthMiddleware(deps.JWTSecret)
	optionalAuth := middlewares.OptionalAuth(deps.JWTSecret)

	v1 := router.Group("/api/v1")

	votes := v1.Group("/votes", auth)
	if deps.VoteLimiter != nil {
		votes.Use(deps.VoteLimiter.Middleware())
	}
	votes.POST("/:reviewId/upvote", voteController.Upvote)
	votes.POST("/:reviewId/downvote", voteController.Downvote)
	votes.DELETE("/:reviewId", voteController.RemoveVote)

	v1.GET("/reviews", optionalAuth, reviewController.GetReviews)
	v1.GET("/reviews/rating", reviewController.GetCourtRating)
	v1.POST("/reviews", auth, reviewController.CreateReview)
	v1.PATCH("/reviews/:id", auth, reviewController.UpdateReview)
	v1.DELETE("/reviews", auth, reviewController.DeleteReview)

	v1.GET("/courts/:id", courtController.GetCourt)
	v1.PATCH("/courts/:id", auth, courtController.UpdateCourt)
	v1.GET("/users/:id", userController.GetUserByID)

	if deps.Registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(deps.Registry)))
	}
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}
