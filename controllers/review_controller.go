package controllers

import (
	"courtfinder/constants"
	"courtfinder/dto"
	"courtfinder/middleware"
	"courtfinder/response"
	"courtfinder/services"
	"courtfinder/validator"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) ReviewController {
	return ReviewController{Reviews: reviews}
}

func (r ReviewController) GetReviews(c *gin.Context) {
	var query dto.ListReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query: "+err.Error())
		return
	}
	page, perPage := constants.DefaultPage, constants.DefaultReviewsPerPage
	if query.Page != nil {
		page = *query.Page
	}
	if query.ReviewsPerPage != nil {
		perPage = *query.ReviewsPerPage
	}
	if err := validator.ValidatePagination(page, perPage); err != nil {
		response.Fail(c, err)
		return
	}

	sort, err := services.ParseSortMethod(query.SortMethod)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := r.Reviews.ListReviews(c.Request.Context(), services.ListReviewsParams{
		CourtID:  query.CourtID,
		CallerID: middleware.CurrentUserID(c),
		Page:     page,
		PageSize: perPage,
		Sort:     sort,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithPagination(c, result, page, perPage, result.TotalOthers)
}

func (r ReviewController) GetCourtRating(c *gin.Context) {
	courtID, err := parseCourtID(c.Query("courtId"), "courtId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rating, err := r.Reviews.GetCourtRating(c.Request.Context(), courtID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, rating)
}

func (r ReviewController) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	review, err := r.Reviews.CreateReview(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, review)
}

func (r ReviewController) UpdateReview(c *gin.Context) {
	reviewID, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	review, err := r.Reviews.PartialUpdate(c.Request.Context(), reviewID, middleware.CurrentUserID(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, review)
}

// DeleteReview xóa review của người dùng hiện tại trên sân courtId
func (r ReviewController) DeleteReview(c *gin.Context) {
	courtID, err := parseCourtID(c.Query("courtId"), "courtId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := r.Reviews.DeleteReview(c.Request.Context(), courtID, middleware.CurrentUserID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}
