package controllers

import (
	"courtfinder/dto"
	"courtfinder/response"
	"courtfinder/services"

	"github.com/gin-gonic/gin"
)

type CourtController struct {
	Courts *services.CourtService
}

func NewCourtController(courts *services.CourtService) CourtController {
	return CourtController{Courts: courts}
}

func (ct CourtController) GetCourt(c *gin.Context) {
	courtID, err := parseCourtID(c.Param("id"), "court id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	court, err := ct.Courts.GetCourt(c.Request.Context(), courtID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, court)
}

// UpdateCourt sửa một phần thông tin sân, chỉ các trường có trong body
func (ct CourtController) UpdateCourt(c *gin.Context) {
	courtID, err := parseCourtID(c.Param("id"), "court id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req dto.UpdateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	court, err := ct.Courts.PartialUpdate(c.Request.Context(), courtID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, court)
}
