package controllers

import (
	"courtfinder/response"
	"courtfinder/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) UserController {
	return UserController{Users: users}
}

func (u UserController) GetUserByID(c *gin.Context) {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := u.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, profile)
}
