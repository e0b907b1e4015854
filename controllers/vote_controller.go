package controllers

import (
	"courtfinder/commands"
	"courtfinder/middleware"
	"courtfinder/models"
	"courtfinder/response"

	"github.com/gin-gonic/gin"
)

type VoteController struct {
	Votes commands.Voter
}

func NewVoteController(votes commands.Voter) VoteController {
	return VoteController{Votes: votes}
}

func (v VoteController) Upvote(c *gin.Context) {
	v.cast(c, models.Upvote)
}

func (v VoteController) Downvote(c *gin.Context) {
	v.cast(c, models.Downvote)
}

func (v VoteController) cast(c *gin.Context, voteType models.VoteType) {
	reviewID, err := parseUintParam(c, "reviewId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v.run(c, commands.NewCastVoteCommand(v.Votes, reviewID, middleware.CurrentUserID(c), voteType))
}

// RemoveVote luôn trả về 200, kể cả khi người dùng chưa từng vote
func (v VoteController) RemoveVote(c *gin.Context) {
	reviewID, err := parseUintParam(c, "reviewId")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v.run(c, commands.NewRemoveVoteCommand(v.Votes, reviewID, middleware.CurrentUserID(c)))
}

func (v VoteController) run(c *gin.Context, cmd commands.VoteCommand) {
	outcome, err := cmd.Execute(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, outcome)
}
