package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("review", 7)
	assert.Equal(t, "review with ID 7 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestAlreadyVotedMessage(t *testing.T) {
	assert.Equal(t, "you have already upvoted this review", AlreadyVoted("UPVOTE").Message)
	assert.Equal(t, "you have already downvoted this review", AlreadyVoted("DOWNVOTE").Message)
	assert.Equal(t, http.StatusConflict, AlreadyVoted("UPVOTE").HTTPStatus())
}

func TestGetAppErrorThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("VoteService.AddVote: %w", Forbidden("nope"))

	appErr := GetAppError(wrapped)
	assert.NotNil(t, appErr)
	assert.Equal(t, ErrCodeForbidden, appErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeForbidden))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeForbidden))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Internal("failed to save vote", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeExternalError, http.StatusBadGateway},
		{ErrCodeDBError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, NewAppError(tt.code, "x", nil).HTTPStatus())
		})
	}
}
