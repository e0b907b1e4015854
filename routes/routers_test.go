package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"courtfinder/locks"
	"courtfinder/metrics"
	"courtfinder/middleware"
	"courtfinder/models"
	"courtfinder/repository/memory"
	"courtfinder/services"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("routes-secret")

type knownCourts struct{}

func (knownCourts) FetchCourt(_ context.Context, id int64) (*models.Court, error) {
	if id != 100 {
		return nil, services.ErrCourtNotFound
	}
	return &models.Court{ID: id, Name: "Mauerpark Court"}, nil
}

type envelope struct {
	Code      int             `json:"code"`
	Mess      string          `json:"mess"`
	ErrorCode string          `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	ctx := context.Background()
	for id, name := range map[uint]string{1: "alice", 2: "bob", 3: "carol"} {
		require.NoError(t, store.Users().Save(ctx, &models.User{ID: id, Email: name + "@example.com", DisplayName: name}))
	}

	guard := locks.NewStriped(8)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	courts := services.NewCourtService(services.CourtServiceOptions{Store: store, Fetcher: knownCourts{}})
	registry := metrics.NewRegistry()

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(), middleware.ErrorHandler())
	SetupRoutes(router, Deps{
		Votes:       services.NewVoteService(services.VoteServiceOptions{Store: store, Guard: guard, Clock: clock, Metrics: metrics.New(registry)}),
		Reviews:     services.NewReviewService(services.ReviewServiceOptions{Store: store, Guard: guard, Courts: courts, Clock: clock}),
		Courts:      courts,
		Users:       services.NewUserService(services.UserServiceOptions{Store: store}),
		JWTSecret:   secret,
		VoteLimiter: middleware.NewRateLimiter(1000, 1000),
		Registry:    registry,
	})
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, userID uint, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		token, err := services.NewUserToken(userID, secret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestVoteFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/reviews", 1, `{"courtId": 100, "body": "great rims", "rating": 5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ReviewID uint `json:"reviewId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	reviewPath := "/api/v1/votes/" + strconv.FormatUint(uint64(created.ReviewID), 10)

	w, env = s.do(t, http.MethodPost, reviewPath+"/upvote", 2, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"reviewId": 1, "transition": "created", "voteType": "UPVOTE", "totalVotes": 1}`, string(env.Data))

	w, env = s.do(t, http.MethodPost, reviewPath+"/upvote", 2, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_VOTED", env.ErrorCode)
	assert.Equal(t, "you have already upvoted this review", env.Mess)

	w, env = s.do(t, http.MethodPost, reviewPath+"/downvote", 2, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reviewId": 1, "transition": "flipped", "voteType": "DOWNVOTE", "totalVotes": -1}`, string(env.Data))

	w, _ = s.do(t, http.MethodDelete, reviewPath, 2, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, reviewPath, 2, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/users/1", 0, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"upvoteCount":0`)
	assert.Contains(t, string(env.Data), `"downvoteCount":0`)
}

func TestVoteRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/votes/1/upvote", 0, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/votes/abc/upvote", 1, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode)

	w, env = s.do(t, http.MethodPost, "/api/v1/votes/42/upvote", 1, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "review with ID 42 not found", env.Mess)
}

type reviewList struct {
	OwnReview *struct {
		Rating int `json:"rating"`
	} `json:"ownReview"`
	OtherReviews []struct {
		Rating int `json:"rating"`
	} `json:"otherReviews"`
	TotalOthers int `json:"totalOthers"`
}

func TestListReviewsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct {
		user uint
		body string
	}{
		{1, `{"courtId": 100, "body": "fine", "rating": 3}`},
		{2, `{"courtId": 100, "body": "bad nets", "rating": 1}`},
		{3, `{"courtId": 100, "body": "best court", "rating": 5}`},
	} {
		w, _ := s.do(t, http.MethodPost, "/api/v1/reviews", tc.user, tc.body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env := s.do(t, http.MethodGet, "/api/v1/reviews?courtId=100&sortMethod=HIGHEST&reviewsPerPage=1&page=2", 1, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list reviewList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.NotNil(t, list.OwnReview)
	assert.Equal(t, 3, list.OwnReview.Rating)
	assert.Equal(t, 2, list.TotalOthers)
	require.Len(t, list.OtherReviews, 1)
	assert.Equal(t, 1, list.OtherReviews[0].Rating)

	w, env = s.do(t, http.MethodGet, "/api/v1/reviews?courtId=100", 0, "")
	require.Equal(t, http.StatusOK, w.Code)
	var anonymous reviewList
	require.NoError(t, json.Unmarshal(env.Data, &anonymous))
	assert.Nil(t, anonymous.OwnReview)
	assert.Len(t, anonymous.OtherReviews, 3)
}

func TestListReviewsRejectsBadQuery(t *testing.T) {
	s := newTestServer(t)

	for _, query := range []string{
		"",
		"?courtId=100&page=0",
		"?courtId=100&reviewsPerPage=101",
		"?courtId=100&sortMethod=OLDEST",
	} {
		w, env := s.do(t, http.MethodGet, "/api/v1/reviews"+query, 0, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode, query)
	}
}

func TestReviewLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/reviews", 1, `{"courtId": 999, "body": "nowhere", "rating": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/reviews", 1, `{"courtId": 100, "body": "ok", "rating": 9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/reviews", 1, `{"courtId": 100, "body": "ok", "rating": 4}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/v1/reviews", 1, `{"courtId": 100, "body": "again", "rating": 4}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/reviews/1", 2, `{"rating": 1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPatch, "/api/v1/reviews/1", 1, `{"rating": 2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"edited":true`)

	w, env = s.do(t, http.MethodGet, "/api/v1/reviews/rating?courtId=100", 0, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rating": 2, "reviews": 1}`, string(env.Data))

	w, _ = s.do(t, http.MethodDelete, "/api/v1/reviews?courtId=100", 1, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/api/v1/reviews?courtId=100", 1, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourtAndUserLookups(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/courts/100", 0, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Mauerpark Court")

	w, _ = s.do(t, http.MethodGet, "/api/v1/courts/5", 0, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/users/77", 0, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCourtOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPatch, "/api/v1/courts/100", 0, `{"netting": 2}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/courts/100", 1, `{"netting": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/courts/100", 0, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodPatch, "/api/v1/courts/100", 1, `{"netting": 2, "rimType": 3, "rimHeight": 3.05, "indoor": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"netting":2`)
	assert.Contains(t, string(env.Data), `"rimType":3`)
	assert.Contains(t, string(env.Data), `"indoor":false`)
	assert.Contains(t, string(env.Data), "Mauerpark Court")

	w, env = s.do(t, http.MethodPatch, "/api/v1/courts/100", 1, `{"rimType": 4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "rim type must be set to a predefined option", env.Mess)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/courts/100", 1, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/ping", 0, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w, _ = s.do(t, http.MethodGet, "/metrics", 0, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

