package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
	apperrors "github.com/rhythmiaheartcare/rhythmia-web/pkg/errors"
)

const (
	approvedReviewID = "9b2f0c64-5e1d-4f2a-8a41-7c3db1f2a9e0"
	unknownReviewID  = "1e7f4a90-0b2d-4c58-9f6e-2a8c5d3b7e11"
)

func pendingReview(token string) *domain.Review {
	return &domain.Review{
		ID:            approvedReviewID,
		Name:          "Jordan",
		Email:         "jordan@example.com",
		Rating:        5,
		Comment:       "Excellent",
		Approved:      false,
		ApprovalToken: token,
	}
}

func TestApproveReview_Success(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	repo.On("GetByID", mock.Anything, approvedReviewID).Return(pendingReview("correct-token"), nil)
	repo.On("SetApproved", mock.Anything, approvedReviewID).Return(nil)
	events.On("PublishReviewApproved", mock.Anything, approvedReviewID).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/approve-review?id="+approvedReviewID+"&token=correct-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Review approved successfully! It is now live on the site.", data["message"])

	repo.AssertExpectations(t)
}

func TestApproveReview_MissingID(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	req := httptest.NewRequest(http.MethodGet, "/approve-review?token=some-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid approval link. Missing parameters.", resp.Error.Message)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestApproveReview_MissingToken(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	req := httptest.NewRequest(http.MethodGet, "/approve-review?id="+approvedReviewID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid approval link. Missing parameters.", resp.Error.Message)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestApproveReview_MalformedID(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	req := httptest.NewRequest(http.MethodGet, "/approve-review?id=not-a-uuid&token=some-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestApproveReview_WrongToken(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	repo.On("GetByID", mock.Anything, approvedReviewID).Return(pendingReview("correct-token"), nil)

	req := httptest.NewRequest(http.MethodGet, "/approve-review?id="+approvedReviewID+"&token=wrong-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_TOKEN", resp.Error.Code)
	repo.AssertNotCalled(t, "SetApproved", mock.Anything, mock.Anything)
}

func TestApproveReview_UnknownReview(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	repo.On("GetByID", mock.Anything, unknownReviewID).
		Return(nil, apperrors.NotFound("review", unknownReviewID))

	req := httptest.NewRequest(http.MethodGet, "/approve-review?id="+unknownReviewID+"&token=some-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestApproveReview_AlreadyApproved(t *testing.T) {
	repo := new(mockReviewRepo)
	events := new(mockEventPublisher)
	router := reviewRouter(reviewTestHandler(repo, events))

	approved := pendingReview("correct-token")
	approved.Approved = true
	repo.On("GetByID", mock.Anything, approvedReviewID).Return(approved, nil)

	req := httptest.NewRequest(http.MethodGet, "/approve-review?id="+approvedReviewID+"&token=correct-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertNotCalled(t, "SetApproved", mock.Anything, mock.Anything)
}
