package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "hiddenspots/internal/errors"
	"hiddenspots/internal/model"
)

// MockModerationService is a mock implementation of service.ModerationService.
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) Flag(ctx context.Context, id, reporter, reason string) error {
	args := m.Called(ctx, id, reporter, reason)
	return args.Error(0)
}

func (m *MockModerationService) ListFlagged(ctx context.Context) ([]model.Spot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Spot), args.Error(1)
}

func (m *MockModerationService) Approve(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockModerationService) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestFlagSpotPassesDetails(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Flag", mock.Anything, "abc", "dana", "spam").Return(nil)

	e := newTestEcho()
	h := NewModerationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/spots/abc/flag",
		strings.NewReader(`{"user":"dana","reason":"spam"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.FlagSpot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flagged for review")
	svc.AssertExpectations(t)
}

func TestFlagSpotEmptyBody(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Flag", mock.Anything, "abc", "", "").Return(nil)

	e := newTestEcho()
	h := NewModerationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/spots/abc/flag", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.FlagSpot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestFlagSpotNotFound(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Flag", mock.Anything, "ghost", "", "").Return(apperrors.ErrSpotNotFound)

	e := newTestEcho()
	h := NewModerationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/spots/ghost/flag", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	err := h.FlagSpot(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestApproveSpot(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Approve", mock.Anything, "abc").Return(nil)

	e := newTestEcho()
	h := NewModerationHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/spots/abc/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.ApproveSpot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "approved")
}

func TestRemoveSpot(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Remove", mock.Anything, "abc").Return(nil)

	e := newTestEcho()
	h := NewModerationHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/spots/abc/remove", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.RemoveSpot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListFlaggedSpots(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("ListFlagged", mock.Anything).Return([]model.Spot{{Name: "sketchy", Flagged: true}}, nil)

	e := newTestEcho()
	h := NewModerationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/spots/flagged", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListFlagged(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sketchy")
}
