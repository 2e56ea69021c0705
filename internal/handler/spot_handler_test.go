package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hiddenspots/internal/errors"
	"hiddenspots/internal/model"
	"hiddenspots/internal/repository"
	"hiddenspots/internal/service"
)

// MockSpotService is a mock implementation of service.SpotService.
type MockSpotService struct {
	mock.Mock
}

func (m *MockSpotService) Create(ctx context.Context, input service.NewSpot) (*model.Spot, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Spot), args.Error(1)
}

func (m *MockSpotService) Get(ctx context.Context, id string) (*model.Spot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Spot), args.Error(1)
}

func (m *MockSpotService) Search(ctx context.Context, params repository.SearchParams) []model.Spot {
	args := m.Called(ctx, params)
	return args.Get(0).([]model.Spot)
}

func (m *MockSpotService) ApplyRating(ctx context.Context, id string, submission service.RatingSubmission) (*model.Spot, error) {
	args := m.Called(ctx, id, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Spot), args.Error(1)
}

func (m *MockSpotService) AddComment(ctx context.Context, id string, input service.CommentInput) (*model.Spot, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Spot), args.Error(1)
}

func (m *MockSpotService) TopSpots(ctx context.Context) ([]model.Spot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Spot), args.Error(1)
}

type testValidator struct {
	v *validator.Validate
}

func (t *testValidator) Validate(i interface{}) error {
	return t.v.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

func newSpotHandler(t *testing.T, svc service.SpotService) *SpotHandler {
	t.Helper()
	images, err := service.NewImageStore(t.TempDir())
	require.NoError(t, err)
	return NewSpotHandler(svc, images)
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func TestSearchSpotsMissingLatLng(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	for _, target := range []string{"/api/spots", "/api/spots?lat=52.37", "/api/spots?lng=4.89"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := h.SearchSpots(c)
		assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err), target)
	}
}

func TestSearchSpotsNonNumericLatLng(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	req := httptest.NewRequest(http.MethodGet, "/api/spots?lat=north&lng=4.89", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.SearchSpots(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestSearchSpotsInvalidRadius(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	req := httptest.NewRequest(http.MethodGet, "/api/spots?lat=52.37&lng=4.89&radius=wide", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.SearchSpots(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestSearchSpotsBuildsParams(t *testing.T) {
	svc := new(MockSpotService)
	svc.On("Search", mock.Anything, mock.MatchedBy(func(p repository.SearchParams) bool {
		return p.Latitude == 52.37 &&
			p.Longitude == 4.89 &&
			p.RadiusMeters == 2500 && // 2.5 km
			p.Vibe == "Romantic" &&
			p.SafetyMin != nil && *p.SafetyMin == 3 &&
			p.CrowdMax != nil && *p.CrowdMax == 2 &&
			p.Keyword == "sunset"
	})).Return([]model.Spot{})

	e := newTestEcho()
	h := newSpotHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/spots?lat=52.37&lng=4.89&radius=2.5&vibe=Romantic&safety=3&crowd=2&keyword=sunset", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SearchSpots(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestSearchSpotsIgnoresNonNumericBounds(t *testing.T) {
	svc := new(MockSpotService)
	svc.On("Search", mock.Anything, mock.MatchedBy(func(p repository.SearchParams) bool {
		return p.SafetyMin == nil && p.CrowdMax == nil
	})).Return([]model.Spot{})

	e := newTestEcho()
	h := newSpotHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/spots?lat=1&lng=2&safety=high&crowd=low", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SearchSpots(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetSpotNotFound(t *testing.T) {
	svc := new(MockSpotService)
	svc.On("Get", mock.Anything, "missing").Return(nil, apperrors.ErrSpotNotFound)

	e := newTestEcho()
	h := newSpotHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/spots/missing", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.GetSpot(c)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestCreateSpotMissingFields(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	form := url.Values{"name": {"Ledge"}, "vibe": {"Romantic"}}
	req := httptest.NewRequest(http.MethodPost, "/api/spots", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.CreateSpot(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCreateSpotMalformedCoordinates(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	form := url.Values{
		"name":        {"Ledge"},
		"vibe":        {"Romantic"},
		"description": {"sunset view"},
		"coordinates": {"not json"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/spots", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.CreateSpot(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCreateSpotSuccess(t *testing.T) {
	created := &model.Spot{ID: primitive.NewObjectID(), Name: "Ledge"}
	svc := new(MockSpotService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.NewSpot) bool {
		return in.Name == "Ledge" &&
			in.Location.Type == "Point" &&
			len(in.Location.Coordinates) == 2 &&
			in.Location.Coordinates[0] == 4.89
	})).Return(created, nil)

	e := newTestEcho()
	h := newSpotHandler(t, svc)

	form := url.Values{
		"name":        {"Ledge"},
		"vibe":        {"Romantic"},
		"description": {"sunset view"},
		"coordinates": {`{"type":"Point","coordinates":[4.89,52.37]}`},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/spots", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateSpot(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestRateSpotNonNumericRatings(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	req := httptest.NewRequest(http.MethodPost, "/api/spots/abc/ratings",
		strings.NewReader(`{"uniqueness":"very","vibe":2,"safety":3,"crowd":4}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.RateSpot(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestRateSpotOmittedDimensionsDefaultToZero(t *testing.T) {
	spot := &model.Spot{ID: primitive.NewObjectID()}
	svc := new(MockSpotService)
	svc.On("ApplyRating", mock.Anything, spot.ID.Hex(), service.RatingSubmission{
		Uniqueness: 5, Vibe: 0, Safety: 0, Crowd: 0,
	}).Return(spot, nil)

	e := newTestEcho()
	h := newSpotHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/spots/x/ratings",
		strings.NewReader(`{"uniqueness":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(spot.ID.Hex())

	require.NoError(t, h.RateSpot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCommentSpotRequiresText(t *testing.T) {
	e := newTestEcho()
	h := newSpotHandler(t, new(MockSpotService))

	req := httptest.NewRequest(http.MethodPost, "/api/spots/x/comments",
		strings.NewReader(`{"user":"dana"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("x")

	err := h.CommentSpot(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCommentSpotSuccess(t *testing.T) {
	spot := &model.Spot{ID: primitive.NewObjectID()}
	svc := new(MockSpotService)
	svc.On("AddComment", mock.Anything, spot.ID.Hex(), service.CommentInput{
		User: "dana", Text: "lovely at dusk",
	}).Return(spot, nil)

	e := newTestEcho()
	h := newSpotHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/spots/x/comments",
		strings.NewReader(`{"user":"dana","text":"lovely at dusk"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(spot.ID.Hex())

	require.NoError(t, h.CommentSpot(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
