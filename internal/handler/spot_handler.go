package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"hiddenspots/internal/errors"
	"hiddenspots/internal/model"
	"hiddenspots/internal/repository"
	"hiddenspots/internal/service"
)

// SpotHandler handles spot endpoints.
type SpotHandler struct {
	spotService service.SpotService
	images      *service.ImageStore
}

// NewSpotHandler creates a new spot handler.
func NewSpotHandler(spotService service.SpotService, images *service.ImageStore) *SpotHandler {
	return &SpotHandler{spotService: spotService, images: images}
}

// RatingRequest carries the four rating dimensions. Pointers distinguish
// omitted dimensions (folded in as zero) from malformed ones (rejected by
// binding).
type RatingRequest struct {
	Uniqueness *float64 `json:"uniqueness"`
	Vibe       *float64 `json:"vibe"`
	Safety     *float64 `json:"safety"`
	Crowd      *float64 `json:"crowd"`
}

// CommentRequest represents a comment submission.
type CommentRequest struct {
	User        string `json:"user"`
	Text        string `json:"text" validate:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// SearchSpots godoc
// @Summary Find spots near a point
// @Tags spots
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number false "Radius in kilometers"
// @Param vibe query string false "Exact vibe tag (case-insensitive)"
// @Param safety query number false "Minimum safety rating"
// @Param crowd query number false "Maximum crowd rating"
// @Param keyword query string false "Keyword match on name or description"
// @Success 200 {array} model.Spot
// @Failure 400 {object} errors.ErrorResponse
// @Router /spots [get]
func (h *SpotHandler) SearchSpots(c echo.Context) error {
	latStr := c.QueryParam("lat")
	lngStr := c.QueryParam("lng")
	if latStr == "" || lngStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing required lat or lng query parameters",
			Code:  "VALIDATION_ERROR",
		})
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "latitude and longitude must be numbers",
			Code:  "VALIDATION_ERROR",
		})
	}

	params := repository.SearchParams{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: repository.DefaultRadiusMeters,
		Vibe:         c.QueryParam("vibe"),
		Keyword:      c.QueryParam("keyword"),
	}

	if radiusStr := strings.TrimSpace(c.QueryParam("radius")); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "radius must be a number",
				Code:  "VALIDATION_ERROR",
			})
		}
		params.RadiusMeters = radius * 1000
	}

	// Non-numeric bounds are ignored rather than rejected.
	if v, err := strconv.ParseFloat(strings.TrimSpace(c.QueryParam("safety")), 64); err == nil {
		params.SafetyMin = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(c.QueryParam("crowd")), 64); err == nil {
		params.CrowdMax = &v
	}

	return c.JSON(http.StatusOK, h.spotService.Search(c.Request().Context(), params))
}

// TopSpots godoc
// @Summary Ranked feed of all spots
// @Tags spots
// @Produce json
// @Success 200 {array} model.Spot
// @Failure 500 {object} errors.ErrorResponse
// @Router /spots/top [get]
func (h *SpotHandler) TopSpots(c echo.Context) error {
	spots, err := h.spotService.TopSpots(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, spots)
}

// GetSpot godoc
// @Summary Get a single spot
// @Tags spots
// @Produce json
// @Param id path string true "Spot ID"
// @Success 200 {object} model.Spot
// @Failure 404 {object} errors.ErrorResponse
// @Router /spots/{id} [get]
func (h *SpotHandler) GetSpot(c echo.Context) error {
	spot, err := h.spotService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, spot)
}

// CreateSpot godoc
// @Summary Submit a new spot
// @Tags spots
// @Accept mpfd
// @Produce json
// @Param name formData string true "Spot name"
// @Param vibe formData string true "Vibe tag"
// @Param description formData string true "Description"
// @Param coordinates formData string true "GeoJSON point as JSON string"
// @Param images formData file false "Up to five images"
// @Success 201 {object} model.Spot
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /spots [post]
func (h *SpotHandler) CreateSpot(c echo.Context) error {
	name := c.FormValue("name")
	vibe := c.FormValue("vibe")
	description := c.FormValue("description")
	coordinatesJSON := c.FormValue("coordinates")

	if name == "" || vibe == "" || description == "" || coordinatesJSON == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "name, vibe, description and coordinates are required",
			Code:  "VALIDATION_ERROR",
		})
	}

	var location model.GeoPoint
	if err := json.Unmarshal([]byte(coordinatesJSON), &location); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: `coordinates must be a valid JSON string, e.g. {"type":"Point","coordinates":[lng,lat]}`,
			Code:  "VALIDATION_ERROR",
		})
	}

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		urls, err := h.images.SaveAll(form.File["images"])
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		imageURLs = urls
	}

	spot, err := h.spotService.Create(c.Request().Context(), service.NewSpot{
		Name:        name,
		Vibe:        vibe,
		Description: description,
		Location:    location,
		Images:      imageURLs,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, spot)
}

// RateSpot godoc
// @Summary Submit a rating for a spot
// @Tags spots
// @Accept json
// @Produce json
// @Param id path string true "Spot ID"
// @Param request body RatingRequest true "Rating values"
// @Success 200 {object} model.Spot
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /spots/{id}/ratings [post]
func (h *SpotHandler) RateSpot(c echo.Context) error {
	var req RatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "ratings must be numeric",
			Code:  "VALIDATION_ERROR",
		})
	}

	spot, err := h.spotService.ApplyRating(c.Request().Context(), c.Param("id"), service.RatingSubmission{
		Uniqueness: deref(req.Uniqueness),
		Vibe:       deref(req.Vibe),
		Safety:     deref(req.Safety),
		Crowd:      deref(req.Crowd),
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, spot)
}

// CommentSpot godoc
// @Summary Comment on a spot
// @Tags spots
// @Accept json
// @Produce json
// @Param id path string true "Spot ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} model.Spot
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /spots/{id}/comments [post]
func (h *SpotHandler) CommentSpot(c echo.Context) error {
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	spot, err := h.spotService.AddComment(c.Request().Context(), c.Param("id"), service.CommentInput{
		User:        req.User,
		Text:        req.Text,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, spot)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
