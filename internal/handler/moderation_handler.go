package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hiddenspots/internal/errors"
	"hiddenspots/internal/service"
)

// ModerationHandler handles the flag/approve/remove endpoints.
type ModerationHandler struct {
	moderationService service.ModerationService
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(moderationService service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// FlagRequest represents a flag submission. Both fields are optional.
type FlagRequest struct {
	User   string `json:"user"`
	Reason string `json:"reason"`
}

// FlagSpot godoc
// @Summary Flag a spot for moderation
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Spot ID"
// @Param request body FlagRequest false "Flag details"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /spots/{id}/flag [post]
func (h *ModerationHandler) FlagSpot(c echo.Context) error {
	var req FlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := h.moderationService.Flag(c.Request().Context(), c.Param("id"), req.User, req.Reason); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Spot flagged for review."})
}

// ListFlagged godoc
// @Summary List spots awaiting review
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Spot
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /spots/flagged [get]
func (h *ModerationHandler) ListFlagged(c echo.Context) error {
	spots, err := h.moderationService.ListFlagged(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, spots)
}

// ApproveSpot godoc
// @Summary Approve a flagged spot
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /spots/{id}/approve [put]
func (h *ModerationHandler) ApproveSpot(c echo.Context) error {
	if err := h.moderationService.Approve(c.Request().Context(), c.Param("id")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Spot approved and restored."})
}

// RemoveSpot godoc
// @Summary Permanently remove a spot
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /spots/{id}/remove [delete]
func (h *ModerationHandler) RemoveSpot(c echo.Context) error {
	if err := h.moderationService.Remove(c.Request().Context(), c.Param("id")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Spot removed."})
}
