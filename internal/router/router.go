package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"hiddenspots/internal/config"
	"hiddenspots/internal/handler"
	"hiddenspots/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	spotHandler *handler.SpotHandler,
	moderationHandler *handler.ModerationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Auth routes
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/refresh", authHandler.Refresh)
	api.POST("/users/logout", authHandler.Logout)

	// Public spot routes
	api.GET("/spots", spotHandler.SearchSpots)
	api.GET("/spots/top", spotHandler.TopSpots)
	api.POST("/spots", spotHandler.CreateSpot)
	api.GET("/spots/:id", spotHandler.GetSpot)
	api.POST("/spots/:id/ratings", spotHandler.RateSpot)
	api.POST("/spots/:id/comments", spotHandler.CommentSpot)
	api.POST("/spots/:id/flag", moderationHandler.FlagSpot)

	// Moderation routes (require a moderator or admin JWT)
	moderation := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), requireModerator)

	moderation.GET("/spots/flagged", moderationHandler.ListFlagged)
	moderation.PUT("/spots/:id/approve", moderationHandler.ApproveSpot)
	moderation.DELETE("/spots/:id/remove", moderationHandler.RemoveSpot)
}

// requireModerator rejects tokens whose role claim is not moderator or admin.
func requireModerator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		role, _ := claims["role"].(string)
		if role != model.RoleModerator && role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "moderator role required")
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
