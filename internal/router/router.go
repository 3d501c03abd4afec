package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/muhozi/WeConnect-2/internal/config"
	"github.com/muhozi/WeConnect-2/internal/handler"
	"github.com/muhozi/WeConnect-2/internal/middleware"
	"github.com/muhozi/WeConnect-2/internal/repository"
)

// Deps carries everything route registration needs. Building the struct
// in main keeps the wiring explicit and in one place.
type Deps struct {
	Auth       *handler.AuthHandler
	Businesses *handler.BusinessHandler
	Reviews    *handler.ReviewHandler
	Tokens     *repository.TokenRepo
	RateLimit  config.RateLimitConfig
	Redis      *redis.Client
}

// RegisterRoutes registers the whole HTTP surface under /api/v1, plus the
// health check. Public routes carry no middleware; credential endpoints
// get the rate limiter; everything that mutates on behalf of a user sits
// behind the token gate.
func RegisterRoutes(e *echo.Echo, d Deps) {
	// Liveness probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	api := e.Group("/api/v1")
	gate := middleware.TokenAuth(d.Tokens)

	// Credential endpoints. Register and login are open but rate limited
	// since they are the only password-guessing surface.
	auth := api.Group("/auth", middleware.RateLimit(d.RateLimit, d.Redis))
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout, gate)
	auth.POST("/reset-password", d.Auth.ResetPassword, gate)

	// Public directory browsing.
	api.GET("/businesses", d.Businesses.List)
	api.GET("/businesses/:id", d.Businesses.Get)
	api.GET("/businesses/:id/reviews", d.Reviews.List)

	// Owner and reviewer operations, all behind the token gate.
	api.POST("/businesses", d.Businesses.Register, gate)
	api.PUT("/businesses/:id", d.Businesses.Update, gate)
	api.DELETE("/businesses/:id", d.Businesses.Delete, gate)
	api.GET("/account/businesses", d.Businesses.AccountBusinesses, gate)
	api.POST("/businesses/:id/reviews", d.Reviews.Add, gate)
}
