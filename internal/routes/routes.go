package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/moritahrk/tabememo/internal/config"
	"github.com/moritahrk/tabememo/internal/handlers"
	"github.com/moritahrk/tabememo/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	restaurantHandler *handlers.RestaurantHandler,
	visitHandler *handlers.VisitHandler,
	chartHandler *handlers.ChartHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Account management (JWT required) - applied per route so the
	// middleware never touches the public auth endpoints above
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Put("/auth/email", middleware.JWTProtected(cfg), authHandler.ChangeEmail)
	api.Put("/auth/password", middleware.JWTProtected(cfg), authHandler.ChangePassword)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Restaurants and visits (JWT required)
	protected := api.Group("", middleware.JWTProtected(cfg))
	protected.Post("/restaurants", restaurantHandler.Create)
	protected.Get("/restaurants", restaurantHandler.List)
	protected.Get("/restaurants/want", restaurantHandler.WantList)
	protected.Get("/restaurants/went", restaurantHandler.WentList)
	protected.Get("/restaurants/search", restaurantHandler.SearchForm)
	protected.Get("/restaurants/search/results", restaurantHandler.SearchResults)
	protected.Get("/restaurants/:id", restaurantHandler.Get)
	protected.Delete("/restaurants/:id", restaurantHandler.Delete)
	protected.Post("/restaurants/:id/reset", restaurantHandler.Reset)
	protected.Post("/restaurants/:id/visits", visitHandler.Create)
	protected.Put("/visits/:id", visitHandler.Update)
	protected.Delete("/visits/:id", visitHandler.Delete)
	protected.Delete("/visit-images/:id", visitHandler.DeleteImage)
	protected.Post("/tags", restaurantHandler.CreateTag)

	// Charts render for <img> tags, so a missing or expired token gets a
	// placeholder image back instead of a JSON error
	chartsGroup := api.Group("/charts", middleware.JWTOptional(cfg))
	chartsGroup.Get("/monthly", chartHandler.Monthly)
	chartsGroup.Get("/genres", chartHandler.Genre)
	chartsGroup.Get("/genres/top", chartHandler.GenreTop)
}
