package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/realtime"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth     *handler.AuthHandler
	Bookings *handler.BookingHandler
	Movies   *handler.MovieHandler
	Reviews  *handler.ReviewHandler
	Admin    *handler.AdminHandler
	Hub      *realtime.Hub
	Health   echo.HandlerFunc
}

const reviewsTag = "reviews"

// Options carries the middleware that depends on runtime wiring.
type Options struct {
	JWTSecret string
	RateLimit echo.MiddlewareFunc // applied to every /api route; may be nil
	Cache     *middleware.ResponseCache // review list reads and their invalidation; may be nil
}

// RegisterRoutes registers the unauthenticated infrastructure routes: the
// health check and the realtime websocket.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	health := h.Health
	if health == nil {
		health = handler.Health(nil)
	}
	e.GET("/healthz", health)
	if h.Hub != nil {
		ws := handler.SeatUpdates(h.Hub)
		e.GET("/ws", ws)
		e.GET("/ws/showtimes/:id", ws)
	}
}

// RegisterAPI mounts the JSON API under /api.
func RegisterAPI(e *echo.Echo, h Handlers, opt Options) {
	api := e.Group("/api")
	if opt.RateLimit != nil {
		api.Use(opt.RateLimit)
	}
	authn := middleware.JWTAuth(opt.JWTSecret)
	admin := middleware.RequireRole(model.RoleAdmin)

	// Unauthenticated auth operations. Logout accepts either a refresh
	// token in the body or a bearer token, so it is not behind JWTAuth.
	a := api.Group("/auth")
	a.POST("/register", h.Auth.Register)
	a.POST("/login", h.Auth.Login)
	a.POST("/refresh", h.Auth.Refresh)
	a.POST("/logout", h.Auth.Logout)
	a.POST("/forgotpassword", h.Auth.ForgotPassword)
	a.PUT("/resetpassword/:token", h.Auth.ResetPassword)

	api.GET("/me", h.Auth.Me, authn)

	b := api.Group("/bookings", authn)
	b.POST("", h.Bookings.CreateBooking)
	b.GET("/mybookings", h.Bookings.MyBookings)
	b.POST("/lock-seats", h.Bookings.LockSeats)
	b.POST("/confirm-booking", h.Bookings.ConfirmBooking)
	b.DELETE("/release-seats", h.Bookings.ReleaseSeats)
	b.POST("/cancel", h.Bookings.CancelBooking)
	b.GET("/wallet-balance", h.Bookings.WalletBalance)
	b.POST("/add-to-wallet", h.Bookings.AddToWallet)

	// Movie reads are not cached: they carry live seat lists.
	m := api.Group("/movies")
	m.GET("", h.Movies.List)
	m.GET("/:id", h.Movies.Get)
	m.POST("", h.Movies.Create, authn, admin)
	m.PUT("/:id", h.Movies.Update, authn, admin)
	m.DELETE("/:id", h.Movies.Delete, authn, admin)

	// A new review drops every cached review list.
	api.POST("/reviews", h.Reviews.Create, authn, opt.Cache.Invalidate(reviewsTag))
	api.GET("/reviews/:movieId", h.Reviews.List, opt.Cache.Cache(reviewsTag))

	api.GET("/admin/metrics", h.Admin.Metrics, authn, admin)
}
