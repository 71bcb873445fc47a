package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/FACorreiaa/go-diet-assistant/docs" // registers the OpenAPI document
	appLogger "github.com/FACorreiaa/go-diet-assistant/app/logger"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	"github.com/FACorreiaa/go-diet-assistant/internal/container"
)

// SetupRouter builds the full HTTP surface: server-wide middleware, public
// auth routes, and the bearer-protected diet routes.
func SetupRouter(c *container.Container) http.Handler {
	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(c.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if timeout := c.Config.Server.Timeout; timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	} else {
		r.Use(middleware.Timeout(60 * time.Second))
	}
	r.Use(middleware.Compress(5, "application/json"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- Public Auth Routes ---
	r.Post("/signup", c.AuthHandler.Signup)
	r.Post("/login", c.AuthHandler.Login)

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(c.Logger, c.AuthService))

		r.Post("/analyze", c.FoodLogHandler.AnalyzeMeal)
		r.Get("/history", c.FoodLogHandler.GetHistory)

		r.Get("/profile", c.UserHandler.GetUserProfile)
		r.Put("/profile", c.UserHandler.UpdateUserProfile)

		r.Post("/health/sugar", c.HealthLogHandler.LogSugar)
		r.Get("/health/sugar", c.HealthLogHandler.GetSugarHistory)

		r.Post("/chat", c.ChatHandler.Chat)
	})

	return otelhttp.NewHandler(r, "diet-assistant")
}
