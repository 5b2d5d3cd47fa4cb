package routes

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/handlers"
	"github.com/taskvault/taskvault-api/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes. Google is nil
// when Google sign-in is not configured.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Tasks  *handlers.TasksHandler
	Health *handlers.HealthHandler
	Google *handlers.GoogleAuthHandler
}

// SetupRoutes configures all application routes on mux
func SetupRoutes(mux *http.ServeMux, h Handlers, auth middleware.Authenticator) {
	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("GET /auth/me", middleware.AuthMiddleware(h.Auth.Me, auth))
	mux.HandleFunc("DELETE /auth/me", middleware.AuthMiddleware(h.Auth.DeleteMe, auth))

	if h.Google != nil {
		mux.HandleFunc("GET /auth/google/login", h.Google.GoogleLogin)
		mux.HandleFunc("GET /auth/google/callback", h.Google.GoogleCallback)
	}

	// Task routes
	mux.HandleFunc("POST /tasks", middleware.AuthMiddleware(h.Tasks.CreateTask, auth))
	mux.HandleFunc("GET /tasks", middleware.AuthMiddleware(h.Tasks.ListTasks, auth))
	mux.HandleFunc("GET /tasks/{id}", middleware.AuthMiddleware(h.Tasks.GetTask, auth))
	mux.HandleFunc("PATCH /tasks/{id}", middleware.AuthMiddleware(h.Tasks.UpdateTask, auth))
	mux.HandleFunc("DELETE /tasks/{id}", middleware.AuthMiddleware(h.Tasks.DeleteTask, auth))

	// Swagger UI
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)
}

// Wrap applies CORS and request logging around the router
func Wrap(next http.Handler, cfg *config.CORSConfig, logger *slog.Logger) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
	})
	return middleware.RequestLogger(logger, c.Handler(next))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("taskvault api is running."))
}
