package handlers

import (
	"ClipVault/internal/config"
	"ClipVault/internal/middleware"
	"ClipVault/internal/service"
	"ClipVault/internal/session"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	fileService *service.FileService,
	sessions *session.Manager,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{config.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(sessions))

	// Handlers
	userHandler := NewUserHandler(userService, sessions, logger, config)
	fileHandler := NewFileHandler(fileService, logger, config)

	// Auth routes
	r.Post("/api/register", userHandler.Register)
	r.Post("/api/login", userHandler.Login)
	r.Get("/api/me", userHandler.Me)
	r.Get("/api/logout", userHandler.Logout)

	// File routes
	r.Post("/api/upload", fileHandler.Upload)
	r.Get("/api/files", fileHandler.List)
	r.Delete("/api/files/{id}", fileHandler.Delete)

	// Раздача артефактов как есть, без аутентификации
	r.Get("/uploads/{name}", fileHandler.ServeUpload)

	r.Get("/healthz", healthz)

	// Всё, что не /api и не /uploads, отдаём веб-клиенту
	r.NotFound(spaFallback(config.StaticDir))

	return &Handler{Router: r}
}

// statusResponse — общая форма ответов {success, message}.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, statusResponse{Success: success, Message: message})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
