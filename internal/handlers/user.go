package handlers

import (
	"ClipVault/internal/config"
	"ClipVault/internal/middleware"
	"ClipVault/internal/model"
	"ClipVault/internal/service"
	"ClipVault/internal/session"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию, вход и выход.
type UserHandler struct {
	UserService *service.UserService
	Sessions    *session.Manager
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewUserHandler создаёт хендлер учётных записей
func NewUserHandler(userService *service.UserService, sessions *session.Manager, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Sessions: sessions, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    model.Snapshot `json:"user"`
}

type meResponse struct {
	LoggedIn bool            `json:"loggedIn"`
	User     *model.Snapshot `json:"user,omitempty"`
}

// Register регистрирует нового пользователя. Автологина нет — клиент
// после регистрации идёт на /api/login.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		writeStatus(w, http.StatusBadRequest, false, "Missing fields")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeStatus(w, http.StatusBadRequest, false, "Missing fields")
		return
	}

	_, err := h.UserService.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrUsernameTaken) {
		writeStatus(w, http.StatusConflict, false, "User exists")
		return
	}
	if err != nil {
		h.Logger.Errorw("Register: service error", "error", err)
		writeStatus(w, http.StatusInternalServerError, false, "DB error")
		return
	}
	writeStatus(w, http.StatusOK, true, "Registered")
}

// Login проверяет пароль, заводит сессию и ставит cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeStatus(w, http.StatusUnauthorized, false, "Invalid credentials")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// неизвестное имя и неверный пароль отвечают одинаково
		writeStatus(w, http.StatusUnauthorized, false, "Invalid credentials")
		return
	}

	token, err := h.Sessions.Create(user.Snapshot())
	if err != nil {
		h.Logger.Errorw("Login: session create", "user_id", user.ID, "error", err)
		writeStatus(w, http.StatusInternalServerError, false, "Session error")
		return
	}
	middleware.SetSessionCookie(w, token, h.Config.SessionTTL(), h.Config.EnableHTTPS)

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		User:    user.Snapshot(),
	})
}

// Me отдаёт текущего пользователя по сессии.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, meResponse{LoggedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{LoggedIn: true, User: &user})
}

// Logout отзывает сессию и гасит cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserFromContext(r.Context()); !ok {
		writeStatus(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}
	if c, err := r.Cookie(middleware.CookieName); err == nil {
		h.Sessions.Destroy(c.Value)
	}
	middleware.ClearSessionCookie(w)
	writeStatus(w, http.StatusOK, true, "Logged out")
}
