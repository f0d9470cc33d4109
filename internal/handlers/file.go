package handlers

import (
	"ClipVault/internal/config"
	"ClipVault/internal/middleware"
	"ClipVault/internal/repo"
	"ClipVault/internal/service"
	"errors"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler обрабатывает загрузку, листинг, удаление и раздачу клипов.
type FileHandler struct {
	FileService *service.FileService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewFileHandler создаёт хендлер файлов
func NewFileHandler(fileService *service.FileService, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{FileService: fileService, Logger: logger, Config: cfg}
}

// fileDTO — элемент ответа GET /api/files.
type fileDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	UploadTime string `json:"upload_time"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
}

func toFileDTO(row repo.FileWithOwner) fileDTO {
	return fileDTO{
		ID:         row.ID,
		Name:       row.Name,
		Path:       path.Join("/uploads", row.Path),
		UploadTime: row.UploadTime.UTC().Format(time.RFC3339),
		UserID:     row.UserID,
		Username:   row.Username,
	}
}

// Upload принимает multipart-поле audio и сохраняет клип за вызывающим.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	// Лимит общего тела запроса
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes()+1<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		writeStatus(w, http.StatusBadRequest, false, "Invalid multipart form")
		return
	}

	audio, header, err := r.FormFile("audio")
	if err != nil {
		h.Logger.Warnw("Upload: missing audio field", "error", err)
		writeStatus(w, http.StatusBadRequest, false, "Missing audio field")
		return
	}
	defer audio.Close()

	if _, err := h.FileService.Store(r.Context(), user.ID, header.Filename, audio); err != nil {
		writeStatus(w, http.StatusInternalServerError, false, "")
		return
	}
	writeStatus(w, http.StatusOK, true, "")
}

// List отдаёт клипы, видимые вызывающему, новые сверху.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	rows, err := h.FileService.List(r.Context(), user)
	if err != nil {
		writeStatus(w, http.StatusInternalServerError, false, "")
		return
	}

	out := make([]fileDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toFileDTO(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete удаляет клип по id.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeStatus(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeStatus(w, http.StatusNotFound, false, "")
		return
	}

	switch err := h.FileService.Delete(r.Context(), id, user); {
	case errors.Is(err, service.ErrFileNotFound):
		writeStatus(w, http.StatusNotFound, false, "")
	case errors.Is(err, service.ErrForbidden):
		writeStatus(w, http.StatusForbidden, false, "Forbidden")
	case err != nil:
		writeStatus(w, http.StatusInternalServerError, false, "")
	default:
		writeStatus(w, http.StatusOK, true, "")
	}
}

// ServeUpload раздаёт артефакт по серверному имени. Имя обязано быть
// одним элементом пути: всё с разделителями или ".." отбрасывается
// до обращения к диску.
func (h *FileHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		http.NotFound(w, r)
		return
	}

	full := h.FileService.StoragePath(name)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}
