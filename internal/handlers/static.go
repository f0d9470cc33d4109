package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// spaFallback отдаёт собранный веб-клиент: существующий файл — как есть,
// всё остальное — index.html, чтобы роутинг на клиенте работал по прямым
// ссылкам. Запросы к /api и /uploads сюда не попадают (разруливаются
// роутером), но на всякий случай отвечаем на них 404.
func spaFallback(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet ||
			strings.HasPrefix(r.URL.Path, "/api/") ||
			strings.HasPrefix(r.URL.Path, "/uploads/") {
			http.NotFound(w, r)
			return
		}

		if staticDir == "" {
			http.NotFound(w, r)
			return
		}

		clean := filepath.Join(staticDir, filepath.FromSlash(strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")))
		if info, err := os.Stat(clean); err == nil && !info.IsDir() {
			http.ServeFile(w, r, clean)
			return
		}

		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
