package middleware

import (
	"ClipVault/internal/model"
	"ClipVault/internal/session"
	"context"
	"net/http"
	"time"
)

// CookieName — имя сессионной cookie.
const CookieName = "auth_token"

type ctxKey int

const userKey ctxKey = iota

// WithAuth разбирает сессионную cookie через менеджер сессий и кладёт
// срез пользователя в контекст запроса. Запрос без валидной сессии
// проходит дальше анонимным — отказ даёт сам хендлер, до единого
// обращения к файловому репозиторию. Мидлварь ничего глобального
// не мутирует и работает только с данными запроса.
func WithAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				if user, err := sessions.Resolve(c.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext возвращает срез пользователя, положенный WithAuth.
func GetUserFromContext(ctx context.Context) (model.Snapshot, bool) {
	u, ok := ctx.Value(userKey).(model.Snapshot)
	return u, ok
}

// SetSessionCookie выставляет сессионную cookie с токеном.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie гасит сессионную cookie у клиента.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
