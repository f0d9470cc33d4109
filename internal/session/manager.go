package session

import (
	"ClipVault/internal/model"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoSession — токен не разобрался, подпись не сошлась, сессия
// истекла или отозвана. Снаружи эти случаи неразличимы.
var ErrNoSession = errors.New("no session")

type binding struct {
	user      model.Snapshot
	createdAt time.Time
	expiresAt time.Time
}

// Manager выдаёт и проверяет сессионные токены. Токен — подписанный JWT,
// jti которого ключует серверную привязку к срезу пользователя. Подпись
// ловит подделку, серверная привязка даёт настоящий logout: Destroy
// убирает привязку, и токен мёртв, сколько бы ни жила его подпись.
//
// Привязки лежат в памяти за собственным RWMutex — проверка сессии
// никогда не ждёт блокировок файловых операций и БД.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu       sync.RWMutex
	bindings map[string]binding
}

// NewManager создаёт менеджер сессий с фиксированным TTL от момента логина.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		bindings: make(map[string]binding),
	}
}

// Create выпускает токен для пользователя и запоминает привязку.
// У одного пользователя может быть сколько угодно живых сессий.
func (m *Manager) Create(user model.Snapshot) (string, error) {
	now := time.Now()
	id := uuid.NewString()

	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.bindings[id] = binding{user: user, createdAt: now, expiresAt: now.Add(m.ttl)}
	m.mu.Unlock()

	return token, nil
}

// Resolve возвращает срез пользователя по токену либо ErrNoSession.
func (m *Manager) Resolve(token string) (model.Snapshot, error) {
	id, err := m.parseID(token, false)
	if err != nil {
		return model.Snapshot{}, ErrNoSession
	}

	m.mu.RLock()
	b, ok := m.bindings[id]
	m.mu.RUnlock()

	if !ok {
		return model.Snapshot{}, ErrNoSession
	}
	if time.Now().After(b.expiresAt) {
		// лениво подчищаем истёкшую привязку
		m.mu.Lock()
		delete(m.bindings, id)
		m.mu.Unlock()
		return model.Snapshot{}, ErrNoSession
	}
	return b.user, nil
}

// Destroy отзывает сессию. Идемпотентна: отзыв отсутствующего или уже
// истёкшего токена не ошибка.
func (m *Manager) Destroy(token string) {
	// подпись всё ещё проверяем, но истёкший токен разлогинить можно
	id, err := m.parseID(token, true)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.bindings, id)
	m.mu.Unlock()
}

// Sweep выбрасывает истёкшие привязки и возвращает число удалённых.
// Гоняется по тикеру из main.
func (m *Manager) Sweep() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, b := range m.bindings {
		if now.After(b.expiresAt) {
			delete(m.bindings, id)
			n++
		}
	}
	return n
}

// Len — количество живых привязок (для логов и тестов).
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bindings)
}

func (m *Manager) parseID(token string, allowExpired bool) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", ErrNoSession
	}
	return claims.ID, nil
}
