package model

// Роли пользователей. Роль admin видит и удаляет чужие файлы.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — учётная запись. Создаётся при регистрации и дальше не меняется:
// операций обновления и удаления наружу не выставлено.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"` // уникальный, сравнение чувствительно к регистру
	PasswordHash string `gorm:"not null"`             // bcrypt, наружу не отдаётся
	Role         string `gorm:"not null;default:user"`
}

// Snapshot — срез пользователя, который кладётся в сессию и в контекст запроса.
// Хеш пароля сюда не попадает.
type Snapshot struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Snapshot возвращает публичный срез пользователя.
func (u *User) Snapshot() Snapshot {
	return Snapshot{ID: u.ID, Username: u.Username, Role: u.Role}
}

// IsAdmin — проверка роли для ветвления видимости.
func (s Snapshot) IsAdmin() bool { return s.Role == RoleAdmin }
