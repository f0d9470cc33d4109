package service

import (
	"ClipVault/internal/model"
	"ClipVault/internal/repo"
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUsernameTaken — имя пользователя уже занято.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
// Нарочно одна ошибка на оба случая, чтобы по ответу нельзя было
// перебирать существующие имена.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService инкапсулирует регистрацию и проверку учётных данных.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с ролью user.
// Пароль хешируется bcrypt с DefaultCost: проверка занимает десятки
// миллисекунд, это осознанный размен пропускной способности на стойкость.
func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	})
	if err != nil {
		// гонка двух регистраций с одним именем упирается в уникальный индекс
		return nil, ErrUsernameTaken
	}
	return user, nil
}

// Login сверяет пароль и возвращает пользователя.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin создаёт учётную запись с ролью admin, если её ещё нет.
// Вызывается один раз на старте; существующего пользователя не трогает.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.repo.CreateUser(ctx, &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	return err
}
