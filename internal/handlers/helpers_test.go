package handlers_test

import (
	"ClipVault/internal/config"
	"ClipVault/internal/handlers"
	"ClipVault/internal/middleware"
	"ClipVault/internal/model"
	"ClipVault/internal/repo"
	"ClipVault/internal/service"
	"ClipVault/internal/session"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Minimal mocks
type hMockUserRepo struct{ mock.Mock }

func (m *hMockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *hMockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*hMockUserRepo)(nil)

type hMockFileRepo struct{ mock.Mock }

func (m *hMockFileRepo) Create(ctx context.Context, file *model.File) (*model.File, error) {
	args := m.Called(ctx, file)
	if f, ok := args.Get(0).(*model.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockFileRepo) GetByID(ctx context.Context, id int64) (*model.File, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*model.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockFileRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *hMockFileRepo) ListAll(ctx context.Context) ([]repo.FileWithOwner, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]repo.FileWithOwner); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockFileRepo) ListByOwner(ctx context.Context, ownerID int64) ([]repo.FileWithOwner, error) {
	args := m.Called(ctx, ownerID)
	if v, ok := args.Get(0).([]repo.FileWithOwner); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.FileRepository = (*hMockFileRepo)(nil)

// testEnv — собранный роутер с моками репозиториев и настоящим менеджером сессий.
type testEnv struct {
	router    http.Handler
	cfg       *config.Config
	sessions  *session.Manager
	userRepo  *hMockUserRepo
	fileRepo  *hMockFileRepo
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	uploadDir := t.TempDir()
	cfg := &config.Config{
		AuthSecret:    "test-secret",
		UploadDir:     uploadDir,
		MaxUploadMB:   1,
		SessionTTLMin: 60,
		CORSOrigin:    "http://localhost:3000",
	}
	logger := zap.NewNop().Sugar()

	ur := &hMockUserRepo{}
	fr := &hMockFileRepo{}

	userSvc := service.NewUserService(ur)
	fileSvc := service.NewFileService(fr, uploadDir, logger)
	sessions := session.NewManager(cfg.AuthSecret, time.Hour)

	h := handlers.NewHandler(userSvc, fileSvc, sessions, logger, cfg)
	return &testEnv{
		router:    h.Router,
		cfg:       cfg,
		sessions:  sessions,
		userRepo:  ur,
		fileRepo:  fr,
		uploadDir: uploadDir,
	}
}

// addAuthCookie заводит настоящую сессию и вешает её cookie на запрос.
func (e *testEnv) addAuthCookie(t *testing.T, req *http.Request, user model.Snapshot) {
	t.Helper()
	token, err := e.sessions.Create(user)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
}
