package service

import (
	"ClipVault/internal/model"
	"ClipVault/internal/repo"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// мок для repo.FileRepository
type mockFileRepo struct{ mock.Mock }

func (m *mockFileRepo) Create(ctx context.Context, file *model.File) (*model.File, error) {
	args := m.Called(ctx, file)
	if f, ok := args.Get(0).(*model.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFileRepo) GetByID(ctx context.Context, id int64) (*model.File, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*model.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFileRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockFileRepo) ListAll(ctx context.Context) ([]repo.FileWithOwner, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]repo.FileWithOwner); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFileRepo) ListByOwner(ctx context.Context, ownerID int64) ([]repo.FileWithOwner, error) {
	args := m.Called(ctx, ownerID)
	if v, ok := args.Get(0).([]repo.FileWithOwner); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.FileRepository = (*mockFileRepo)(nil)

func newFileService(t *testing.T, r repo.FileRepository) (*FileService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileService(r, dir, zap.NewNop().Sugar()), dir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFileService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("artifact on disk before the row insert", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, dir := newFileService(t, m)

		m.On("Create", mock.Anything, mock.MatchedBy(func(f *model.File) bool {
			if f.Name != "clip.webm" || f.UserID != int64(1) {
				return false
			}
			// к моменту вставки артефакт обязан лежать на диске целиком
			b, err := os.ReadFile(filepath.Join(dir, f.Path))
			return err == nil && string(b) == "audio-bytes"
		})).Return(&model.File{ID: 7, Name: "clip.webm", Path: "x", UserID: 1}, nil).Once()

		f, err := svc.Store(ctx, 1, "clip.webm", strings.NewReader("audio-bytes"))
		assert.NoError(t, err)
		assert.Equal(t, int64(7), f.ID)
		m.AssertExpectations(t)
	})

	t.Run("storage name never derived from client path", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, dir := newFileService(t, m)

		var storedPath string
		m.On("Create", mock.Anything, mock.MatchedBy(func(f *model.File) bool {
			storedPath = f.Path
			return true
		})).Return(&model.File{ID: 1}, nil).Once()

		_, err := svc.Store(ctx, 1, "../../etc/passwd", strings.NewReader("x"))
		assert.NoError(t, err)
		// имя сгенерировано сервером, без разделителей и выхода из каталога
		assert.NotContains(t, storedPath, "/")
		assert.NotContains(t, storedPath, "..")
		assert.NotEqual(t, "../../etc/passwd", storedPath)
		// и единственный файл лежит внутри каталога загрузок
		assert.Equal(t, []string{storedPath}, dirEntries(t, dir))
	})

	t.Run("keeps safe extension only", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, _ := newFileService(t, m)

		var paths []string
		m.On("Create", mock.Anything, mock.MatchedBy(func(f *model.File) bool {
			paths = append(paths, f.Path)
			return true
		})).Return(&model.File{ID: 1}, nil).Twice()

		_, err := svc.Store(ctx, 1, "voice.webm", strings.NewReader("a"))
		assert.NoError(t, err)
		_, err = svc.Store(ctx, 1, "weird.name.#$%", strings.NewReader("b"))
		assert.NoError(t, err)

		assert.True(t, strings.HasSuffix(paths[0], ".webm"), "safe extension kept: %q", paths[0])
		assert.NotContains(t, paths[1], "#")
	})

	t.Run("insert failure removes the artifact", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, dir := newFileService(t, m)

		m.On("Create", mock.Anything, mock.Anything).Return((*model.File)(nil), errors.New("db down")).Once()

		_, err := svc.Store(ctx, 1, "clip.webm", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrStorage)
		assert.Empty(t, dirEntries(t, dir), "no orphan artifact after failed insert")
		m.AssertExpectations(t)
	})

	t.Run("unwritable dir yields storage error without insert", func(t *testing.T) {
		m := new(mockFileRepo)
		svc := NewFileService(m, filepath.Join(t.TempDir(), "missing"), zap.NewNop().Sugar())

		_, err := svc.Store(ctx, 1, "clip.webm", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrStorage)
		// Create не вызывался вовсе
		m.AssertExpectations(t)
	})
}

func TestFileService_List(t *testing.T) {
	ctx := context.Background()

	rows := []repo.FileWithOwner{{ID: 1, Name: "a", Username: "alice"}}

	t.Run("user sees only own files", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, _ := newFileService(t, m)
		m.On("ListByOwner", mock.Anything, int64(5)).Return(rows, nil).Once()

		got, err := svc.List(ctx, model.Snapshot{ID: 5, Role: model.RoleUser})
		assert.NoError(t, err)
		assert.Equal(t, rows, got)
		m.AssertExpectations(t)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, _ := newFileService(t, m)
		m.On("ListAll", mock.Anything).Return(rows, nil).Once()

		got, err := svc.List(ctx, model.Snapshot{ID: 5, Role: model.RoleAdmin})
		assert.NoError(t, err)
		assert.Equal(t, rows, got)
		m.AssertExpectations(t)
	})
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes artifact and row", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, dir := newFileService(t, m)

		full := filepath.Join(dir, "aaa.webm")
		assert.NoError(t, os.WriteFile(full, []byte("x"), 0o644))

		m.On("GetByID", mock.Anything, int64(3)).Return(&model.File{ID: 3, Path: "aaa.webm", UserID: 5}, nil).Once()
		m.On("DeleteByID", mock.Anything, int64(3)).Return(nil).Once()

		err := svc.Delete(ctx, 3, model.Snapshot{ID: 5, Role: model.RoleUser})
		assert.NoError(t, err)
		_, statErr := os.Stat(full)
		assert.True(t, os.IsNotExist(statErr), "artifact must be gone")
		m.AssertExpectations(t)
	})

	t.Run("missing artifact does not block row deletion", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, _ := newFileService(t, m)

		m.On("GetByID", mock.Anything, int64(3)).Return(&model.File{ID: 3, Path: "gone.webm", UserID: 5}, nil).Once()
		m.On("DeleteByID", mock.Anything, int64(3)).Return(nil).Once()

		err := svc.Delete(ctx, 3, model.Snapshot{ID: 5, Role: model.RoleUser})
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, _ := newFileService(t, m)
		m.On("GetByID", mock.Anything, int64(404)).Return((*model.File)(nil), gorm.ErrRecordNotFound).Once()

		err := svc.Delete(ctx, 404, model.Snapshot{ID: 5, Role: model.RoleUser})
		assert.ErrorIs(t, err, ErrFileNotFound)
		m.AssertExpectations(t)
	})

	t.Run("non-admin cannot delete a foreign file", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, dir := newFileService(t, m)

		full := filepath.Join(dir, "bbb.webm")
		assert.NoError(t, os.WriteFile(full, []byte("x"), 0o644))

		m.On("GetByID", mock.Anything, int64(3)).Return(&model.File{ID: 3, Path: "bbb.webm", UserID: 1}, nil).Once()

		err := svc.Delete(ctx, 3, model.Snapshot{ID: 5, Role: model.RoleUser})
		assert.ErrorIs(t, err, ErrForbidden)
		// ни артефакт, ни строка не тронуты
		_, statErr := os.Stat(full)
		assert.NoError(t, statErr)
		m.AssertExpectations(t)
	})

	t.Run("admin deletes a foreign file", func(t *testing.T) {
		m := new(mockFileRepo)
		svc, _ := newFileService(t, m)

		m.On("GetByID", mock.Anything, int64(3)).Return(&model.File{ID: 3, Path: "ccc.webm", UserID: 1}, nil).Once()
		m.On("DeleteByID", mock.Anything, int64(3)).Return(nil).Once()

		err := svc.Delete(ctx, 3, model.Snapshot{ID: 99, Role: model.RoleAdmin})
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
}

// Интеграционный сценарий на настоящем SQLite: параллельные загрузки
// одного владельца обе видны в листинге, и у каждой строки есть артефакт.
func TestFileService_ConcurrentStores(t *testing.T) {
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:filesvctest?mode=memory&cache=shared"}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.File{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	owner := &model.User{Username: "alice", PasswordHash: "h", Role: model.RoleUser}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	dir := t.TempDir()
	svc := NewFileService(repo.NewFileRepository(db), dir, zap.NewNop().Sugar())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, name := range []string{"first.webm", "second.webm"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = svc.Store(ctx, owner.ID, name, strings.NewReader(name))
		}(i, name)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])

	rows, err := svc.List(ctx, model.Snapshot{ID: owner.ID, Role: model.RoleUser})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		_, statErr := os.Stat(filepath.Join(dir, filepath.Base(row.Path)))
		assert.NoError(t, statErr, "row %d must have a backing artifact", row.ID)
	}
}
