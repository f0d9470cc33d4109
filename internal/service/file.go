package service

import (
	"ClipVault/internal/model"
	"ClipVault/internal/repo"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrFileNotFound — записи с таким id нет.
var ErrFileNotFound = errors.New("file not found")

// ErrForbidden — файл принадлежит другому пользователю, а вызывающий не admin.
var ErrForbidden = errors.New("forbidden")

// ErrStorage — ошибка записи или чтения артефакта либо индекса.
// Наружу уходит только этот флаг, без путей и текста драйвера.
var ErrStorage = errors.New("storage failure")

// расширение берём из клиентского имени только если оно безобидное,
// всё остальное отбрасываем
var safeExtRe = regexp.MustCompile(`^\.[A-Za-z0-9]{1,8}$`)

// FileService — файловый репозиторий: единственный владелец связки
// "строка files + артефакт в каталоге загрузок". Никто другой в каталог
// не пишет.
type FileService struct {
	repo   repo.FileRepository
	dir    string // каталог артефактов
	logger *zap.SugaredLogger
}

func NewFileService(r repo.FileRepository, uploadDir string, logger *zap.SugaredLogger) *FileService {
	return &FileService{repo: r, dir: uploadDir, logger: logger}
}

// StoragePath возвращает путь артефакта на диске по его серверному имени.
// Имя урезается до базового, выйти из каталога загрузок через него нельзя.
func (s *FileService) StoragePath(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// storageName выбирает серверное имя артефакта: uuid плюс,
// если повезло, расширение из клиентского имени. Клиентское имя
// в путь не попадает никогда — оно остаётся только метаданными.
func storageName(displayName string) string {
	ext := filepath.Ext(displayName)
	if !safeExtRe.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// Store сохраняет клип: сначала полностью пишет и сбрасывает на диск
// артефакт, только потом вставляет строку метаданных. Порядок жёсткий:
// упавшая середина оставляет максимум осиротевший файл, но не строку,
// указывающую в пустоту. Читатель списка не увидит строку раньше,
// чем завершится запись, которая её породила.
func (s *FileService) Store(ctx context.Context, ownerID int64, displayName string, src io.Reader) (*model.File, error) {
	name := storageName(displayName)
	full := s.StoragePath(name)

	dst, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Errorw("Store: create artifact", "error", err)
		return nil, ErrStorage
	}

	if _, err = io.Copy(dst, src); err == nil {
		err = dst.Sync()
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Errorw("Store: write artifact", "error", err)
		_ = os.Remove(full) // недописанный артефакт не оставляем
		return nil, ErrStorage
	}

	file, err := s.repo.Create(ctx, &model.File{
		Name:   displayName,
		Path:   name,
		UserID: ownerID,
	})
	if err != nil {
		s.logger.Errorw("Store: insert metadata", "error", err)
		// вставка не прошла — подчищаем артефакт, чтобы не плодить сирот
		_ = os.Remove(full)
		return nil, ErrStorage
	}
	return file, nil
}

// List возвращает файлы, видимые вызывающему: admin — все, остальные —
// только свои. Новые сверху, это гарантия для клиента.
func (s *FileService) List(ctx context.Context, caller model.Snapshot) ([]repo.FileWithOwner, error) {
	var (
		rows []repo.FileWithOwner
		err  error
	)
	if caller.IsAdmin() {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		s.logger.Errorw("List: query failed", "user_id", caller.ID, "error", err)
		return nil, ErrStorage
	}
	return rows, nil
}

// Delete удаляет клип: сперва артефакт, потом строку. Удалять чужое может
// только admin. Пропавший с диска артефакт — повод для warn в логе,
// но не для отказа: висячую строку метаданных не оставляем ни при каких
// обстоятельствах.
func (s *FileService) Delete(ctx context.Context, fileID int64, caller model.Snapshot) error {
	file, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		s.logger.Errorw("Delete: lookup failed", "file_id", fileID, "error", err)
		return ErrStorage
	}

	if !caller.IsAdmin() && file.UserID != caller.ID {
		return ErrForbidden
	}

	if err := os.Remove(s.StoragePath(file.Path)); err != nil {
		s.logger.Warnw("Delete: could not remove artifact", "file_id", fileID, "error", err)
	}

	if err := s.repo.DeleteByID(ctx, fileID); err != nil {
		s.logger.Errorw("Delete: delete metadata", "file_id", fileID, "error", err)
		return ErrStorage
	}
	return nil
}

// EnsureUploadDir создаёт каталог загрузок, если его ещё нет.
func EnsureUploadDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	return nil
}
