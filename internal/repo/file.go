package repo

import (
	"ClipVault/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// FileWithOwner — строка files, обогащённая именем загрузившего пользователя.
// Ровно то, что отдаёт GET /api/files.
type FileWithOwner struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	UploadTime time.Time `json:"upload_time"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
}

// FileRepository определяет контракт доступа к строкам files.
// За связку "строка + артефакт на диске" отвечает сервисный слой,
// здесь только индекс.
type FileRepository interface {
	// Create вставляет запись о файле и возвращает её с заполненным ID.
	Create(ctx context.Context, file *model.File) (*model.File, error)

	// GetByID ищет запись по ID. Если нет — gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id int64) (*model.File, error)

	// DeleteByID удаляет строку метаданных.
	DeleteByID(ctx context.Context, id int64) error

	// ListAll возвращает все файлы с именами владельцев, новые сверху.
	ListAll(ctx context.Context) ([]FileWithOwner, error)

	// ListByOwner возвращает файлы одного владельца, новые сверху.
	ListByOwner(ctx context.Context, ownerID int64) ([]FileWithOwner, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepository создаёт реализацию репозитория для File.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, file *model.File) (*model.File, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

func (r *fileRepo) GetByID(ctx context.Context, id int64) (*model.File, error) {
	var f model.File
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.File{}, id).Error
}

// listQuery — общий join files ⋈ users. Сортировка по времени загрузки,
// id как tiebreaker: записи в пределах одной секунды тоже идут новые сверху.
func (r *fileRepo) listQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("files").
		Select("files.id, files.name, files.path, files.upload_time, files.user_id, users.username").
		Joins("JOIN users ON users.id = files.user_id").
		Order("files.upload_time DESC").
		Order("files.id DESC")
}

func (r *fileRepo) ListAll(ctx context.Context) ([]FileWithOwner, error) {
	rows := []FileWithOwner{}
	if err := r.listQuery(ctx).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *fileRepo) ListByOwner(ctx context.Context, ownerID int64) ([]FileWithOwner, error) {
	rows := []FileWithOwner{}
	if err := r.listQuery(ctx).Where("files.user_id = ?", ownerID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
