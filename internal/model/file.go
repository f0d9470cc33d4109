package model

import "time"

// File — строка метаданных одного загруженного аудиоклипа.
// Path хранит только серверное имя файла внутри каталога загрузок
// (uuid + расширение), имя от клиента живёт в Name и в путь не попадает.
type File struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null"`             // отображаемое имя, как прислал клиент
	Path string `gorm:"uniqueIndex;not null"` // серверное имя артефакта в каталоге загрузок

	UploadTime time.Time `gorm:"not null;index;autoCreateTime"`

	UserID int64 `gorm:"not null;index"` // ссылка на users.id, владелец
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
