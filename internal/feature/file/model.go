package file

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"sheetboard/internal/domain"
)

type FileModel struct {
	ID         string         `gorm:"primaryKey;type:varchar(32)"`
	OwnerID    string         `gorm:"type:varchar(32);not null;index:idx_files_owner_created,priority:1"`
	FileName   string         `gorm:"size:255;not null"`
	MimeType   string         `gorm:"size:128;not null"`
	Size       int64          `gorm:"not null"`
	StorageKey string         `gorm:"size:255"`
	Data       datatypes.JSON // parsed rows, null for non-spreadsheets

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_files_owner_created,priority:2,sort:desc"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (FileModel) TableName() string { return "files" }

func FromDomain(f *domain.File) (*FileModel, error) {
	m := &FileModel{
		ID:         f.ID,
		OwnerID:    f.OwnerID,
		FileName:   f.FileName,
		MimeType:   f.MimeType,
		Size:       f.Size,
		StorageKey: f.StorageKey,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
	if f.Data != nil {
		b, err := json.Marshal(f.Data)
		if err != nil {
			return nil, fmt.Errorf("encode rows: %w", err)
		}
		m.Data = datatypes.JSON(b)
	}
	return m, nil
}

func (m *FileModel) ToDomain() (*domain.File, error) {
	f := &domain.File{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		FileName:   m.FileName,
		MimeType:   m.MimeType,
		Size:       m.Size,
		StorageKey: m.StorageKey,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if len(m.Data) > 0 && string(m.Data) != "null" {
		if err := json.Unmarshal(m.Data, &f.Data); err != nil {
			return nil, fmt.Errorf("decode rows of %s: %w", m.ID, err)
		}
	}
	return f, nil
}
