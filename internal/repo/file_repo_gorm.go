package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sheetboard/internal/domain"
	"sheetboard/internal/feature/file"
)

type FileRepo struct{ db *gorm.DB }

func NewFileRepo(db *gorm.DB) *FileRepo { return &FileRepo{db: db} }

func (r *FileRepo) Create(ctx context.Context, f *domain.File) error {
	m, err := file.FromDomain(f)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	f.CreatedAt, f.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *FileRepo) FindByID(ctx context.Context, id string) (*domain.File, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *FileRepo) FindOwned(ctx context.Context, id, ownerID string) (*domain.File, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID))
}

func (r *FileRepo) first(q *gorm.DB) (*domain.File, error) {
	var m file.FileModel
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return m.ToDomain()
}

func (r *FileRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.File, error) {
	return r.list(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (r *FileRepo) ListAll(ctx context.Context) ([]domain.File, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *FileRepo) list(q *gorm.DB) ([]domain.File, error) {
	var rows []file.FileModel
	if err := q.Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	out := make([]domain.File, 0, len(rows))
	for i := range rows {
		f, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r *FileRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&file.FileModel{}).Error; err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	return nil
}

type usageRow struct {
	OwnerID    string
	FileCount  int64
	TotalBytes int64
}

func (r *FileRepo) UsageByOwner(ctx context.Context) (map[string]domain.Usage, error) {
	var rows []usageRow
	err := r.db.WithContext(ctx).Model(&file.FileModel{}).
		Select("owner_id, COUNT(*) AS file_count, COALESCE(SUM(size), 0) AS total_bytes").
		Group("owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("file usage: %w", err)
	}
	out := make(map[string]domain.Usage, len(rows))
	for _, row := range rows {
		out[row.OwnerID] = domain.Usage{FileCount: row.FileCount, TotalBytes: row.TotalBytes}
	}
	return out, nil
}
