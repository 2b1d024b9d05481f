package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sheetboard/internal/domain"
	"sheetboard/internal/feature/file"
	"sheetboard/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var rows []user.UserModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	u.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *UserRepo) DeleteWithFiles(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&user.UserModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := tx.Where("owner_id = ?", id).Delete(&file.FileModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&user.UserModel{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	return found, nil
}
