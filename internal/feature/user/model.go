package user

import (
	"time"

	"sheetboard/internal/domain"
)

// PlanModel is stored inline in the users table with a plan_ column prefix.
type PlanModel struct {
	Tier        string  `gorm:"size:16;not null;default:free"`
	Name        string  `gorm:"size:64;not null;default:Free"`
	Price       float64 `gorm:"not null;default:0"`
	Status      string  `gorm:"size:16;not null;default:success"`
	PurchasedAt time.Time
}

type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(32)"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"size:128;not null"`
	PasswordHash string `gorm:"size:100"`
	GoogleID     string `gorm:"size:64"`
	Role         string `gorm:"size:16;not null;default:user"`
	Blocked      bool   `gorm:"not null;default:false"`
	LastLogin    *time.Time
	Plan         PlanModel `gorm:"embedded;embeddedPrefix:plan_"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		Role:         u.Role,
		Blocked:      u.Blocked,
		LastLogin:    u.LastLogin,
		Plan: PlanModel{
			Tier:        u.Plan.ID,
			Name:        u.Plan.Name,
			Price:       u.Plan.Price,
			Status:      u.Plan.Status,
			PurchasedAt: u.Plan.PurchasedAt,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		GoogleID:     m.GoogleID,
		Role:         m.Role,
		Blocked:      m.Blocked,
		LastLogin:    m.LastLogin,
		Plan: domain.Plan{
			ID:          m.Plan.Tier,
			Name:        m.Plan.Name,
			Price:       m.Plan.Price,
			Status:      m.Plan.Status,
			PurchasedAt: m.Plan.PurchasedAt,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
