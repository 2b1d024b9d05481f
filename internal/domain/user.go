package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"

	PlanStatusPending = "pending"
	PlanStatusSuccess = "success"
)

// ErrDuplicateEmail is returned by repositories when the unique email index rejects a write.
var ErrDuplicateEmail = errors.New("email already registered")

// Plan is the subscription currently attached to a user. It is overwritten wholesale on purchase.
type Plan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

func DefaultPlan(now time.Time) Plan {
	return Plan{ID: PlanFree, Name: "Free", Price: 0, Status: PlanStatusSuccess, PurchasedAt: now}
}

func ValidPlanID(id string) bool {
	switch id {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	GoogleID     string     `json:"googleId,omitempty"`
	Role         string     `json:"role"` // "user"/"admin"
	Blocked      bool       `json:"blocked"`
	LastLogin    *time.Time `json:"lastLogin"`
	Plan         Plan       `json:"plan"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Public is the projection returned next to a freshly issued token.
type Public struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ComputeRole promotes an account whose email matches the configured admin address.
// It never demotes: any other email keeps currentRole.
func ComputeRole(email, adminEmail, currentRole string) string {
	admin := NormalizeEmail(adminEmail)
	if admin != "" && NormalizeEmail(email) == admin {
		return RoleAdmin
	}
	if currentRole == "" {
		return RoleUser
	}
	return currentRole
}

// UserRepository returns (nil, nil) from lookups that find nothing.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	// DeleteWithFiles removes the user and every file it owns. It reports false when
	// the user did not exist.
	DeleteWithFiles(ctx context.Context, id string) (bool, error)
}
