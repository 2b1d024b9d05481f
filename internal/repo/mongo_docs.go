package repo

import (
	"time"

	"sheetboard/internal/domain"
)

type planDoc struct {
	ID          string    `bson:"id"`
	Name        string    `bson:"name"`
	Price       float64   `bson:"price"`
	Status      string    `bson:"status"`
	PurchasedAt time.Time `bson:"purchasedAt"`
}

type userDoc struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password,omitempty"`
	GoogleID     string     `bson:"googleId,omitempty"`
	Role         string     `bson:"role"`
	Blocked      bool       `bson:"blocked"`
	LastLogin    *time.Time `bson:"lastLogin,omitempty"`
	Plan         planDoc    `bson:"plan"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func userToDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		GoogleID:     u.GoogleID,
		Role:         u.Role,
		Blocked:      u.Blocked,
		LastLogin:    u.LastLogin,
		Plan:         planDoc(u.Plan),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		GoogleID:     d.GoogleID,
		Role:         d.Role,
		Blocked:      d.Blocked,
		LastLogin:    d.LastLogin,
		Plan:         domain.Plan(d.Plan),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type fileDoc struct {
	ID         string       `bson:"_id"`
	OwnerID    string       `bson:"owner"`
	FileName   string       `bson:"fileName"`
	MimeType   string       `bson:"fileType"`
	Size       int64        `bson:"size"`
	StorageKey string       `bson:"storageKey,omitempty"`
	Data       []domain.Row `bson:"data"`
	CreatedAt  time.Time    `bson:"createdAt"`
	UpdatedAt  time.Time    `bson:"updatedAt"`
}

func fileToDoc(f *domain.File) fileDoc {
	return fileDoc{
		ID:         f.ID,
		OwnerID:    f.OwnerID,
		FileName:   f.FileName,
		MimeType:   f.MimeType,
		Size:       f.Size,
		StorageKey: f.StorageKey,
		Data:       f.Data,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func (d fileDoc) toDomain() domain.File {
	return domain.File{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		FileName:   d.FileName,
		MimeType:   d.MimeType,
		Size:       d.Size,
		StorageKey: d.StorageKey,
		Data:       d.Data,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// stamp fills unset timestamps the way gorm's autoCreateTime does.
func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
