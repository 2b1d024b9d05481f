package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/core/cache"
	"sheetboard/internal/domain"
)

const analyticsKey = "admin:analytics"

// UserUsage is one row of the admin analytics table.
type UserUsage struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	Blocked       bool       `json:"blocked"`
	FileCount     int64      `json:"fileCount"`
	TotalFileSize string     `json:"totalFileSize"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLogin     *time.Time `json:"lastLogin"`
}

// BlockInput keeps the raw JSON so that "true" as a string or 1 is rejected.
type BlockInput struct {
	Block json.RawMessage `json:"block"`
}

func (in BlockInput) flag() (bool, bool) {
	switch string(in.Block) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

type AdminService struct {
	users domain.UserRepository
	files domain.FileRepository
	blobs *FileService
	cache *cache.Cache // optional
	ttl   time.Duration
	log   *zap.Logger
}

func NewAdminService(users domain.UserRepository, files domain.FileRepository, blobs *FileService, c *cache.Cache, ttl time.Duration, log *zap.Logger) *AdminService {
	return &AdminService{users: users, files: files, blobs: blobs, cache: c, ttl: ttl, log: log}
}

func (s *AdminService) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *AdminService) Files(ctx context.Context) ([]domain.File, error) {
	return s.blobs.All(ctx)
}

func (s *AdminService) Analytics(ctx context.Context) ([]UserUsage, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.analytics(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, analyticsKey, s.ttl, s.analytics)
}

func (s *AdminService) analytics(ctx context.Context) ([]UserUsage, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	usage, err := s.files.UsageByOwner(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserUsage, 0, len(users))
	for _, u := range users {
		use := usage[u.ID]
		out = append(out, UserUsage{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			Role:          u.Role,
			Blocked:       u.Blocked,
			FileCount:     use.FileCount,
			TotalFileSize: FormatSize(use.TotalBytes),
			CreatedAt:     u.CreatedAt,
			LastLogin:     u.LastLogin,
		})
	}
	return out, nil
}

func (s *AdminService) BlockUser(ctx context.Context, id string, in BlockInput) (*domain.User, error) {
	block, ok := in.flag()
	if !ok {
		return nil, apperr.BadRequest("block must be true or false")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	u.Blocked = block
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("user block toggled", zap.String("uid", id), zap.Bool("blocked", block))
	u.PasswordHash = ""
	return u, nil
}

// DeleteUser removes the user and every file it owns, then clears their raw bytes.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	owned, err := s.files.ListByOwner(ctx, id)
	if err != nil {
		return err
	}
	found, err := s.users.DeleteWithFiles(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound(msgUserNotFound)
	}
	for _, f := range owned {
		s.blobs.removeBlob(ctx, f.StorageKey)
	}
	s.invalidate(ctx)
	s.log.Info("user deleted", zap.String("uid", id), zap.Int("files", len(owned)))
	return nil
}

func (s *AdminService) invalidate(ctx context.Context) {
	dropAnalytics(ctx, s.cache, s.log)
}

// dropAnalytics evicts the cached analytics table after any write to users or files.
func dropAnalytics(ctx context.Context, c *cache.Cache, log *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, analyticsKey); err != nil {
		log.Warn("invalidate analytics cache", zap.Error(err))
	}
}
