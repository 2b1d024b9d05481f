package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/core/auth"
	"sheetboard/internal/core/cache"
	"sheetboard/internal/domain"
	"sheetboard/pkg/utils"
)

const (
	msgFieldsRequired     = "All fields are required"
	msgEmailPassword      = "Email and password required"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidGoogle      = "Invalid Google data"
	msgEmailTaken         = "Email already registered"
	msgInvalidToken       = "Invalid or expired token"
	msgUserNotFound       = "User not found"
	msgBlocked            = "Account is blocked"
)

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	GoogleID string `json:"googleId"`
}

// Session is what signup, login and google-auth hand back to the client.
type Session struct {
	Token string        `json:"token"`
	User  domain.Public `json:"user"`
}

type AuthService struct {
	users      domain.UserRepository
	jwt        *auth.JWTer
	adminEmail string
	bcryptCost int
	cache      *cache.Cache // optional
	log        *zap.Logger
	now        func() time.Time
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, adminEmail string, bcryptCost int, log *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwt:        jwter,
		adminEmail: adminEmail,
		bcryptCost: bcryptCost,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithCache makes account writes evict the admin analytics entry.
func (s *AuthService) WithCache(c *cache.Cache) *AuthService {
	s.cache = c
	return s
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.BadRequest(msgFieldsRequired)
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(msgEmailTaken)
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	now := s.now()
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.ComputeRole(email, s.adminEmail, domain.RoleUser),
		Plan:         domain.DefaultPlan(now),
		CreatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, err
	}
	dropAnalytics(ctx, s.cache, s.log)
	s.log.Info("user registered", zap.String("uid", u.ID), zap.String("role", u.Role))
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.BadRequest(msgEmailPassword)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// unknown email, google-only account and wrong password look the same
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	if u.Blocked {
		return nil, apperr.Forbidden(msgBlocked)
	}
	if err := s.touchLogin(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("uid", u.ID))
	return s.session(u)
}

func (s *AuthService) GoogleAuth(ctx context.Context, in GoogleInput) (*Session, error) {
	email := domain.NormalizeEmail(in.Email)
	googleID := strings.TrimSpace(in.GoogleID)
	if email == "" || googleID == "" {
		return nil, apperr.BadRequest(msgInvalidGoogle)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u, err = s.createGoogleUser(ctx, email, in.Name, googleID)
		if err != nil {
			return nil, err
		}
		return s.session(u)
	}
	if u.Blocked {
		return nil, apperr.Forbidden(msgBlocked)
	}
	if u.GoogleID == "" {
		u.GoogleID = googleID
	}
	if err := s.touchLogin(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("uid", u.ID), zap.String("via", "google"))
	return s.session(u)
}

func (s *AuthService) createGoogleUser(ctx context.Context, email, name, googleID string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	now := s.now()
	u := &domain.User{
		ID:        utils.NewID(),
		Name:      name,
		Email:     email,
		GoogleID:  googleID,
		Role:      domain.ComputeRole(email, s.adminEmail, domain.RoleUser),
		LastLogin: &now,
		Plan:      domain.DefaultPlan(now),
		CreatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		// lost a race with a concurrent first sign-in
		u, err = s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apperr.Internal("google auth", domain.ErrDuplicateEmail)
		}
		return u, nil
	}
	dropAnalytics(ctx, s.cache, s.log)
	s.log.Info("user registered", zap.String("uid", u.ID), zap.String("via", "google"))
	return u, nil
}

// touchLogin applies the admin-email rule and stamps lastLogin.
func (s *AuthService) touchLogin(ctx context.Context, u *domain.User) error {
	now := s.now()
	u.Role = domain.ComputeRole(u.Email, s.adminEmail, u.Role)
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	dropAnalytics(ctx, s.cache, s.log)
	return nil
}

func (s *AuthService) session(u *domain.User) (*Session, error) {
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &Session{Token: tok, User: u.Public()}, nil
}

// Resolve turns a bearer token into the live user record. The user is re-read on
// every call and only written back when the admin-email rule changes its role.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, apperr.Unauthorized(msgInvalidToken)
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthorized(msgUserNotFound)
	}
	if role := domain.ComputeRole(u.Email, s.adminEmail, u.Role); role != u.Role {
		u.Role = role
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
		dropAnalytics(ctx, s.cache, s.log)
		s.log.Info("user promoted", zap.String("uid", u.ID))
	}
	if u.Blocked {
		return nil, apperr.Forbidden(msgBlocked)
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	u.PasswordHash = ""
	return u, nil
}
