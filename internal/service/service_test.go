package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"sheetboard/internal/core/auth"
	"sheetboard/internal/repo"
	"sheetboard/internal/testutil"
)

const testAdmin = "boss@example.com"

type fixture struct {
	stores *repo.Stores
	auth   *AuthService
	files  *FileService
	plans  *PlanService
	admin  *AdminService
	engage *EngagementService
	jwt    *auth.JWTer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	s := testutil.NewStores(t)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), TTL: time.Hour}
	files := NewFileService(s.Files, testutil.NewDisk(t), log)
	return &fixture{
		stores: s,
		jwt:    jwter,
		auth:   NewAuthService(s.Users, jwter, testAdmin, 4, log),
		files:  files,
		plans:  NewPlanService(s.Users, log),
		admin:  NewAdminService(s.Users, s.Files, files, nil, 0, log),
		engage: NewEngagementService(s.Subscribers, s.Testimonials, log),
	}
}

func (f *fixture) signup(t *testing.T, name, email string) *Session {
	t.Helper()
	sess, err := f.auth.Signup(context.Background(), SignupInput{Name: name, Email: email, Password: "secret"})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return sess
}
