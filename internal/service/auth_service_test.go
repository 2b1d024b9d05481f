package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/domain"
)

func TestSignupAssignsRole(t *testing.T) {
	f := newFixture(t)

	user := f.signup(t, "Ann", "ann@example.com")
	assert.Equal(t, domain.RoleUser, user.User.Role)
	assert.NotEmpty(t, user.Token)

	admin := f.signup(t, "Boss", "  BOSS@Example.com")
	assert.Equal(t, domain.RoleAdmin, admin.User.Role)
	assert.Equal(t, testAdmin, admin.User.Email)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@example.com"})
	assert.Equal(t, http.StatusBadRequest, apperr.CodeOf(err))
	assert.EqualError(t, err, "All fields are required")

	f.signup(t, "Ann", "ann@example.com")
	_, err = f.auth.Signup(ctx, SignupInput{Name: "Other", Email: "ANN@example.com", Password: "x"})
	assert.Equal(t, http.StatusConflict, apperr.CodeOf(err))
	assert.EqualError(t, err, "Email already registered")
}

func TestLoginSameMessageForUnknownAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "Ann", "ann@example.com")

	_, errWrong := f.auth.Login(ctx, LoginInput{Email: "ann@example.com", Password: "nope"})
	_, errUnknown := f.auth.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret"})
	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
	assert.Equal(t, "Invalid credentials", errWrong.Error())
	assert.Equal(t, http.StatusUnauthorized, apperr.CodeOf(errUnknown))

	_, err := f.auth.Login(ctx, LoginInput{Email: "ann@example.com"})
	assert.EqualError(t, err, "Email and password required")
}

func TestLoginStampsLastLoginAndPromotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "Ann", "ann@example.com")

	u, err := f.stores.Users.FindByID(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Nil(t, u.LastLogin)

	f.auth.adminEmail = "ann@example.com"
	out, err := f.auth.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, out.User.Role)

	u, err = f.stores.Users.FindByID(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, u.LastLogin)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestLoginRejectsBlockedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "Ann", "ann@example.com")

	_, err := f.admin.BlockUser(ctx, sess.User.ID, BlockInput{Block: []byte("true")})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret"})
	assert.Equal(t, http.StatusForbidden, apperr.CodeOf(err))

	_, err = f.auth.Login(ctx, LoginInput{Email: "ann@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, apperr.CodeOf(err), "credentials are checked first")
}

func TestGoogleAuthFindOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.GoogleAuth(ctx, GoogleInput{Email: "g@example.com"})
	assert.EqualError(t, err, "Invalid Google data")

	first, err := f.auth.GoogleAuth(ctx, GoogleInput{Email: "G@example.com", GoogleID: "gid-1"})
	require.NoError(t, err)
	assert.Equal(t, "g", first.User.Name)

	again, err := f.auth.GoogleAuth(ctx, GoogleInput{Email: "g@example.com", Name: "Gee", GoogleID: "gid-1"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	u, err := f.stores.Users.FindByID(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "gid-1", u.GoogleID)
	assert.Empty(t, u.PasswordHash)

	_, err = f.auth.Login(ctx, LoginInput{Email: "g@example.com", Password: "anything"})
	assert.EqualError(t, err, "Invalid credentials", "google-only accounts cannot log in with a password")
}

func TestGoogleAuthAttachesIDToPasswordAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "Ann", "ann@example.com")

	out, err := f.auth.GoogleAuth(ctx, GoogleInput{Email: "ann@example.com", GoogleID: "gid-9"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, out.User.ID)

	u, err := f.stores.Users.FindByID(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "gid-9", u.GoogleID)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "Ann", "ann@example.com")

	u, err := f.auth.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)
	assert.Empty(t, u.PasswordHash)

	_, err = f.auth.Resolve(ctx, "garbage")
	assert.EqualError(t, err, "Invalid or expired token")

	ghost, err := f.jwt.Issue("no-such-user")
	require.NoError(t, err)
	_, err = f.auth.Resolve(ctx, ghost)
	assert.EqualError(t, err, "User not found")
	assert.Equal(t, http.StatusUnauthorized, apperr.CodeOf(err))
}

func TestResolvePromotesAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "Ann", "ann@example.com")
	assert.Equal(t, domain.RoleUser, sess.User.Role)

	f.auth.adminEmail = "Ann@Example.com"
	u, err := f.auth.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	stored, err := f.stores.Users.FindByID(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)

	// the rule never demotes
	f.auth.adminEmail = "someone-else@example.com"
	u, err = f.auth.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signup(t, "Ann", "ann@example.com")

	u, err := f.auth.Me(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, domain.PlanFree, u.Plan.ID)

	_, err = f.auth.Me(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, apperr.CodeOf(err))
}
