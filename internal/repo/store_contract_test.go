package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetboard/internal/domain"
	"sheetboard/internal/repo"
	"sheetboard/pkg/utils"
)

func newUser(email string) *domain.User {
	return &domain.User{
		ID:           utils.NewID(),
		Name:         "Ann",
		Email:        domain.NormalizeEmail(email),
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		Plan:         domain.DefaultPlan(time.Now().UTC()),
	}
}

func newFile(owner, name string, size int64, rows []domain.Row) *domain.File {
	return &domain.File{
		ID:       utils.NewID(),
		OwnerID:  owner,
		FileName: name,
		MimeType: "text/csv",
		Size:     size,
		Data:     rows,
	}
}

// runStoreContract checks behaviour every backend must share. open returns
// a fresh, migrated store per subtest.
func runStoreContract(t *testing.T, open func(*testing.T) *repo.Stores) {
	cases := []struct {
		name string
		run  func(*testing.T, *repo.Stores)
	}{
		{"UserRepoCreateAndFind", checkUserRepoCreateAndFind},
		{"UserRepoDuplicateEmail", checkUserRepoDuplicateEmail},
		{"UserRepoUpdate", checkUserRepoUpdate},
		{"FileRepoRowsAndOwnership", checkFileRepoRowsAndOwnership},
		{"FileRepoListNewestFirst", checkFileRepoListNewestFirst},
		{"FileRepoUsageByOwner", checkFileRepoUsageByOwner},
		{"UserRepoDeleteWithFiles", checkUserRepoDeleteWithFiles},
		{"EngagementRepos", checkEngagementRepos},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, open(t))
		})
	}
}

func checkUserRepoCreateAndFind(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	u := newUser("ann@example.com")
	require.NoError(t, s.Users.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.Users.FindByEmail(ctx, "  ANN@example.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.PlanFree, got.Plan.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	missing, err := s.Users.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func checkUserRepoDuplicateEmail(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, newUser("dup@example.com")))
	err := s.Users.Create(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	// an update that collides with another account's email maps the same way
	other := newUser("other@example.com")
	require.NoError(t, s.Users.Create(ctx, other))
	other.Email = "dup@example.com"
	assert.ErrorIs(t, s.Users.Update(ctx, other), domain.ErrDuplicateEmail)
}

func checkUserRepoUpdate(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	u := newUser("ann@example.com")
	require.NoError(t, s.Users.Create(ctx, u))

	now := time.Now().UTC().Truncate(time.Second)
	u.Blocked = true
	u.LastLogin = &now
	u.Plan = domain.Plan{ID: domain.PlanPro, Name: "Pro", Price: 9.99, Status: domain.PlanStatusSuccess, PurchasedAt: now}
	require.NoError(t, s.Users.Update(ctx, u))

	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Blocked)
	require.NotNil(t, got.LastLogin)
	assert.True(t, now.Equal(*got.LastLogin))
	assert.Equal(t, domain.PlanPro, got.Plan.ID)
	assert.InDelta(t, 9.99, got.Plan.Price, 1e-9)
}

func checkFileRepoRowsAndOwnership(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	f := newFile("owner-1", "a.csv", 10, []domain.Row{{"a": "1", "b": "2"}})
	require.NoError(t, s.Files.Create(ctx, f))

	got, err := s.Files.FindByID(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []domain.Row{{"a": "1", "b": "2"}}, got.Data)

	owned, err := s.Files.FindOwned(ctx, f.ID, "someone-else")
	require.NoError(t, err)
	assert.Nil(t, owned)

	other := newFile("owner-1", "notes.txt", 5, nil)
	require.NoError(t, s.Files.Create(ctx, other))
	got, err = s.Files.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Data)

	require.NoError(t, s.Files.Delete(ctx, f.ID))
	got, err = s.Files.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func checkFileRepoListNewestFirst(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		f := newFile("owner-1", "f.csv", 1, nil)
		f.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Files.Create(ctx, f))
		ids = append(ids, f.ID)
	}
	require.NoError(t, s.Files.Create(ctx, newFile("owner-2", "x.csv", 1, nil)))

	list, err := s.Files.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})

	all, err := s.Files.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func checkFileRepoUsageByOwner(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	require.NoError(t, s.Files.Create(ctx, newFile("u1", "a.csv", 100, nil)))
	require.NoError(t, s.Files.Create(ctx, newFile("u1", "b.csv", 50, nil)))
	require.NoError(t, s.Files.Create(ctx, newFile("u2", "c.csv", 7, nil)))

	usage, err := s.Files.UsageByOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Usage{FileCount: 2, TotalBytes: 150}, usage["u1"])
	assert.Equal(t, domain.Usage{FileCount: 1, TotalBytes: 7}, usage["u2"])
	_, ok := usage["u3"]
	assert.False(t, ok)
}

func checkUserRepoDeleteWithFiles(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	u := newUser("gone@example.com")
	keep := newUser("keep@example.com")
	require.NoError(t, s.Users.Create(ctx, u))
	require.NoError(t, s.Users.Create(ctx, keep))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Files.Create(ctx, newFile(u.ID, "f.csv", 1, nil)))
	}
	require.NoError(t, s.Files.Create(ctx, newFile(keep.ID, "k.csv", 1, nil)))

	found, err := s.Users.DeleteWithFiles(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	left, err := s.Files.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	kept, err := s.Files.ListByOwner(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	found, err = s.Users.DeleteWithFiles(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func checkEngagementRepos(t *testing.T, s *repo.Stores) {
	ctx := context.Background()

	sub := &domain.Subscriber{ID: utils.NewID(), Email: "a@b.c"}
	require.NoError(t, s.Subscribers.Create(ctx, sub))
	assert.False(t, sub.CreatedAt.IsZero())

	tm := &domain.Testimonial{ID: utils.NewID(), UserID: "u1", Feedback: "great", Rating: 5}
	require.NoError(t, s.Testimonials.Create(ctx, tm))
	assert.False(t, tm.CreatedAt.IsZero())
}
