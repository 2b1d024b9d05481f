// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sheetboard/internal/core/database"
	"sheetboard/internal/core/storage"
	"sheetboard/internal/repo"
	"sheetboard/pkg/utils"
)

// NewStores opens a migrated sqlite database in the test's temp dir.
func NewStores(t *testing.T) *repo.Stores {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)

	s := repo.NewGormStores(db)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// MongoURI reads MONGO_URI, falling back to a mongodb APP_DB_DSN.
func MongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}
	if dsn := os.Getenv("APP_DB_DSN"); strings.HasPrefix(dsn, "mongodb") {
		return dsn
	}
	return ""
}

// NewMongoStores connects to a throwaway database that is dropped on cleanup.
// The test is skipped when no server is configured.
func NewMongoStores(t *testing.T) *repo.Stores {
	t.Helper()
	uri := MongoURI()
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := database.NewMongo(ctx, database.MongoOpts{
		URI:      uri,
		Database: "sheetboard_test_" + utils.NewID(),
	})
	require.NoError(t, err)

	s := repo.NewMongoStores(client, db)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	require.NoError(t, s.Migrate(ctx))
	return s
}

// NewDisk returns a local blob store rooted in the test's temp dir.
func NewDisk(t *testing.T) storage.Disk {
	t.Helper()
	d, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return d
}
