package repo_test

import (
	"testing"

	"sheetboard/internal/testutil"
)

func TestGormStores(t *testing.T) {
	runStoreContract(t, testutil.NewStores)
}
