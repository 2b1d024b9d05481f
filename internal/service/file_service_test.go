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

func csvUpload(name, body string) Upload {
	return Upload{Name: name, MimeType: "text/csv", Data: []byte(body)}
}

func TestUploadParsesSpreadsheets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	files, err := f.files.Upload(ctx, "owner-1", []Upload{
		csvUpload("sales.CSV", "a,b\n1,2\n3\n"),
		{Name: "notes.txt", Data: []byte("hello world")},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, []domain.Row{{"a": "1", "b": "2"}, {"a": "3"}}, files[0].Data)
	assert.Equal(t, int64(len("a,b\n1,2\n3\n")), files[0].Size)
	assert.Equal(t, "text/csv", files[0].MimeType)

	assert.Empty(t, files[1].Data)
	assert.Contains(t, files[1].MimeType, "text/plain", "missing content type is sniffed")

	list, err := f.files.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, it := range list {
		assert.NotEmpty(t, it.Raw)
		assert.NotNil(t, it.Data)
	}
}

func TestUploadKeepsBrokenSpreadsheet(t *testing.T) {
	f := newFixture(t)
	files, err := f.files.Upload(context.Background(), "owner-1", []Upload{
		{Name: "broken.xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: []byte("not a zip")},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Empty(t, files[0].Data)
}

func TestUploadRequiresFiles(t *testing.T) {
	f := newFixture(t)
	_, err := f.files.Upload(context.Background(), "owner-1", nil)
	assert.EqualError(t, err, "No files uploaded")
	assert.Equal(t, http.StatusBadRequest, apperr.CodeOf(err))
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.files.Analyze(ctx, nil)
	assert.EqualError(t, err, "No file uploaded")

	_, err = f.files.Analyze(ctx, &Upload{Name: "a.pdf", Data: []byte("%PDF")})
	assert.EqualError(t, err, "Only Excel/CSV files are supported")

	_, err = f.files.Analyze(ctx, &Upload{Name: "a.xlsx", Data: []byte("nope")})
	assert.EqualError(t, err, "Failed to analyze file")
	assert.Equal(t, http.StatusInternalServerError, apperr.CodeOf(err))

	rows, err := f.files.Analyze(ctx, &Upload{Name: "a.csv", Data: []byte("x,y\n5,6\n")})
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{{"x": "5", "y": "6"}}, rows)

	all, err := f.stores.Files.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "analyze stores nothing")
}

func TestAnalyzeStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	files, err := f.files.Upload(ctx, "owner-1", []Upload{
		csvUpload("a.csv", "a,b\n1,2\n"),
		{Name: "b.txt", Data: []byte("plain")},
	})
	require.NoError(t, err)

	got, err := f.files.AnalyzeStored(ctx, files[0].ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{{"a": "1", "b": "2"}}, got.Data)

	_, err = f.files.AnalyzeStored(ctx, files[0].ID, "intruder")
	assert.EqualError(t, err, "File not found")

	_, err = f.files.AnalyzeStored(ctx, files[1].ID, "owner-1")
	assert.EqualError(t, err, "No data available to analyze")
}

func TestDeleteOwnerOrAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := &domain.User{ID: "owner-1", Role: domain.RoleUser}
	other := &domain.User{ID: "other", Role: domain.RoleUser}
	admin := &domain.User{ID: "root", Role: domain.RoleAdmin}

	files, err := f.files.Upload(ctx, owner.ID, []Upload{csvUpload("a.csv", "a\n1\n"), csvUpload("b.csv", "b\n2\n")})
	require.NoError(t, err)

	err = f.files.Delete(ctx, files[0].ID, other)
	assert.Equal(t, http.StatusForbidden, apperr.CodeOf(err))
	assert.EqualError(t, err, "Not authorized to delete this file")

	require.NoError(t, f.files.Delete(ctx, files[0].ID, owner))
	require.NoError(t, f.files.Delete(ctx, files[1].ID, admin))

	err = f.files.Delete(ctx, files[0].ID, owner)
	assert.Equal(t, http.StatusNotFound, apperr.CodeOf(err))

	list, err := f.files.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	files, err := f.files.Upload(ctx, "owner-1", []Upload{csvUpload("a.csv", "a\n1\n")})
	require.NoError(t, err)

	err = f.files.DeleteOwned(ctx, files[0].ID, "other")
	assert.Equal(t, http.StatusNotFound, apperr.CodeOf(err))
	require.NoError(t, f.files.DeleteOwned(ctx, files[0].ID, "owner-1"))
}

func TestListFallsBackToUnknownType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.stores.Files.Create(ctx, &domain.File{ID: "f1", OwnerID: "o", FileName: "x", Size: 1}))

	list, err := f.files.List(ctx, "o")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "unknown", list[0].FileType)
	assert.Nil(t, list[0].Raw)
	assert.Equal(t, []domain.Row{}, list[0].Data)
}
