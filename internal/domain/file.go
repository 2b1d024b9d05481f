package domain

import (
	"context"
	"regexp"
	"time"
)

// Row is one parsed spreadsheet row keyed by column header.
type Row map[string]string

type File struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"-"`
	Data       []Row     `json:"data"`
	Raw        []byte    `json:"raw,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Usage is the per-owner rollup used by the admin dashboard.
type Usage struct {
	FileCount  int64
	TotalBytes int64
}

var spreadsheetName = regexp.MustCompile(`(?i)\.(xlsx|csv)$`)

// IsSpreadsheet reports whether a file name carries a parseable spreadsheet extension.
func IsSpreadsheet(name string) bool { return spreadsheetName.MatchString(name) }

type FileRepository interface {
	Create(ctx context.Context, f *File) error
	FindByID(ctx context.Context, id string) (*File, error)
	FindOwned(ctx context.Context, id, ownerID string) (*File, error)
	// ListByOwner returns the owner's files newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]File, error)
	ListAll(ctx context.Context) ([]File, error)
	Delete(ctx context.Context, id string) error
	UsageByOwner(ctx context.Context) (map[string]Usage, error)
}
