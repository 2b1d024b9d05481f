// Package storage keeps the raw bytes of uploaded files outside the record store.
//
// Two drivers are available:
//   - "local": a directory on the local filesystem (default)
//   - "s3": any S3-compatible bucket (AWS S3, MinIO, R2)
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotExist is returned by Get when no object lives at the key.
var ErrNotExist = errors.New("storage: object does not exist")

// Disk is implemented by every blob driver.
type Disk interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
}

type S3Options struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string // empty for real AWS
}

type Options struct {
	Disk      string
	LocalRoot string
	S3        S3Options
}

func New(ctx context.Context, o Options) (Disk, error) {
	switch o.Disk {
	case "", "local":
		return NewLocal(o.LocalRoot)
	case "s3":
		return NewS3(ctx, o.S3)
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", o.Disk)
	}
}
