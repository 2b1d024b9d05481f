package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type localDisk struct {
	root string
}

func NewLocal(root string) (Disk, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir: %w", err)
	}
	return &localDisk{root: abs}, nil
}

func (d *localDisk) abs(key string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if full != d.root && !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage/local: key %q escapes root", key)
	}
	return full, nil
}

func (d *localDisk) Put(_ context.Context, key string, content []byte) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	return nil
}

func (d *localDisk) Get(_ context.Context, key string) ([]byte, error) {
	full, err := d.abs(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", key, err)
	}
	return data, nil
}

func (d *localDisk) Delete(_ context.Context, key string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}
