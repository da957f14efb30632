package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erazemk/milaap/internal/model"
)

// Disk stores uploads below a root directory, one subdirectory per kind.
type Disk struct {
	Root string
}

// NewDisk creates the kind directories below root.
func NewDisk(root string) (*Disk, error) {
	for _, kind := range []model.ItemKind{model.KindLost, model.KindFound} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("creating upload directory: %w", err)
		}
	}
	return &Disk{Root: root}, nil
}

func (d *Disk) path(ref string) (string, error) {
	dir, name, err := splitRef(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.Root, dir, name), nil
}

// Save implements Store.
func (d *Disk) Save(_ context.Context, kind model.ItemKind, data []byte) (string, error) {
	ref := newRef(kind)
	p, err := d.path(ref)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return ref, nil
}

// Open implements Store.
func (d *Disk) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	p, err := d.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	return f, nil
}

// Delete implements Store.
func (d *Disk) Delete(_ context.Context, ref string) error {
	p, err := d.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}
