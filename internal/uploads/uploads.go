// Package uploads stores item photos under generated names, on local disk or
// in a MinIO bucket.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/milaap/internal/model"
)

// ErrNotFound is returned when an upload does not exist.
var ErrNotFound = errors.New("upload not found")

// Prefix starts every stored reference.
const Prefix = "uploads/"

// Store saves and serves uploaded images. References returned by Save have the
// form "uploads/<kind>/<uuid>.jpg" and are stored in the item row.
type Store interface {
	Save(ctx context.Context, kind model.ItemKind, data []byte) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// newRef generates a fresh reference for an item kind.
func newRef(kind model.ItemKind) string {
	return Prefix + string(kind) + "/" + uuid.NewString() + ".jpg"
}

// Ref builds the reference for a kind and file name, rejecting anything that
// is not a generated name.
func Ref(kind, name string) (string, error) {
	k, ok := model.ParseItemKind(kind)
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", ErrNotFound, kind)
	}
	id, found := strings.CutSuffix(name, ".jpg")
	if !found {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return Prefix + string(k) + "/" + name, nil
}

// splitRef returns the kind directory and file name of a reference.
func splitRef(ref string) (string, string, error) {
	rest, ok := strings.CutPrefix(ref, Prefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	dir, name := path.Split(rest)
	if _, err := Ref(strings.TrimSuffix(dir, "/"), name); err != nil {
		return "", "", err
	}
	return strings.TrimSuffix(dir, "/"), name, nil
}
