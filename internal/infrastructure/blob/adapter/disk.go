package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"skillswap/internal/infrastructure/blob/port"
)

// DiskStore satisfies port.Store by writing attachments under a local
// directory. Names are prefixed with a UUID so concurrent uploads of the same
// filename never collide.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore ensures dir exists and returns a store whose URLs are
// baseURL + "/" + stored name.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("blob: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

var _ port.Store = (*DiskStore)(nil)

func (s *DiskStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := uuid.NewString() + "_" + sanitize(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

// sanitize strips path separators so a filename cannot escape the blob dir.
func sanitize(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}
	return base
}
