package memory

import (
	"context"
	"strings"
)

func NewArchive(ctx context.Context, databaseURL string) (Archiver, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryArchive(), nil
	}
	return NewPostgresArchive(ctx, databaseURL)
}
