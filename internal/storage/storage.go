// Package storage хранилище вложений к комментариям.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorage сохраняет файл и возвращает публичный URL.
type FileStorage interface {
	Save(ctx context.Context, owner uuid.UUID, originalName, contentType string, r io.Reader, size int64) (string, error)
}

// ErrTooLarge файл больше лимита.
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("storage: размер файла превышает лимит %d байт", e.Limit)
}

// objectKey ключ вида {owner}/{owner}_{unixnano}{ext}, всегда через "/".
func objectKey(owner uuid.UUID, originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(sanitizeFilename(originalName)))
	return path.Join(owner.String(), fmt.Sprintf("%s_%d%s", owner.String(), now.UnixNano(), ext))
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	return name
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
