package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Disk хранит объекты в каталоге локальной файловой системы, которые
// раздаются HTTP-сервером по префиксу.
type Disk struct {
	dir    string
	prefix string
}

// NewDisk создаёт каталог dir, если его нет.
func NewDisk(dir, publicPrefix string) (*Disk, error) {
	const op = "objectstore.NewDisk"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	return &Disk{dir: dir, prefix: publicPrefix}, nil
}

// Dir возвращает корневой каталог хранилища.
func (d *Disk) Dir() string { return d.dir }

// Put записывает объект во временный файл и атомарно переименовывает его.
func (d *Disk) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	const op = "objectstore.Disk.Put"
	if !validKey(key) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidKey)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(d.dir, key)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return d.prefix + key, nil
}

// Delete удаляет файл, соответствующий публичному пути.
func (d *Disk) Delete(_ context.Context, publicPath string) error {
	const op = "objectstore.Disk.Delete"
	key, err := keyFromPath(d.prefix, publicPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = os.Remove(filepath.Join(d.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
