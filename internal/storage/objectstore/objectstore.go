// Package objectstore хранит загруженные логотипы на диске или в MinIO.
package objectstore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey возвращается для ключей, выходящих за пределы хранилища.
var ErrInvalidKey = errors.New("invalid object key")

// Store сохраняет объекты и возвращает их публичный путь.
type Store interface {
	// Put сохраняет объект под ключом key и возвращает путь, по которому
	// клиент сможет его получить.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete удаляет объект по публичному пути. Отсутствие объекта не ошибка.
	Delete(ctx context.Context, publicPath string) error
}

// validKey допускает только плоские имена без разделителей каталогов.
func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && path.Clean(key) == key
}

// keyFromPath отрезает публичный префикс и проверяет оставшийся ключ.
func keyFromPath(prefix, publicPath string) (string, error) {
	key, ok := strings.CutPrefix(publicPath, prefix)
	if !ok || !validKey(key) {
		return "", ErrInvalidKey
	}
	return key, nil
}
