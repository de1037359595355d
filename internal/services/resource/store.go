// Package resource реализует CRUD над коллекциями, вложенными в
// preferences пользователя: контактами, счетами, шаблонами и каталогом.
//
// Каждая мутация читает документ preferences под блокировкой строки,
// меняет коллекцию в памяти и записывает документ целиком. Элементы
// адресуются id, уникальным в пределах коллекции владельца; чужие
// элементы для вызывающего не существуют.
package resource

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

// PreferencesStore описывает доступ к документу preferences.
type PreferencesStore interface {
	GetPreferences(ctx context.Context, userID string) (models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, fn func(models.Preferences) error) error
}

// Item — элемент коллекции со служебными полями id и временными метками.
type Item[T any] interface {
	*T
	Metadata() *models.Meta
}

// Store — хранилище одной коллекции.
type Store[T any, P Item[T]] struct {
	prefs    PreferencesStore
	key      string
	validate *validator.Validate
	compare  func(a, b T) int
	onCreate func(ctx context.Context, userID string, item T)
	now      func() time.Time
	newID    func() string
}

// Option настраивает Store.
type Option[T any, P Item[T]] func(*Store[T, P])

// WithOrder задаёт порядок элементов в List. Без него возвращается порядок хранения.
func WithOrder[T any, P Item[T]](compare func(a, b T) int) Option[T, P] {
	return func(s *Store[T, P]) { s.compare = compare }
}

// WithOnCreate регистрирует обработчик, вызываемый после успешного Create.
func WithOnCreate[T any, P Item[T]](fn func(ctx context.Context, userID string, item T)) Option[T, P] {
	return func(s *Store[T, P]) { s.onCreate = fn }
}

// WithClock подменяет источник времени.
func WithClock[T any, P Item[T]](now func() time.Time) Option[T, P] {
	return func(s *Store[T, P]) { s.now = now }
}

// New создаёт хранилище коллекции, лежащей в preferences по ключу key.
func New[T any, P Item[T]](prefs PreferencesStore, key string, validate *validator.Validate, opts ...Option[T, P]) *Store[T, P] {
	s := &Store[T, P]{
		prefs:    prefs,
		key:      key,
		validate: validate,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List возвращает коллекцию пользователя; отсутствующая коллекция пуста.
func (s *Store[T, P]) List(ctx context.Context, userID string) ([]T, error) {
	op := "services.resource.List." + s.key

	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items, err := models.Collection[T](prefs, s.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.compare != nil {
		slices.SortStableFunc(items, s.compare)
	}
	return items, nil
}

// Create проверяет элемент, присваивает ему новый id и временные метки и
// добавляет в конец коллекции.
func (s *Store[T, P]) Create(ctx context.Context, userID string, item T) (T, error) {
	op := "services.resource.Create." + s.key
	var zero T

	if err := s.check(item); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	meta := P(&item).Metadata()
	meta.ID = s.newID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	err := s.prefs.UpdatePreferences(ctx, userID, func(p models.Preferences) error {
		items, err := models.Collection[T](p, s.key)
		if err != nil {
			return err
		}
		return models.SetCollection(p, s.key, append(items, item))
	})
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	if s.onCreate != nil {
		s.onCreate(ctx, userID, item)
	}
	return item, nil
}

// Get ищет элемент по id в коллекции пользователя.
func (s *Store[T, P]) Get(ctx context.Context, userID, id string) (T, error) {
	op := "services.resource.Get." + s.key
	var zero T

	items, err := s.List(ctx, userID)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	idx := indexOf[T, P](items, id)
	if idx < 0 {
		return zero, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return items[idx], nil
}

// Update накладывает поля patch поверх существующего элемента. id и
// createdAt не меняются, updatedAt обновляется.
func (s *Store[T, P]) Update(ctx context.Context, userID, id string, patch json.RawMessage) (T, error) {
	op := "services.resource.Update." + s.key
	var updated T

	err := s.prefs.UpdatePreferences(ctx, userID, func(p models.Preferences) error {
		items, err := models.Collection[T](p, s.key)
		if err != nil {
			return err
		}
		idx := indexOf[T, P](items, id)
		if idx < 0 {
			return models.ErrNotFound
		}

		merged, err := merge(items[idx], patch)
		if err != nil {
			return err
		}
		prev := P(&items[idx]).Metadata()
		meta := P(&merged).Metadata()
		meta.ID = prev.ID
		meta.CreatedAt = prev.CreatedAt
		meta.UpdatedAt = s.now()
		if err = s.check(merged); err != nil {
			return err
		}

		items[idx] = merged
		updated = merged
		return models.SetCollection(p, s.key, items)
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет элемент. Повторное удаление возвращает ErrNotFound.
func (s *Store[T, P]) Delete(ctx context.Context, userID, id string) error {
	op := "services.resource.Delete." + s.key

	err := s.prefs.UpdatePreferences(ctx, userID, func(p models.Preferences) error {
		items, err := models.Collection[T](p, s.key)
		if err != nil {
			return err
		}
		idx := indexOf[T, P](items, id)
		if idx < 0 {
			return models.ErrNotFound
		}
		return models.SetCollection(p, s.key, slices.Delete(items, idx, idx+1))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store[T, P]) check(item T) error {
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	return nil
}

func indexOf[T any, P Item[T]](items []T, id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(items, func(it T) bool {
		return P(&it).Metadata().ID == id
	})
}

// merge накладывает ключи верхнего уровня patch на JSON-объект base и
// декодирует результат в новое значение. Массивы и вложенные объекты из
// patch заменяют прежние целиком.
func merge[T any](base T, patch json.RawMessage) (T, error) {
	var merged T
	raw, err := json.Marshal(base)
	if err != nil {
		return merged, err
	}
	doc := map[string]json.RawMessage{}
	if err = json.Unmarshal(raw, &doc); err != nil {
		return merged, err
	}
	if len(patch) > 0 {
		var fields map[string]json.RawMessage
		if err = json.Unmarshal(patch, &fields); err != nil {
			return merged, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
		}
		maps.Copy(doc, fields)
	}
	if raw, err = json.Marshal(doc); err != nil {
		return merged, err
	}
	if err = json.Unmarshal(raw, &merged); err != nil {
		return merged, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	return merged, nil
}

// byField упорядочивает элементы по ключу.
func byField[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}
