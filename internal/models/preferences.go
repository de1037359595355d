package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Ключи коллекций внутри preferences.
const (
	KeyContacts  = "contacts"
	KeyInvoices  = "invoices"
	KeyTemplates = "templates"
	KeyCatalog   = "catalog"
)

// Preferences — открытый JSON-объект пользователя. Известные коллекции
// читаются и пишутся через Collection/SetCollection, остальные ключи
// сохраняются без изменений.
type Preferences map[string]json.RawMessage

// Value реализует driver.Valuer для записи в колонку jsonb.
func (p Preferences) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]json.RawMessage(p))
	if err != nil {
		return nil, fmt.Errorf("preferences.Value: %w", err)
	}
	return string(b), nil
}

// Scan реализует sql.Scanner для чтения колонки jsonb.
func (p *Preferences) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Preferences{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("preferences.Scan: unsupported type %T", src)
	}

	out := Preferences{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("preferences.Scan: %w", err)
		}
	}
	*p = out
	return nil
}

// Collection декодирует коллекцию по ключу. Отсутствующий ключ
// эквивалентен пустому списку.
func Collection[T any](p Preferences, key string) ([]T, error) {
	raw, ok := p[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("preferences.Collection %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SetCollection записывает коллекцию по ключу, заменяя прежнее значение.
func SetCollection[T any](p Preferences, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("preferences.SetCollection %s: %w", key, err)
	}
	p[key] = raw
	return nil
}
