package models

import "time"

// Meta — общие поля элемента вложенной коллекции.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metadata даёт обобщённому хранилищу доступ к служебным полям элемента.
func (m *Meta) Metadata() *Meta {
	return m
}

// Contact — запись адресной книги.
type Contact struct {
	Meta
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// CompanyInfo — реквизиты компании. В счёте хранится снимок, а не ссылка.
type CompanyInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// InvoiceItem — строка счёта.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// Invoice — счёт. Total приходит от клиента и сохраняется как есть,
// сервер его не пересчитывает.
type Invoice struct {
	Meta
	Client      string        `json:"client" validate:"required"`
	CompanyInfo CompanyInfo   `json:"companyInfo"`
	Items       []InvoiceItem `json:"items" validate:"required,min=1"`
	Total       float64       `json:"total" validate:"required"`
}

// TemplateItem — строка шаблона счёта.
type TemplateItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Template — многоразовая заготовка счёта.
type Template struct {
	Meta
	Name        string         `json:"name" validate:"required"`
	CompanyInfo CompanyInfo    `json:"companyInfo"`
	Items       []TemplateItem `json:"items"`
}

// Типы позиций каталога.
const (
	CatalogProduct = "product"
	CatalogService = "service"
)

// CatalogItem — товар или услуга из каталога пользователя.
type CatalogItem struct {
	Meta
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Type        string  `json:"type,omitempty" validate:"omitempty,oneof=product service"`
}
