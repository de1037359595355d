// Package resource содержит общее для обработчиков вложенных коллекций
// пользователя: описание вида ресурса и извлечение вызывающего.
package resource

import (
	"net/http"

	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
)

// Kind описывает вид ресурса для логов и текстов ответов.
type Kind struct {
	Name    string // единственное число, для логов: "contact"
	Plural  string // множественное число: "contacts"
	Title   string // для сообщений: "Contact"
	Invalid string // текст ответа при ошибке валидации
}

// Виды ресурсов, хранящихся в preferences пользователя.
var (
	Contacts = Kind{
		Name:    "contact",
		Plural:  "contacts",
		Title:   "Contact",
		Invalid: "Contact name is required.",
	}
	Invoices = Kind{
		Name:    "invoice",
		Plural:  "invoices",
		Title:   "Invoice",
		Invalid: "Missing invoice data.",
	}
	Templates = Kind{
		Name:    "template",
		Plural:  "templates",
		Title:   "Template",
		Invalid: "Template name is required.",
	}
	Catalog = Kind{
		Name:    "catalog item",
		Plural:  "catalog items",
		Title:   "Catalog item",
		Invalid: "Invalid catalog item.",
	}
)

// Messages возвращает тексты ошибок для операции action ("create contact").
func (k Kind) Messages(action string) response.Messages {
	return response.Messages{
		Invalid:  k.Invalid,
		NotFound: k.Title + " not found.",
		Internal: "Failed to " + action + ".",
	}
}

// Caller возвращает id вызывающего. Если личности в контексте нет,
// отправляет 401 и возвращает false.
func Caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, response.MsgAuthRequired, nil)
		return "", false
	}
	return id.ID, true
}
