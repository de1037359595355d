package resource

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// Типы хранилищ по видам ресурсов.
type (
	Contacts  = Store[models.Contact, *models.Contact]
	Invoices  = Store[models.Invoice, *models.Invoice]
	Templates = Store[models.Template, *models.Template]
	Catalog   = Store[models.CatalogItem, *models.CatalogItem]
)

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

// NewContacts — адресная книга, отсортированная по имени.
func NewContacts(prefs PreferencesStore, v *validator.Validate) *Contacts {
	return New[models.Contact, *models.Contact](prefs, models.KeyContacts, v,
		WithOrder[models.Contact, *models.Contact](byField(func(c models.Contact) string {
			return strings.ToLower(c.Name)
		})),
	)
}

// NewInvoices — счета, новые первыми. После создания публикуется invoice.created.
func NewInvoices(log *slog.Logger, prefs PreferencesStore, v *validator.Validate, events EventPublisher) *Invoices {
	return New[models.Invoice, *models.Invoice](prefs, models.KeyInvoices, v,
		WithOrder[models.Invoice, *models.Invoice](func(a, b models.Invoice) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}),
		WithOnCreate[models.Invoice, *models.Invoice](func(ctx context.Context, userID string, inv models.Invoice) {
			err := events.Publish(ctx, models.EventInvoiceCreated, models.InvoiceCreatedEvent{
				UserID:    userID,
				InvoiceID: inv.ID,
				Client:    inv.Client,
				Total:     inv.Total,
				CreatedAt: inv.CreatedAt,
			})
			if err != nil {
				log.Warn("failed to publish event", slog.String("event", models.EventInvoiceCreated), sl.Err(err))
			}
		}),
	)
}

// NewTemplates — шаблоны в порядке хранения.
func NewTemplates(prefs PreferencesStore, v *validator.Validate) *Templates {
	return New[models.Template, *models.Template](prefs, models.KeyTemplates, v)
}

// NewCatalog — каталог в порядке хранения.
func NewCatalog(prefs PreferencesStore, v *validator.Validate) *Catalog {
	return New[models.CatalogItem, *models.CatalogItem](prefs, models.KeyCatalog, v)
}
