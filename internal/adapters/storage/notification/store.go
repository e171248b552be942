package notification

import (
	"context"

	domain "talentdesk/internal/domain/notification"
)

// Store persists NotificationRecord state. RecipientAddress, Subject and Body
// are written once at Create and never updated; UpdateDelivery only touches
// the status and retry bookkeeping columns.
type Store interface {
	Create(ctx context.Context, r domain.Record) error
	UpdateDelivery(ctx context.Context, r domain.Record) error
	GetByID(ctx context.Context, id string) (domain.Record, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Record, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}
