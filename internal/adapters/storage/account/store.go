package account

import (
	"context"

	"talentdesk/internal/domain/recruiting"
)

// Store persists staff accounts (admins and interviewers). The accounts
// themselves are managed by the excluded user-administration surface; the
// notification core reads them to resolve recipients and capabilities.
type Store interface {
	GetByID(ctx context.Context, id string) (recruiting.User, error)
	Save(ctx context.Context, u recruiting.User) error
}
