package resettoken

import (
	"context"
	"time"

	domain "mergington/internal/domain/account"
)

// Store persists password reset tokens.
type Store interface {
	Save(ctx context.Context, value domain.ResetToken) error
	GetByToken(ctx context.Context, token string) (domain.ResetToken, error)
	InvalidateForAccount(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
