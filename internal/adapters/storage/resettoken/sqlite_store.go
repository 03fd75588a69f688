package resettoken

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mergington/internal/adapters/storage"
	domain "mergington/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ResetTokenStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a ResetToken to the database.
// PRE: token fields are populated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.ResetToken) error {
	used := 0
	if entity.Used {
		used = 1
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reset_token (id, account_id, token, expires_at, used, created_at) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET used=excluded.used",
		entity.ID, entity.AccountID, entity.Token,
		entity.ExpiresAt.Format(time.RFC3339), used, entity.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetByToken retrieves a ResetToken by its token value.
// PRE: token is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (domain.ResetToken, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, account_id, token, expires_at, used, created_at FROM reset_token WHERE token = ?", token)
	var entity domain.ResetToken
	var expiresAt, createdAt string
	var used int
	err := row.Scan(&entity.ID, &entity.AccountID, &entity.Token, &expiresAt, &used, &createdAt)
	if err == sql.ErrNoRows {
		return domain.ResetToken{}, fmt.Errorf("reset token not found: %w", err)
	}
	if err != nil {
		return domain.ResetToken{}, err
	}
	entity.Used = used == 1
	if t, err := time.Parse(time.RFC3339, expiresAt); err == nil {
		entity.ExpiresAt = t
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entity.CreatedAt = t
	}
	return entity, nil
}

// InvalidateForAccount marks all of an account's tokens as used.
// PRE: accountID is non-empty
// POST: No token for the account can be redeemed afterwards
func (s *SQLiteStore) InvalidateForAccount(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE reset_token SET used = 1 WHERE account_id = ?", accountID)
	return err
}

// DeleteExpired removes tokens whose expiry is in the past.
// POST: Returns the number of tokens removed
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reset_token WHERE expires_at < ?", now.Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
