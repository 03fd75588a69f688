package account

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

// NewSQLiteStore creates a new AccountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = "id, username, display_name, password_hash, role, created_at, failed_logins, locked_until"

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanAccount(row)
}

// GetByUsername retrieves an Account by its unique username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE username = ?", username)
	return scanAccount(row)
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	var lockedUntil any
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO account (id, username, display_name, password_hash, role, created_at, failed_logins, locked_until) VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET username=excluded.username, display_name=excluded.display_name, password_hash=excluded.password_hash, role=excluded.role, failed_logins=excluded.failed_logins, locked_until=excluded.locked_until",
		entity.ID, entity.Username, entity.DisplayName, entity.PasswordHash, entity.Role,
		entity.CreatedAt.Format(time.RFC3339), entity.FailedLogins, lockedUntil,
	)
	return err
}

// Delete removes an Account from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// List retrieves all Accounts ordered by username.
// POST: Returns all entities
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM account ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of accounts.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := row.Scan(&entity.ID, &entity.Username, &entity.DisplayName, &entity.PasswordHash, &entity.Role, &createdAt, &entity.FailedLogins, &lockedUntil)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	if err != nil {
		return domain.Account{}, err
	}
	applyAccountTimes(&entity, createdAt, lockedUntil)
	return entity, nil
}

func scanAccountRows(rows *sql.Rows) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	if err := rows.Scan(&entity.ID, &entity.Username, &entity.DisplayName, &entity.PasswordHash, &entity.Role, &createdAt, &entity.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	applyAccountTimes(&entity, createdAt, lockedUntil)
	return entity, nil
}

func applyAccountTimes(entity *domain.Account, createdAt string, lockedUntil sql.NullString) {
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entity.CreatedAt = t
	}
	if lockedUntil.Valid {
		if t, err := time.Parse(time.RFC3339, lockedUntil.String); err == nil {
			entity.LockedUntil = t
		}
	}
}
