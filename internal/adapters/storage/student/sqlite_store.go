package student

import (
	"context"
	"database/sql"
	"fmt"

	"mergington/internal/adapters/storage"
	domain "mergington/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new StudentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const studentColumns = "id, email, first_name, last_name, grade, phone"

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM student WHERE id = ?", id)
	return scanStudent(row)
}

// GetByEmail retrieves a Student by school email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM student WHERE email = ?", email)
	return scanStudent(row)
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO student (id, email, first_name, last_name, grade, phone) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET email=excluded.email, first_name=excluded.first_name, last_name=excluded.last_name, grade=excluded.grade, phone=excluded.phone",
		entity.ID, entity.Email, entity.FirstName, entity.LastName, entity.Grade, entity.Phone,
	)
	return err
}

// Delete removes a Student from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM student WHERE id = ?", id)
	return err
}

// List retrieves all Students ordered by email.
// POST: Returns all entities
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+studentColumns+" FROM student ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		var entity domain.Student
		if err := rows.Scan(&entity.ID, &entity.Email, &entity.FirstName, &entity.LastName, &entity.Grade, &entity.Phone); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of students.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM student").Scan(&count)
	return count, err
}

func scanStudent(row *sql.Row) (domain.Student, error) {
	var entity domain.Student
	err := row.Scan(&entity.ID, &entity.Email, &entity.FirstName, &entity.LastName, &entity.Grade, &entity.Phone)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}
