package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mergington/internal/adapters/storage"
	domain "mergington/internal/domain/activity"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ActivityStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const activityColumns = "id, name, description, schedule, start_time, end_time, max_participants"

// GetByID retrieves an Activity by its ID.
// PRE: id is non-empty
// POST: Returns the entity with days and participants loaded, or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Activity, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activity WHERE id = ?", id)
	return s.scanActivity(ctx, row)
}

// GetByName retrieves an Activity by its unique name.
// PRE: name is non-empty
// POST: Returns the entity with days and participants loaded, or an error if not found
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Activity, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activity WHERE name = ?", name)
	return s.scanActivity(ctx, row)
}

// Save persists an Activity, replacing its day set and participant roster.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Activity) error {
	id, err := s.lookupID(ctx, entity.Name)
	if err == sql.ErrNoRows {
		id = uuid.New().String()
	} else if err != nil {
		return err
	}

	var startTime, endTime any
	if entity.Details != nil {
		startTime = entity.Details.StartTime
		endTime = entity.Details.EndTime
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO activity (id, name, description, schedule, start_time, end_time, max_participants) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description, schedule=excluded.schedule, start_time=excluded.start_time, end_time=excluded.end_time, max_participants=excluded.max_participants",
		id, entity.Name, entity.Description, entity.Schedule, startTime, endTime, entity.MaxParticipants,
	)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM activity_day WHERE activity_id = ?", id); err != nil {
		return err
	}
	if entity.Details != nil {
		for _, day := range entity.Details.Days {
			if _, err := s.db.ExecContext(ctx, "INSERT INTO activity_day (activity_id, day) VALUES (?, ?)", id, day); err != nil {
				return err
			}
		}
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM activity_participant WHERE activity_id = ?", id); err != nil {
		return err
	}
	for i, email := range entity.Participants {
		if _, err := s.db.ExecContext(ctx, "INSERT INTO activity_participant (activity_id, email, position) VALUES (?, ?, ?)", id, email, i+1); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an Activity from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed, along with its days and participants
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM activity WHERE id = ?", id)
	return err
}

// List retrieves Activities matching the filter, in catalog insertion order.
// PRE: filter has valid parameters
// POST: Returns matching entities with days and participants loaded
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Activity, error) {
	query := "SELECT " + activityColumns + " FROM activity WHERE 1=1"
	var args []any
	if filter.Day != "" {
		query += " AND id IN (SELECT activity_id FROM activity_day WHERE day = ?)"
		args = append(args, filter.Day)
	}
	if filter.StartTime != "" {
		query += " AND start_time IS NOT NULL AND start_time >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime != "" {
		query += " AND end_time IS NOT NULL AND end_time <= ?"
		args = append(args, filter.EndTime)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Activity
	var ids []string
	for rows.Next() {
		entity, id, err := scanActivityRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if err := s.loadDetails(ctx, ids[i], &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// ListDays returns the distinct weekdays across all structured schedules,
// sorted alphabetically.
// POST: Returns a sorted, de-duplicated day list
func (s *SQLiteStore) ListDays(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT day FROM activity_day ORDER BY day")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// AddParticipant appends an email to the activity's roster.
// PRE: the activity exists and email is not already registered
// POST: email is appended preserving registration order
func (s *SQLiteStore) AddParticipant(ctx context.Context, name, email string) error {
	id, err := s.lookupID(ctx, name)
	if err != nil {
		return fmt.Errorf("activity not found: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO activity_participant (activity_id, email, position) VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM activity_participant WHERE activity_id = ?))",
		id, email, id,
	)
	return err
}

// RemoveParticipant deletes an email from the activity's roster.
// PRE: the activity exists
// POST: email is no longer registered; remaining order is unchanged
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, name, email string) error {
	id, err := s.lookupID(ctx, name)
	if err != nil {
		return fmt.Errorf("activity not found: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM activity_participant WHERE activity_id = ? AND email = ?", id, email)
	return err
}

func (s *SQLiteStore) lookupID(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM activity WHERE name = ?", name).Scan(&id)
	return id, err
}

func (s *SQLiteStore) scanActivity(ctx context.Context, row *sql.Row) (domain.Activity, error) {
	var entity domain.Activity
	var id string
	var startTime, endTime sql.NullString
	err := row.Scan(&id, &entity.Name, &entity.Description, &entity.Schedule, &startTime, &endTime, &entity.MaxParticipants)
	if err == sql.ErrNoRows {
		return domain.Activity{}, fmt.Errorf("activity not found: %w", err)
	}
	if err != nil {
		return domain.Activity{}, err
	}
	applyTimes(&entity, startTime, endTime)
	if err := s.loadDetails(ctx, id, &entity); err != nil {
		return domain.Activity{}, err
	}
	return entity, nil
}

func scanActivityRow(rows *sql.Rows) (domain.Activity, string, error) {
	var entity domain.Activity
	var id string
	var startTime, endTime sql.NullString
	if err := rows.Scan(&id, &entity.Name, &entity.Description, &entity.Schedule, &startTime, &endTime, &entity.MaxParticipants); err != nil {
		return domain.Activity{}, "", err
	}
	applyTimes(&entity, startTime, endTime)
	return entity, id, nil
}

func applyTimes(entity *domain.Activity, startTime, endTime sql.NullString) {
	if startTime.Valid && endTime.Valid {
		entity.Details = &domain.ScheduleDetails{StartTime: startTime.String, EndTime: endTime.String}
	}
}

// loadDetails fills in the day set and participant roster for one activity.
func (s *SQLiteStore) loadDetails(ctx context.Context, id string, entity *domain.Activity) error {
	if entity.Details != nil {
		rows, err := s.db.QueryContext(ctx, "SELECT day FROM activity_day WHERE activity_id = ? ORDER BY rowid", id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var day string
			if err := rows.Scan(&day); err != nil {
				rows.Close()
				return err
			}
			entity.Details.Days = append(entity.Details.Days, day)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}

	rows, err := s.db.QueryContext(ctx, "SELECT email FROM activity_participant WHERE activity_id = ? ORDER BY position", id)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return err
		}
		entity.Participants = append(entity.Participants, email)
	}
	return rows.Err()
}
