package activity

import (
	"context"

	domain "mergington/internal/domain/activity"
)

// ListFilter narrows the catalog query by the server-side dimensions: an
// optional weekday and an optional start/end time window. Entries without
// structured schedule details never match a day or time filter.
type ListFilter struct {
	Day       string // include only activities meeting on this day
	StartTime string // include only activities starting at or after this time
	EndTime   string // include only activities ending at or before this time
}

// Store persists Activity state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Activity, error)
	GetByName(ctx context.Context, name string) (domain.Activity, error)
	Save(ctx context.Context, value domain.Activity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Activity, error)
	ListDays(ctx context.Context) ([]string, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
}
