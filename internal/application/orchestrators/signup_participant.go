package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"mergington/internal/domain/activity"
)

// ActivityStoreForSignup defines the store interface needed by the
// registration orchestrators.
type ActivityStoreForSignup interface {
	GetByName(ctx context.Context, name string) (activity.Activity, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
}

// SignupInput carries input for registering a student into an activity.
type SignupInput struct {
	ActivityName string
	Email        string
}

// SignupDeps holds dependencies for the registration orchestrators.
type SignupDeps struct {
	ActivityStore ActivityStoreForSignup
}

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrInvalidEmail      = errors.New("a valid student email is required")
	ErrAlreadyRegistered = errors.New("student is already signed up for this activity")
	ErrActivityFull      = errors.New("activity is full")
	ErrNotRegistered     = errors.New("student is not signed up for this activity")
)

// ExecuteSignup registers a student email into an activity. Capacity is
// enforced here, at the registration boundary — the catalog views treat it as
// display data only.
// PRE: caller is an authenticated teacher
// POST: email is appended to the roster, preserving registration order
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) error {
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	entry, err := deps.ActivityStore.GetByName(ctx, input.ActivityName)
	if err != nil {
		return ErrActivityNotFound
	}
	if entry.HasParticipant(email) {
		return ErrAlreadyRegistered
	}
	if entry.IsFull() {
		return ErrActivityFull
	}

	if err := deps.ActivityStore.AddParticipant(ctx, input.ActivityName, email); err != nil {
		return err
	}

	slog.Info("registration_event", "event", "signup", "activity", input.ActivityName, "email", email)
	return nil
}

// ExecuteUnregister removes a student email from an activity's roster.
// PRE: caller is an authenticated teacher
// POST: email is no longer registered; remaining order is unchanged
func ExecuteUnregister(ctx context.Context, input SignupInput, deps SignupDeps) error {
	entry, err := deps.ActivityStore.GetByName(ctx, input.ActivityName)
	if err != nil {
		return ErrActivityNotFound
	}
	if !entry.HasParticipant(input.Email) {
		return ErrNotRegistered
	}

	if err := deps.ActivityStore.RemoveParticipant(ctx, input.ActivityName, input.Email); err != nil {
		return err
	}

	slog.Info("registration_event", "event", "unregister", "activity", input.ActivityName, "email", input.Email)
	return nil
}
