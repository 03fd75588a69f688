package orchestrators

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"mergington/internal/domain/account"
	"mergington/internal/domain/activity"
	"mergington/internal/domain/student"
)

//go:embed seed_data.yaml
var seedData []byte

// ActivityStoreForSeed defines the activity store interface needed for seeding.
type ActivityStoreForSeed interface {
	GetByName(ctx context.Context, name string) (activity.Activity, error)
	Save(ctx context.Context, a activity.Activity) error
}

// AccountStoreForSeed defines the account store interface needed for seeding.
type AccountStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, a account.Account) error
}

// StudentStoreForSeed defines the student store interface needed for seeding.
type StudentStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, s student.Student) error
}

// SeedDeps holds dependencies for ExecuteSeed.
type SeedDeps struct {
	ActivityStore ActivityStoreForSeed
	AccountStore  AccountStoreForSeed
	StudentStore  StudentStoreForSeed
}

type seedFile struct {
	Activities []seedActivity `yaml:"activities"`
	Accounts   []seedAccount  `yaml:"accounts"`
	Students   []seedStudent  `yaml:"students"`
}

type seedActivity struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	Days            []string `yaml:"days"`
	StartTime       string   `yaml:"start_time"`
	EndTime         string   `yaml:"end_time"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

type seedAccount struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
}

type seedStudent struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Grade     string `yaml:"grade"`
	Phone     string `yaml:"phone"`
}

// ExecuteSeed loads the bundled catalog into an empty database. Activities are
// matched by name and never overwritten; accounts and students are only
// created when their tables are empty, so reruns are safe.
// POST: Every bundled activity exists; default accounts and students exist
// when none did before
func ExecuteSeed(ctx context.Context, deps SeedDeps) error {
	var data seedFile
	if err := yaml.Unmarshal(seedData, &data); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	created := 0
	for _, a := range data.Activities {
		if _, err := deps.ActivityStore.GetByName(ctx, a.Name); err == nil {
			continue
		}
		entity := activity.Activity{
			Name:        a.Name,
			Description: a.Description,
			Schedule:    a.Schedule,
			Details: &activity.ScheduleDetails{
				Days:      a.Days,
				StartTime: a.StartTime,
				EndTime:   a.EndTime,
			},
			MaxParticipants: a.MaxParticipants,
			Participants:    a.Participants,
		}
		if err := entity.Validate(); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		if err := deps.ActivityStore.Save(ctx, entity); err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		created++
	}

	accountCount, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if accountCount == 0 {
		for _, a := range data.Accounts {
			entity := account.Account{
				ID:          uuid.New().String(),
				Username:    a.Username,
				DisplayName: a.DisplayName,
				Role:        a.Role,
				CreatedAt:   time.Now(),
			}
			if err := entity.SetPassword(a.Password); err != nil {
				return fmt.Errorf("seed account %q: %w", a.Username, err)
			}
			if err := deps.AccountStore.Save(ctx, entity); err != nil {
				return fmt.Errorf("seed account %q: %w", a.Username, err)
			}
		}
		slog.Info("seed_event", "event", "accounts_seeded", "count", len(data.Accounts))
	}

	studentCount, err := deps.StudentStore.Count(ctx)
	if err != nil {
		return err
	}
	if studentCount == 0 {
		for _, s := range data.Students {
			entity := student.Student{
				ID:        uuid.New().String(),
				Email:     s.Email,
				FirstName: s.FirstName,
				LastName:  s.LastName,
				Grade:     s.Grade,
				Phone:     s.Phone,
			}
			if err := deps.StudentStore.Save(ctx, entity); err != nil {
				return fmt.Errorf("seed student %q: %w", s.Email, err)
			}
		}
		slog.Info("seed_event", "event", "students_seeded", "count", len(data.Students))
	}

	if created > 0 {
		slog.Info("seed_event", "event", "activities_seeded", "count", created)
	}
	return nil
}
