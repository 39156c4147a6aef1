package studyplan

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"studyflow-backend/internal/models"
)

// Seed builds the plan a widget mounts with, dated relative to now.
type Seed func(now time.Time) models.WeeklyPlan

const day = 24 * time.Hour

// DefaultSeed is the built-in demo week.
func DefaultSeed(now time.Time) models.WeeklyPlan {
	return models.WeeklyPlan{
		Week: weekLabel(now),
		Subjects: []models.Subject{
			{Name: "Mathematics", Strength: 45, TimeSpentMinutes: 120, TargetTimeMinutes: 300, Priority: models.PriorityHigh, LastStudied: now.Add(-1 * day)},
			{Name: "Computer Science", Strength: 75, TimeSpentMinutes: 180, TargetTimeMinutes: 240, Priority: models.PriorityMedium, LastStudied: now.Add(-2 * day)},
			{Name: "Biology", Strength: 85, TimeSpentMinutes: 90, TargetTimeMinutes: 180, Priority: models.PriorityLow, LastStudied: now.Add(-3 * day)},
			{Name: "Physics", Strength: 60, TimeSpentMinutes: 60, TargetTimeMinutes: 240, Priority: models.PriorityHigh, LastStudied: now.Add(-4 * day)},
		},
		Sessions: []models.StudySession{
			{ID: "1", Subject: "Mathematics", DurationMinutes: 60, Date: now, Completed: true, Type: models.SessionReview},
			{ID: "2", Subject: "Computer Science", DurationMinutes: 45, Date: now.Add(1 * day), Type: models.SessionNew},
			{ID: "3", Subject: "Physics", DurationMinutes: 90, Date: now.Add(2 * day), Type: models.SessionPractice},
		},
		TotalTargetTime: 960,
		CompletedTime:   450,
	}
}

func weekLabel(now time.Time) string {
	return "Week of " + now.Format("1/2/2006")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type seedFile struct {
	Week            string        `yaml:"week"`
	TotalTargetTime int           `yaml:"total_target_time" validate:"min=0"`
	CompletedTime   int           `yaml:"completed_time" validate:"min=0"`
	Subjects        []seedSubject `yaml:"subjects" validate:"dive"`
	Sessions        []seedSession `yaml:"sessions" validate:"dive"`
}

type seedSubject struct {
	models.Subject     `yaml:",inline"`
	LastStudiedDaysAgo int `yaml:"last_studied_days_ago" validate:"min=0"`
}

type seedSession struct {
	models.StudySession `yaml:",inline"`
	DayOffset           int `yaml:"day_offset"`
}

// LoadSeedFile reads a YAML plan. Dates in the file are day offsets from the
// mount time.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("parse seed file: %s fails %q (got %v)", fe.Namespace(), fe.ActualTag(), fe.Value())
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Sessions))
	for _, s := range f.Sessions {
		if seen[s.ID] {
			return nil, fmt.Errorf("parse seed file: duplicate session id %q", s.ID)
		}
		seen[s.ID] = true
	}

	return func(now time.Time) models.WeeklyPlan {
		plan := models.WeeklyPlan{
			Week:            f.Week,
			TotalTargetTime: f.TotalTargetTime,
			CompletedTime:   f.CompletedTime,
			Subjects:        make([]models.Subject, 0, len(f.Subjects)),
			Sessions:        make([]models.StudySession, 0, len(f.Sessions)),
		}
		if plan.Week == "" {
			plan.Week = weekLabel(now)
		}
		for _, s := range f.Subjects {
			subject := s.Subject
			subject.LastStudied = now.Add(-time.Duration(s.LastStudiedDaysAgo) * day)
			plan.Subjects = append(plan.Subjects, subject)
		}
		for _, s := range f.Sessions {
			session := s.StudySession
			session.Date = now.Add(time.Duration(s.DayOffset) * day)
			plan.Sessions = append(plan.Sessions, session)
		}
		return plan
	}, nil
}
