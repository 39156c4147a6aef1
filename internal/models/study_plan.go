package models

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type SessionType string

const (
	SessionReview   SessionType = "review"
	SessionNew      SessionType = "new"
	SessionPractice SessionType = "practice"
)

type Subject struct {
	Name              string    `json:"name" yaml:"name" validate:"required"`
	Strength          int       `json:"strength" yaml:"strength" validate:"min=0,max=100"`
	TimeSpentMinutes  int       `json:"time_spent_minutes" yaml:"time_spent_minutes" validate:"min=0"`
	TargetTimeMinutes int       `json:"target_time_minutes" yaml:"target_time_minutes" validate:"min=0"`
	Priority          Priority  `json:"priority" yaml:"priority" validate:"required,oneof=high medium low"`
	LastStudied       time.Time `json:"last_studied" yaml:"-"`
}

// StudySession is a scheduled block of study time. Subject is a free-text
// label, not a reference to a Subject.
type StudySession struct {
	ID              string      `json:"id" yaml:"id" validate:"required"`
	Subject         string      `json:"subject" yaml:"subject"`
	DurationMinutes int         `json:"duration_minutes" yaml:"duration_minutes" validate:"min=0"`
	Date            time.Time   `json:"date" yaml:"-"`
	Completed       bool        `json:"completed" yaml:"completed"`
	Type            SessionType `json:"type" yaml:"type" validate:"required,oneof=review new practice"`
}

type WeeklyPlan struct {
	Week            string         `json:"week"`
	Subjects        []Subject      `json:"subjects"`
	Sessions        []StudySession `json:"sessions"`
	TotalTargetTime int            `json:"total_target_time"`
	CompletedTime   int            `json:"completed_time"`
}

type WeekDay struct {
	Name    string `json:"name"`
	Date    int    `json:"date"`
	IsToday bool   `json:"is_today"`
}

type SubjectInsight struct {
	Subject
	Band           string `json:"band"`
	Recommendation string `json:"recommendation"`
	HoursSpent     int    `json:"hours_spent"`
	HoursTarget    int    `json:"hours_target"`
}

// PlanOverview bundles the derived views of the weekly plan.
type PlanOverview struct {
	Week                 string           `json:"week"`
	ProgressPercent      int              `json:"progress_percent"`
	ProgressBar          int              `json:"progress_bar"`
	CompletedHours       int              `json:"completed_hours"`
	TargetHours          int              `json:"target_hours"`
	CompletedSessions    int              `json:"completed_sessions"`
	TotalSessions        int              `json:"total_sessions"`
	SubjectCount         int              `json:"subject_count"`
	AverageMinutesPerDay int              `json:"average_minutes_per_day"`
	TodaySessions        []StudySession   `json:"today_sessions"`
	PrioritySubjects     []SubjectInsight `json:"priority_subjects"`
	Performance          []SubjectInsight `json:"performance"`
	Days                 []WeekDay        `json:"days"`
}
