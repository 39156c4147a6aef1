package studyplan

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"studyflow-backend/internal/events"
	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/models"
)

var (
	ErrSessionNotFound         = errors.New("study session not found")
	ErrSessionAlreadyCompleted = errors.New("study session already completed")
)

const generateNotice = "Generating personalized 7-day study plan based on your performance data..."

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type Option func(*Widget)

func WithClock(now func() time.Time) Option { return func(w *Widget) { w.now = now } }

func WithSeed(seed Seed) Option { return func(w *Widget) { w.seed = seed } }

func WithPublisher(p events.Publisher) Option { return func(w *Widget) { w.pub = p } }

// Widget owns one weekly plan.
type Widget struct {
	mu   sync.Mutex
	plan models.WeeklyPlan

	now  func() time.Time
	seed Seed
	pub  events.Publisher
	log  zerolog.Logger
}

func New(opts ...Option) *Widget {
	w := &Widget{
		now:  time.Now,
		seed: DefaultSeed,
		pub:  events.Nop{},
		log:  logger.Component("studyplan"),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.plan = w.seed(w.now())
	return w
}

// Reset remounts the widget from its seed.
func (w *Widget) Reset() {
	plan := w.seed(w.now())
	w.mu.Lock()
	defer w.mu.Unlock()
	w.plan = plan
}

func (w *Widget) Plan() models.WeeklyPlan {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyPlan(w.plan)
}

// CompleteSession marks a pending session done and credits its duration to
// the week and to the subject of the same name.
func (w *Widget) CompleteSession(ctx context.Context, id string) (models.StudySession, error) {
	w.mu.Lock()
	idx := -1
	for i := range w.plan.Sessions {
		if w.plan.Sessions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return models.StudySession{}, ErrSessionNotFound
	}
	session := &w.plan.Sessions[idx]
	if session.Completed {
		w.mu.Unlock()
		return *session, ErrSessionAlreadyCompleted
	}

	session.Completed = true
	w.plan.CompletedTime += session.DurationMinutes
	for i := range w.plan.Subjects {
		if w.plan.Subjects[i].Name == session.Subject {
			w.plan.Subjects[i].TimeSpentMinutes += session.DurationMinutes
			w.plan.Subjects[i].LastStudied = w.now()
		}
	}
	done := *session
	completedTime := w.plan.CompletedTime
	progress := progressPercent(w.plan)
	w.mu.Unlock()

	w.log.Info().
		Str("session_id", id).
		Str("subject", done.Subject).
		Int("completed_time", completedTime).
		Msg("study session completed")

	w.pub.Publish(ctx, models.WSMessage{
		Type: models.EventSessionCompleted,
		Payload: models.SessionCompletedEvent{
			SessionID:       done.ID,
			Subject:         done.Subject,
			DurationMinutes: done.DurationMinutes,
			CompletedTime:   completedTime,
			ProgressPercent: progress,
		},
	})

	return done, nil
}

// GeneratePlan only announces the request; the plan is left untouched.
func (w *Widget) GeneratePlan() string {
	w.log.Info().Msg("weekly plan generation requested")
	return generateNotice
}

// ProgressPercent is completed/target as a rounded percentage. It is 0 for a
// zero target and may exceed 100.
func (w *Widget) ProgressPercent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return progressPercent(w.plan)
}

// ProgressBarValue is ProgressPercent clamped to [0, 100].
func (w *Widget) ProgressBarValue() int {
	return clampPercent(w.ProgressPercent())
}

func (w *Widget) TodaySessions() []models.StudySession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return todaySessions(w.plan, w.now())
}

func (w *Widget) PrioritySubjects() []models.Subject {
	w.mu.Lock()
	defer w.mu.Unlock()
	return prioritySubjects(w.plan)
}

func (w *Widget) SubjectsByStrength() []models.Subject {
	w.mu.Lock()
	defer w.mu.Unlock()
	return subjectsByStrength(w.plan)
}

func (w *Widget) DaysOfWeek() []models.WeekDay {
	return daysOfWeek(w.now())
}

func (w *Widget) CompletedSessionCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return completedSessionCount(w.plan)
}

func (w *Widget) AverageMinutesPerDay() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return roundDiv(w.plan.CompletedTime, 7)
}

// Overview computes every derived view from a single snapshot of the plan.
func (w *Widget) Overview() models.PlanOverview {
	w.mu.Lock()
	plan := copyPlan(w.plan)
	w.mu.Unlock()
	now := w.now()

	progress := progressPercent(plan)
	return models.PlanOverview{
		Week:                 plan.Week,
		ProgressPercent:      progress,
		ProgressBar:          clampPercent(progress),
		CompletedHours:       HoursLabel(plan.CompletedTime),
		TargetHours:          HoursLabel(plan.TotalTargetTime),
		CompletedSessions:    completedSessionCount(plan),
		TotalSessions:        len(plan.Sessions),
		SubjectCount:         len(plan.Subjects),
		AverageMinutesPerDay: roundDiv(plan.CompletedTime, 7),
		TodaySessions:        todaySessions(plan, now),
		PrioritySubjects:     insights(prioritySubjects(plan)),
		Performance:          insights(subjectsByStrength(plan)),
		Days:                 daysOfWeek(now),
	}
}

// StrengthBand buckets a 0-100 strength score.
func StrengthBand(strength int) string {
	switch {
	case strength >= 80:
		return "strong"
	case strength >= 60:
		return "fair"
	default:
		return "weak"
	}
}

func Recommendation(strength int) string {
	if strength < 60 {
		return "Extra practice needed"
	}
	return "Maintain current pace"
}

// HoursLabel rounds minutes to whole hours.
func HoursLabel(minutes int) int {
	return roundDiv(minutes, 60)
}

func Insight(s models.Subject) models.SubjectInsight {
	return models.SubjectInsight{
		Subject:        s,
		Band:           StrengthBand(s.Strength),
		Recommendation: Recommendation(s.Strength),
		HoursSpent:     HoursLabel(s.TimeSpentMinutes),
		HoursTarget:    HoursLabel(s.TargetTimeMinutes),
	}
}

func insights(subjects []models.Subject) []models.SubjectInsight {
	out := make([]models.SubjectInsight, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, Insight(s))
	}
	return out
}

func progressPercent(plan models.WeeklyPlan) int {
	if plan.TotalTargetTime <= 0 {
		return 0
	}
	return int(math.Round(float64(plan.CompletedTime) / float64(plan.TotalTargetTime) * 100))
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}

func roundDiv(n, d int) int {
	return int(math.Round(float64(n) / float64(d)))
}

func todaySessions(plan models.WeeklyPlan, now time.Time) []models.StudySession {
	out := []models.StudySession{}
	for _, s := range plan.Sessions {
		if sameDay(s.Date, now) {
			out = append(out, s)
		}
	}
	return out
}

func prioritySubjects(plan models.WeeklyPlan) []models.Subject {
	out := []models.Subject{}
	for _, s := range plan.Subjects {
		if s.Priority == models.PriorityHigh || s.Strength < 60 {
			out = append(out, s)
		}
	}
	return out
}

func subjectsByStrength(plan models.WeeklyPlan) []models.Subject {
	out := append([]models.Subject{}, plan.Subjects...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Strength < out[j].Strength })
	return out
}

func completedSessionCount(plan models.WeeklyPlan) int {
	n := 0
	for _, s := range plan.Sessions {
		if s.Completed {
			n++
		}
	}
	return n
}

// daysOfWeek lists Monday through Sunday of the week containing now.
func daysOfWeek(now time.Time) []models.WeekDay {
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)

	days := make([]models.WeekDay, 0, len(weekdayNames))
	for i, name := range weekdayNames {
		date := monday.AddDate(0, 0, i)
		days = append(days, models.WeekDay{
			Name:    name,
			Date:    date.Day(),
			IsToday: sameDay(date, now),
		})
	}
	return days
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func copyPlan(p models.WeeklyPlan) models.WeeklyPlan {
	out := p
	out.Subjects = append([]models.Subject(nil), p.Subjects...)
	out.Sessions = append([]models.StudySession(nil), p.Sessions...)
	return out
}
