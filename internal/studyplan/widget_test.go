package studyplan

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyflow-backend/internal/models"
)

// Wednesday
var fixedNow = time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)

func newTestWidget(opts ...Option) *Widget {
	return New(append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []models.WSMessage
}

func (p *recordingPublisher) Publish(_ context.Context, msg models.WSMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
}

func TestNew_SeedPlan(t *testing.T) {
	w := newTestWidget()
	plan := w.Plan()

	assert.Equal(t, "Week of 3/4/2026", plan.Week)
	assert.Len(t, plan.Subjects, 4)
	assert.Len(t, plan.Sessions, 3)
	assert.Equal(t, 960, plan.TotalTargetTime)
	assert.Equal(t, 450, plan.CompletedTime)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), plan.Subjects[0].LastStudied)
	assert.Equal(t, 47, w.ProgressPercent())
}

func TestCompleteSession_Scenario(t *testing.T) {
	pub := &recordingPublisher{}
	w := newTestWidget(WithPublisher(pub))

	session, err := w.CompleteSession(context.Background(), "2")
	require.NoError(t, err)
	assert.True(t, session.Completed)

	plan := w.Plan()
	assert.Equal(t, 495, plan.CompletedTime)
	assert.True(t, plan.Sessions[1].Completed)
	assert.Equal(t, 52, w.ProgressPercent())
	assert.Equal(t, 225, plan.Subjects[1].TimeSpentMinutes)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, models.EventSessionCompleted, pub.msgs[0].Type)
	evt := pub.msgs[0].Payload.(models.SessionCompletedEvent)
	assert.Equal(t, 495, evt.CompletedTime)
	assert.Equal(t, 52, evt.ProgressPercent)
}

func TestCompleteSession_AlreadyCompletedDoesNotDoubleCount(t *testing.T) {
	w := newTestWidget()

	_, err := w.CompleteSession(context.Background(), "1")
	assert.ErrorIs(t, err, ErrSessionAlreadyCompleted)

	_, err = w.CompleteSession(context.Background(), "3")
	require.NoError(t, err)
	_, err = w.CompleteSession(context.Background(), "3")
	assert.ErrorIs(t, err, ErrSessionAlreadyCompleted)

	assert.Equal(t, 540, w.Plan().CompletedTime)
}

func TestCompleteSession_UnknownID(t *testing.T) {
	w := newTestWidget()

	_, err := w.CompleteSession(context.Background(), "42")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 450, w.Plan().CompletedTime)
}

func TestProgress_ZeroTarget(t *testing.T) {
	seed := func(now time.Time) models.WeeklyPlan {
		return models.WeeklyPlan{Week: "empty", TotalTargetTime: 0, CompletedTime: 120}
	}
	w := newTestWidget(WithSeed(seed))

	assert.Equal(t, 0, w.ProgressPercent())
	assert.Equal(t, 0, w.ProgressBarValue())
}

func TestProgress_AboveHundred(t *testing.T) {
	seed := func(now time.Time) models.WeeklyPlan {
		return models.WeeklyPlan{Week: "over", TotalTargetTime: 100, CompletedTime: 155}
	}
	w := newTestWidget(WithSeed(seed))

	assert.Equal(t, 155, w.ProgressPercent())
	assert.Equal(t, 100, w.ProgressBarValue())
	assert.Equal(t, 100, w.Overview().ProgressBar)
}

func TestDerivedViews(t *testing.T) {
	w := newTestWidget()

	today := w.TodaySessions()
	require.Len(t, today, 1)
	assert.Equal(t, "1", today[0].ID)

	var priority []string
	for _, s := range w.PrioritySubjects() {
		priority = append(priority, s.Name)
	}
	assert.Equal(t, []string{"Mathematics", "Physics"}, priority)

	var byStrength []string
	for _, s := range w.SubjectsByStrength() {
		byStrength = append(byStrength, s.Name)
	}
	assert.Equal(t, []string{"Mathematics", "Physics", "Computer Science", "Biology"}, byStrength)

	// views never reorder the plan
	assert.Equal(t, "Mathematics", w.Plan().Subjects[0].Name)
	assert.Equal(t, "Computer Science", w.Plan().Subjects[1].Name)

	assert.Equal(t, 1, w.CompletedSessionCount())
	assert.Equal(t, 64, w.AverageMinutesPerDay())
}

func TestSubjectsByStrength_Stable(t *testing.T) {
	seed := func(now time.Time) models.WeeklyPlan {
		return models.WeeklyPlan{Subjects: []models.Subject{
			{Name: "A", Strength: 70},
			{Name: "B", Strength: 50},
			{Name: "C", Strength: 70},
		}}
	}
	w := newTestWidget(WithSeed(seed))

	got := w.SubjectsByStrength()
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
	assert.Equal(t, "C", got[2].Name)
}

func TestDaysOfWeek(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantDates []int
		todayIdx  int
	}{
		{"wednesday", fixedNow, []int{2, 3, 4, 5, 6, 7, 8}, 2},
		{"sunday", time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), []int{2, 3, 4, 5, 6, 7, 8}, 6},
		{"monday across month", time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC), []int{30, 31, 1, 2, 3, 4, 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := daysOfWeek(tt.now)
			require.Len(t, days, 7)
			for i, d := range days {
				assert.Equal(t, weekdayNames[i], d.Name)
				assert.Equal(t, tt.wantDates[i], d.Date)
				assert.Equal(t, i == tt.todayIdx, d.IsToday)
			}
		})
	}
}

func TestBandsAndLabels(t *testing.T) {
	tests := []struct {
		strength int
		band     string
		rec      string
	}{
		{85, "strong", "Maintain current pace"},
		{80, "strong", "Maintain current pace"},
		{60, "fair", "Maintain current pace"},
		{59, "weak", "Extra practice needed"},
		{0, "weak", "Extra practice needed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, StrengthBand(tt.strength))
		assert.Equal(t, tt.rec, Recommendation(tt.strength))
	}

	assert.Equal(t, 2, HoursLabel(120))
	assert.Equal(t, 2, HoursLabel(90))
	assert.Equal(t, 1, HoursLabel(89))
	assert.Equal(t, 16, HoursLabel(960))
}

func TestOverview(t *testing.T) {
	w := newTestWidget()
	o := w.Overview()

	assert.Equal(t, 47, o.ProgressPercent)
	assert.Equal(t, 47, o.ProgressBar)
	assert.Equal(t, 8, o.CompletedHours)
	assert.Equal(t, 16, o.TargetHours)
	assert.Equal(t, 1, o.CompletedSessions)
	assert.Equal(t, 3, o.TotalSessions)
	assert.Equal(t, 4, o.SubjectCount)
	require.Len(t, o.PrioritySubjects, 2)
	assert.Equal(t, "weak", o.PrioritySubjects[0].Band)
	assert.Equal(t, 2, o.PrioritySubjects[0].HoursSpent)
	assert.Equal(t, 5, o.PrioritySubjects[0].HoursTarget)
	assert.Len(t, o.Performance, 4)
	assert.Len(t, o.Days, 7)
}

func TestGeneratePlan_LeavesPlanUntouched(t *testing.T) {
	w := newTestWidget()
	before := w.Plan()

	assert.Equal(t, "Generating personalized 7-day study plan based on your performance data...", w.GeneratePlan())
	assert.Equal(t, before, w.Plan())
}

func TestReset_RestoresSeed(t *testing.T) {
	w := newTestWidget()
	_, err := w.CompleteSession(context.Background(), "2")
	require.NoError(t, err)

	w.Reset()
	assert.Equal(t, 450, w.Plan().CompletedTime)
	assert.False(t, w.Plan().Sessions[1].Completed)
}

const seedYAML = `
week: Finals week
total_target_time: 200
completed_time: 50
subjects:
  - name: Chemistry
    strength: 40
    time_spent_minutes: 50
    target_time_minutes: 200
    priority: high
    last_studied_days_ago: 2
sessions:
  - id: a
    subject: Chemistry
    duration_minutes: 50
    type: review
    day_offset: 0
  - id: b
    subject: Chemistry
    duration_minutes: 25
    type: practice
    day_offset: 1
`

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)

	w := newTestWidget(WithSeed(seed))
	plan := w.Plan()
	assert.Equal(t, "Finals week", plan.Week)
	require.Len(t, plan.Subjects, 1)
	assert.Equal(t, models.PriorityHigh, plan.Subjects[0].Priority)
	assert.Equal(t, fixedNow.Add(-48*time.Hour), plan.Subjects[0].LastStudied)
	require.Len(t, plan.Sessions, 2)
	assert.Equal(t, fixedNow.Add(24*time.Hour), plan.Sessions[1].Date)
	assert.Equal(t, 25, w.ProgressPercent())

	_, err = w.CompleteSession(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 38, w.ProgressPercent())
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "subjects: [unterminated"},
		{"missing id", "sessions:\n  - subject: X\n    type: new\n"},
		{"duplicate id", "sessions:\n  - id: a\n    type: new\n  - id: a\n    type: review\n"},
		{"negative totals", "total_target_time: -5\n"},
		{"negative completed", "completed_time: -1\n"},
		{"strength above 100", "subjects:\n  - name: X\n    strength: 250\n    priority: low\n"},
		{"negative strength", "subjects:\n  - name: X\n    strength: -1\n    priority: low\n"},
		{"unknown priority", "subjects:\n  - name: X\n    strength: 50\n    priority: urgent\n"},
		{"negative time spent", "subjects:\n  - name: X\n    priority: low\n    time_spent_minutes: -10\n"},
		{"negative days ago", "subjects:\n  - name: X\n    priority: low\n    last_studied_days_ago: -3\n"},
		{"unknown session type", "sessions:\n  - id: a\n    type: nap\n"},
		{"negative duration", "sessions:\n  - id: a\n    type: review\n    duration_minutes: -90\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
