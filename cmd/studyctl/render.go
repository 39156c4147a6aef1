package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studyflow-backend/internal/models"
	"studyflow-backend/internal/studyplan"
)

var (
	green  = lipgloss.Color("#a6e3a1")
	yellow = lipgloss.Color("#f9e2af")
	red    = lipgloss.Color("#f38ba8")
	subtle = lipgloss.Color("#a6adc8")
	accent = lipgloss.Color("#74c7ec")

	titleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(subtle)
	todayStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)
)

const barWidth = 20

func bandStyle(strength int) lipgloss.Style {
	switch studyplan.StrengthBand(strength) {
	case "strong":
		return lipgloss.NewStyle().Foreground(green)
	case "fair":
		return lipgloss.NewStyle().Foreground(yellow)
	default:
		return lipgloss.NewStyle().Foreground(red)
	}
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(red)
	case models.PriorityMedium:
		return lipgloss.NewStyle().Foreground(yellow)
	default:
		return lipgloss.NewStyle().Foreground(green)
	}
}

// progressBar draws percent (already clamped to 0..100) as a fixed-width bar.
func progressBar(percent int) string {
	filled := percent * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func renderOverview(o models.PlanOverview) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(o.Week),
		fmt.Sprintf("%s %d%% Complete", progressBar(o.ProgressBar), o.ProgressPercent),
		mutedStyle.Render(fmt.Sprintf("%dh / %dh • %d/%d sessions • %d subjects • %d min/day",
			o.CompletedHours, o.TargetHours, o.CompletedSessions, o.TotalSessions, o.SubjectCount, o.AverageMinutesPerDay)),
	)

	days := make([]string, 0, len(o.Days))
	for _, d := range o.Days {
		label := fmt.Sprintf("%s %d", d.Name, d.Date)
		if d.IsToday {
			label = todayStyle.Render(label)
		}
		days = append(days, label)
	}

	var today strings.Builder
	today.WriteString(titleStyle.Render("Today"))
	if len(o.TodaySessions) == 0 {
		today.WriteString("\n" + mutedStyle.Render("No sessions scheduled"))
	}
	for _, s := range o.TodaySessions {
		mark := "○"
		if s.Completed {
			mark = "✓"
		}
		fmt.Fprintf(&today, "\n%s %s • %d min • %s", mark, s.Subject, s.DurationMinutes, s.Type)
	}

	var focus strings.Builder
	focus.WriteString(titleStyle.Render("Priority Focus"))
	for _, s := range o.PrioritySubjects {
		fmt.Fprintf(&focus, "\n%s %s  %s  %dh / %dh",
			priorityStyle(s.Priority).Render("●"),
			s.Name,
			bandStyle(s.Strength).Render(fmt.Sprintf("%d%%", s.Strength)),
			s.HoursSpent, s.HoursTarget)
	}

	var perf strings.Builder
	perf.WriteString(titleStyle.Render("Performance"))
	for _, s := range o.Performance {
		fmt.Fprintf(&perf, "\n%-18s %s  %s",
			s.Name,
			bandStyle(s.Strength).Render(fmt.Sprintf("%3d%% %-6s", s.Strength, s.Band)),
			mutedStyle.Render(s.Recommendation))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		paneStyle.Render(header),
		paneStyle.Render(strings.Join(days, "  ")),
		lipgloss.JoinHorizontal(lipgloss.Top, paneStyle.Render(today.String()), paneStyle.Render(focus.String())),
		paneStyle.Render(perf.String()),
	)
}

func renderNote(n models.UploadedNote) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(n.Name))
	fmt.Fprintf(&b, "\n%s", mutedStyle.Render(fmt.Sprintf("%s • %s • %s", n.MimeType, n.SizeLabel, n.Status)))
	if n.WordCount != nil {
		fmt.Fprintf(&b, "\n%s", mutedStyle.Render(fmt.Sprintf("%d words", *n.WordCount)))
	}
	if n.Summary != nil {
		fmt.Fprintf(&b, "\n\n%s\n%s", titleStyle.Render("AI Summary"), *n.Summary)
	}
	if len(n.Flashcards) > 0 {
		fmt.Fprintf(&b, "\n\n%s", titleStyle.Render(fmt.Sprintf("Flashcards (%d)", len(n.Flashcards))))
		for _, f := range n.Flashcards {
			fmt.Fprintf(&b, "\nQ: %s\nA: %s", f.Question, f.Answer)
		}
	}
	if len(n.Quiz) > 0 {
		fmt.Fprintf(&b, "\n\n%s", titleStyle.Render(fmt.Sprintf("Quiz (%d)", len(n.Quiz))))
		for i, q := range n.Quiz {
			fmt.Fprintf(&b, "\n%d. %s", i+1, q.Question)
			for j, opt := range q.Options {
				marker := " "
				if j == q.Correct {
					marker = "*"
				}
				fmt.Fprintf(&b, "\n   %s %s", marker, opt)
			}
		}
	}
	return paneStyle.Render(b.String())
}
