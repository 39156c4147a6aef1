package models

import "time"

// TutorMode selects which canned-response pool the tutor draws from.
type TutorMode string

const (
	ModeExplain  TutorMode = "explain"
	ModeQuiz     TutorMode = "quiz"
	ModePractice TutorMode = "practice"
	ModeHelp     TutorMode = "help"
)

func (m TutorMode) Valid() bool {
	switch m {
	case ModeExplain, ModeQuiz, ModePractice, ModeHelp:
		return true
	}
	return false
}

type Author string

const (
	AuthorUser  Author = "user"
	AuthorTutor Author = "tutor"
)

// Message is a single chat entry. It is never modified after creation.
type Message struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Mode      TutorMode `json:"mode,omitempty"` // set on tutor messages only
}

// TutorSession counts the exchange for the lifetime of one mount.
type TutorSession struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	MessageCount    int       `json:"message_count"`
	StartTime       time.Time `json:"start_time"`
	Topics          []string  `json:"topics"`
}

type QuickAction struct {
	Label string    `json:"label"`
	Mode  TutorMode `json:"mode"`
}

// HistoryDay groups past tutor sessions shown in the history view.
type HistoryDay struct {
	Date     string           `json:"date"`
	Sessions []HistorySession `json:"sessions"`
}

type HistorySession struct {
	Subject         string   `json:"subject"`
	DurationMinutes int      `json:"duration_minutes"`
	Messages        int      `json:"messages"`
	Topics          []string `json:"topics"`
}

// SendMessageRequest is the payload sent to the tutor message endpoint.
type SendMessageRequest struct {
	Text string    `json:"text" validate:"required"`
	Mode TutorMode `json:"mode" validate:"omitempty,oneof=explain quiz practice help"`
}

// SendMessageResponse carries both sides of one exchange.
type SendMessageResponse struct {
	UserMessage  Message      `json:"user_message"`
	TutorMessage Message      `json:"tutor_message"`
	Session      TutorSession `json:"session"`
}

type SetModeRequest struct {
	Mode TutorMode `json:"mode" validate:"required,oneof=explain quiz practice help"`
}

type SetVoiceRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type TranscriptRequest struct {
	Transcript string `json:"transcript"`
}

// VoiceErrorRequest reports a capture or playback failure from the browser.
type VoiceErrorRequest struct {
	Error string `json:"error" validate:"required"`
}

type SpeakRequest struct {
	Text string `json:"text" validate:"required"`
}
