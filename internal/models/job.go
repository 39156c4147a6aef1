package models

import "time"

// NoteJob is one unit of work for the note pipeline pool.
type NoteJob struct {
	NoteID     string    `json:"note_id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Content    []byte    `json:"-"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventTutorMessage     = "tutor_message"
	EventNoteStatus       = "note_status"
	EventNoteDeleted      = "note_deleted"
	EventSessionCompleted = "session_completed"
	EventVoiceCommand     = "voice_command"
	EventVoiceState       = "voice_state"
)

type NoteStatusEvent struct {
	NoteID string     `json:"note_id"`
	Name   string     `json:"name"`
	Status NoteStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

type SessionCompletedEvent struct {
	SessionID       string `json:"session_id"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	CompletedTime   int    `json:"completed_time"`
	ProgressPercent int    `json:"progress_percent"`
}

// VoiceCommand asks the connected browser to drive its own capture or
// playback capability.
type VoiceCommand struct {
	Action string  `json:"action"` // "listen_start" | "listen_stop" | "speak" | "speak_cancel"
	Text   string  `json:"text,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
	Pitch  float64 `json:"pitch,omitempty"`
	Volume float64 `json:"volume,omitempty"`
	Lang   string  `json:"lang,omitempty"`
}

type VoiceStateEvent struct {
	Listening bool `json:"listening"`
	Speaking  bool `json:"speaking"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
