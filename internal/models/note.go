package models

type NoteStatus string

const (
	NoteProcessing NoteStatus = "processing"
	NoteCompleted  NoteStatus = "completed"
	NoteFailed     NoteStatus = "failed"
)

func (s NoteStatus) Terminal() bool {
	return s == NoteCompleted || s == NoteFailed
}

type UploadedNote struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	MimeType   string         `json:"mime_type"`
	SizeLabel  string         `json:"size_label"`
	UploadDate string         `json:"upload_date"`
	Status     NoteStatus     `json:"status"`
	Summary    *string        `json:"summary,omitempty"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
	Quiz       []QuizQuestion `json:"quiz,omitempty"`
	WordCount  *int           `json:"word_count,omitempty"`
}

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

type SupportedFormat struct {
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
	Description string `json:"description"`
}

type PasteNoteRequest struct {
	Title string `json:"title" validate:"max=200"`
	Text  string `json:"text" validate:"required"`
}
