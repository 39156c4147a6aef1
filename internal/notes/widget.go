package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studyflow-backend/internal/events"
	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/models"
)

var (
	ErrEmptyText    = errors.New("note text is required")
	ErrNoteNotFound = errors.New("note not found")
	ErrNoteNotReady = errors.New("note has not finished processing")
)

const (
	defaultPasteTitle = "Pasted Notes"
	defaultMimeType   = "application/octet-stream"
	processingPercent = 66
)

// FileInput is one file handed to Ingest.
type FileInput struct {
	Name     string
	MimeType string
	Size     int64
	Content  []byte
}

// Submitter queues a pipeline job. worker.Pool satisfies it.
type Submitter interface {
	Submit(job *models.NoteJob) error
}

type Option func(*Widget)

func WithDelay(d time.Duration) Option { return func(w *Widget) { w.delay = d } }

func WithClock(now func() time.Time) Option { return func(w *Widget) { w.now = now } }

func WithGenerator(g Generator) Option { return func(w *Widget) { w.generator = g } }

// WithSubmitter routes pipelines through s instead of one goroutine per note.
func WithSubmitter(s Submitter) Option { return func(w *Widget) { w.submitter = s } }

func WithPublisher(p events.Publisher) Option { return func(w *Widget) { w.pub = p } }

func WithCredential(connected bool) Option { return func(w *Widget) { w.connected = connected } }

// Widget holds the uploaded notes of one mount in upload order.
type Widget struct {
	mu    sync.Mutex
	notes []*models.UploadedNote

	delay     time.Duration
	now       func() time.Time
	generator Generator
	submitter Submitter
	pub       events.Publisher
	connected bool
	log       zerolog.Logger
}

func New(opts ...Option) *Widget {
	w := &Widget{
		delay:     3 * time.Second,
		now:       time.Now,
		generator: MockGenerator{},
		pub:       events.Nop{},
		log:       logger.Component("notes"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reset drops every note. Pipelines still in flight finish into nothing.
func (w *Widget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notes = nil
}

// Ingest records one processing note per file and starts a pipeline for each.
func (w *Widget) Ingest(ctx context.Context, files []FileInput) []models.UploadedNote {
	created := make([]models.UploadedNote, 0, len(files))
	jobs := make([]*models.NoteJob, 0, len(files))

	w.mu.Lock()
	for _, f := range files {
		note := w.newNote(f)
		w.notes = append(w.notes, note)
		created = append(created, *note)
		jobs = append(jobs, &models.NoteJob{
			NoteID:   note.ID,
			Name:     note.Name,
			MimeType: note.MimeType,
			Content:  f.Content,
		})
	}
	w.mu.Unlock()

	for i, job := range jobs {
		w.publishStatus(ctx, created[i], "")
		if err := w.submit(job); err != nil {
			w.log.Warn().Err(err).Str("note_id", job.NoteID).Msg("failed to queue note pipeline")
			if note, ok := w.finish(job.NoteID, nil, err); ok {
				created[i] = note
			}
		}
	}

	w.log.Info().Int("count", len(created)).Msg("notes received")
	return created
}

// IngestText records pasted text as a text/plain note.
func (w *Widget) IngestText(ctx context.Context, title, text string) (models.UploadedNote, error) {
	if strings.TrimSpace(text) == "" {
		return models.UploadedNote{}, ErrEmptyText
	}
	if strings.TrimSpace(title) == "" {
		title = defaultPasteTitle
	}

	created := w.Ingest(ctx, []FileInput{{
		Name:     title,
		MimeType: "text/plain",
		Size:     int64(len(text)),
		Content:  []byte(text),
	}})
	return created[0], nil
}

func (w *Widget) newNote(f FileInput) *models.UploadedNote {
	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	size := f.Size
	if size <= 0 {
		size = int64(len(f.Content))
	}
	return &models.UploadedNote{
		ID:         uuid.NewString(),
		Name:       f.Name,
		MimeType:   mimeType,
		SizeLabel:  fmt.Sprintf("%.2f MB", float64(size)/1024/1024),
		UploadDate: w.now().Format("1/2/2006"),
		Status:     models.NoteProcessing,
	}
}

func (w *Widget) submit(job *models.NoteJob) error {
	if w.submitter != nil {
		return w.submitter.Submit(job)
	}
	go func() {
		if err := w.Process(context.Background(), job); err != nil {
			w.log.Warn().Err(err).Str("note_id", job.NoteID).Msg("note pipeline failed")
		}
	}()
	return nil
}

// Process runs the pipeline for one note: simulated delay, best-effort text
// extraction for the word count, then generation. Any error or panic leaves
// the note failed.
func (w *Widget) Process(ctx context.Context, job *models.NoteJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("note pipeline panicked: %v", r)
		}
		if err != nil {
			w.finish(job.NoteID, nil, err)
		}
	}()

	if err := w.wait(ctx); err != nil {
		return err
	}

	note, ok := w.Get(job.NoteID)
	if !ok {
		w.log.Debug().Str("note_id", job.NoteID).Msg("note removed before processing finished")
		return nil
	}

	var wordCount *int
	if text, err := ExtractText(job.Name, job.MimeType, job.Content); err != nil {
		w.log.Debug().Err(err).Str("note_id", job.NoteID).Msg("text extraction skipped")
	} else {
		n := WordCount(text)
		wordCount = &n
	}

	result, err := w.generator.Generate(ctx, note)
	if err != nil {
		return fmt.Errorf("generate study material: %w", err)
	}

	w.finish(job.NoteID, &completion{result: result, wordCount: wordCount}, nil)
	return nil
}

func (w *Widget) wait(ctx context.Context) error {
	if w.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(w.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type completion struct {
	result    Result
	wordCount *int
}

// finish moves a processing note to its terminal status. Notes that are gone
// or already terminal are left alone.
func (w *Widget) finish(id string, done *completion, cause error) (models.UploadedNote, bool) {
	w.mu.Lock()
	note := w.find(id)
	if note == nil || note.Status.Terminal() {
		w.mu.Unlock()
		return models.UploadedNote{}, false
	}

	if cause != nil {
		note.Status = models.NoteFailed
	} else {
		summary := done.result.Summary
		note.Status = models.NoteCompleted
		note.Summary = &summary
		note.Flashcards = done.result.Flashcards
		note.Quiz = done.result.Quiz
		note.WordCount = done.wordCount
	}
	snapshot := copyNote(note)
	w.mu.Unlock()

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	w.publishStatus(context.Background(), snapshot, msg)
	w.log.Info().Str("note_id", id).Str("status", string(snapshot.Status)).Msg("note processed")
	return snapshot, true
}

func (w *Widget) find(id string) *models.UploadedNote {
	for _, n := range w.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (w *Widget) publishStatus(ctx context.Context, note models.UploadedNote, errMsg string) {
	w.pub.Publish(ctx, models.WSMessage{
		Type: models.EventNoteStatus,
		Payload: models.NoteStatusEvent{
			NoteID: note.ID,
			Name:   note.Name,
			Status: note.Status,
			Error:  errMsg,
		},
	})
}

func (w *Widget) Delete(ctx context.Context, id string) error {
	w.mu.Lock()
	idx := -1
	for i, n := range w.notes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return ErrNoteNotFound
	}
	w.notes = append(w.notes[:idx], w.notes[idx+1:]...)
	w.mu.Unlock()

	w.pub.Publish(ctx, models.WSMessage{Type: models.EventNoteDeleted, Payload: map[string]string{"note_id": id}})
	return nil
}

func (w *Widget) Get(id string) (models.UploadedNote, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	note := w.find(id)
	if note == nil {
		return models.UploadedNote{}, false
	}
	return copyNote(note), true
}

func (w *Widget) List() []models.UploadedNote {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.UploadedNote, 0, len(w.notes))
	for _, n := range w.notes {
		out = append(out, copyNote(n))
	}
	return out
}

// Processing reports whether any note is still in its pipeline.
func (w *Widget) Processing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, n := range w.notes {
		if n.Status == models.NoteProcessing {
			return true
		}
	}
	return false
}

// ProgressPercent is the cosmetic progress figure shown while processing.
func (w *Widget) ProgressPercent() int {
	if w.Processing() {
		return processingPercent
	}
	return 0
}

func (w *Widget) SaveAsFlashcards(id string) (string, error) {
	note, err := w.completed(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved %d flashcards from \"%s\" to your flashcard deck!", len(note.Flashcards), note.Name), nil
}

func (w *Widget) GenerateQuiz(id string) (string, error) {
	note, err := w.completed(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Generated quiz with %d questions from \"%s\"", len(note.Quiz), note.Name), nil
}

func (w *Widget) completed(id string) (models.UploadedNote, error) {
	note, ok := w.Get(id)
	if !ok {
		return models.UploadedNote{}, ErrNoteNotFound
	}
	if note.Status != models.NoteCompleted {
		return models.UploadedNote{}, ErrNoteNotReady
	}
	return note, nil
}

func (w *Widget) ConnectionLabel() string {
	if w.connected {
		return "AI-Powered (Connected)"
	}
	return "AI-Powered (Demo)"
}

func SupportedFormats() []models.SupportedFormat {
	return []models.SupportedFormat{
		{Extension: ".pdf", MimeType: "application/pdf", Description: "PDF documents"},
		{Extension: ".doc", MimeType: "application/msword", Description: "Word documents"},
		{Extension: ".docx", MimeType: docxMimeType, Description: "Word documents"},
		{Extension: ".txt", MimeType: "text/plain", Description: "Plain text"},
		{Extension: ".png", MimeType: "image/png", Description: "Images"},
		{Extension: ".jpg", MimeType: "image/jpeg", Description: "Images"},
		{Extension: ".jpeg", MimeType: "image/jpeg", Description: "Images"},
	}
}

func copyNote(n *models.UploadedNote) models.UploadedNote {
	out := *n
	out.Flashcards = append([]models.Flashcard(nil), n.Flashcards...)
	out.Quiz = append([]models.QuizQuestion(nil), n.Quiz...)
	if n.Summary != nil {
		s := *n.Summary
		out.Summary = &s
	}
	if n.WordCount != nil {
		c := *n.WordCount
		out.WordCount = &c
	}
	return out
}
