package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studyflow-backend/internal/handlers"
	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/websocket"
)

func New(
	tutorHandler *handlers.TutorHandler,
	notesHandler *handlers.NotesHandler,
	studyPlanHandler *handlers.StudyPlanHandler,
	wsHub *websocket.Hub,
	writeLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Tutor Chat ────
		r.Route("/tutor", func(r chi.Router) {
			r.Get("/", tutorHandler.Get)
			r.Delete("/", tutorHandler.Reset)
			r.Get("/history", tutorHandler.History)
			r.Get("/quick-actions", tutorHandler.QuickActions)
			r.Put("/mode", tutorHandler.SetMode)
			r.Put("/voice", tutorHandler.SetVoice)

			r.Group(func(r chi.Router) {
				r.Use(writeLimiter.Middleware)
				r.Use(chimiddleware.Timeout(30 * time.Second))
				r.Post("/messages", tutorHandler.SendMessage)
			})

			r.Post("/listen", tutorHandler.ToggleListening)
			r.Post("/listen/result", tutorHandler.ListenResult)
			r.Post("/listen/error", tutorHandler.ListenError)
			r.Post("/listen/end", tutorHandler.ListenEnd)

			r.Post("/speak", tutorHandler.Speak)
			r.Post("/speak/stop", tutorHandler.StopSpeaking)
			r.Post("/speech/start", tutorHandler.SpeechStart)
			r.Post("/speech/end", tutorHandler.SpeechEnd)
			r.Post("/speech/error", tutorHandler.SpeechError)
		})

		// ──── Notes Upload ────
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notesHandler.List)
			r.Get("/supported-formats", notesHandler.SupportedFormats)
			r.Get("/{id}", notesHandler.Get)
			r.Delete("/{id}", notesHandler.Delete)
			r.Post("/{id}/flashcards", notesHandler.SaveFlashcards)
			r.Post("/{id}/quiz", notesHandler.GenerateQuiz)

			r.Group(func(r chi.Router) {
				r.Use(writeLimiter.Middleware)
				r.Post("/upload", notesHandler.Upload)
				r.Post("/text", notesHandler.PasteText)
			})
		})

		// ──── Study Flow ────
		r.Route("/study-plan", func(r chi.Router) {
			r.Get("/", studyPlanHandler.Get)
			r.Get("/overview", studyPlanHandler.Overview)
			r.Post("/sessions/{id}/complete", studyPlanHandler.CompleteSession)
			r.Post("/generate", studyPlanHandler.Generate)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
