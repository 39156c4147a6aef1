package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyflow-backend/internal/models"
	"studyflow-backend/internal/notes"
)

const maxUploadBytes = 100 * 1024 * 1024 // 100MB

type NotesHandler struct {
	widget    *notes.Widget
	maxUpload int64
}

func NewNotesHandler(widget *notes.Widget) *NotesHandler {
	return &NotesHandler{widget: widget, maxUpload: maxUploadBytes}
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notes":            h.widget.List(),
		"processing":       h.widget.Processing(),
		"progress_percent": h.widget.ProgressPercent(),
		"connection_label": h.widget.ConnectionLabel(),
	})
}

func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, ok := h.widget.Get(chi.URLParam(r, "id"))
	if !ok {
		handleWidgetError(w, r, notes.ErrNoteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NotesHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"formats": notes.SupportedFormats()})
}

func (h *NotesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds 100MB limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Upload exceeds 100MB limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart body", r))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No files provided", r))
		return
	}

	inputs := make([]notes.FileInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read "+fh.Filename, r))
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read "+fh.Filename, r))
			return
		}

		inputs = append(inputs, notes.FileInput{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Content:  content,
		})
	}

	created := h.widget.Ingest(r.Context(), inputs)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"notes": created})
}

func (h *NotesHandler) PasteText(w http.ResponseWriter, r *http.Request) {
	var req models.PasteNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.widget.IngestText(r.Context(), req.Title, req.Text)
	if err != nil {
		handleWidgetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, note)
}

func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.widget.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleWidgetError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotesHandler) SaveFlashcards(w http.ResponseWriter, r *http.Request) {
	msg, err := h.widget.SaveAsFlashcards(chi.URLParam(r, "id"))
	if err != nil {
		handleWidgetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": msg})
}

func (h *NotesHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	msg, err := h.widget.GenerateQuiz(chi.URLParam(r, "id"))
	if err != nil {
		handleWidgetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": msg})
}
