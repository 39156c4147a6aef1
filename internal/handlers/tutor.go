package handlers

import (
	"errors"
	"net/http"

	"studyflow-backend/internal/models"
	"studyflow-backend/internal/tutor"
)

type TutorHandler struct {
	widget *tutor.Widget
}

func NewTutorHandler(widget *tutor.Widget) *TutorHandler {
	return &TutorHandler{widget: widget}
}

func (h *TutorHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tutor":               h.widget.Snapshot(),
		"suggested_questions": tutor.SuggestedQuestions(),
	})
}

func (h *TutorHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userMsg, reply, err := h.widget.SendMessage(r.Context(), req.Text, req.Mode)
	if err != nil {
		handleWidgetError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SendMessageResponse{
		UserMessage:  userMsg,
		TutorMessage: reply,
		Session:      h.widget.Session(),
	})
}

func (h *TutorHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req models.SetModeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.widget.SetMode(req.Mode)
	writeJSON(w, http.StatusOK, map[string]interface{}{"mode": h.widget.Mode()})
}

func (h *TutorHandler) SetVoice(w http.ResponseWriter, r *http.Request) {
	var req models.SetVoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.widget.SetVoiceEnabled(*req.Enabled)
	if !*req.Enabled {
		h.widget.StopSpeaking()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"voice_enabled": *req.Enabled})
}

func (h *TutorHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": tutor.History()})
}

func (h *TutorHandler) QuickActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quick_actions":       tutor.QuickActions(),
		"suggested_questions": tutor.SuggestedQuestions(),
	})
}

// ──── Voice capture ────

func (h *TutorHandler) ToggleListening(w http.ResponseWriter, r *http.Request) {
	state, err := h.widget.ToggleListening()
	if err != nil {
		handleWidgetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"state": state})
}

func (h *TutorHandler) ListenResult(w http.ResponseWriter, r *http.Request) {
	var req models.TranscriptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.widget.HandleTranscript(req.Transcript)
	writeJSON(w, http.StatusOK, map[string]interface{}{"draft": h.widget.Snapshot().Draft})
}

func (h *TutorHandler) ListenError(w http.ResponseWriter, r *http.Request) {
	var req models.VoiceErrorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.widget.HandleRecognitionError(errors.New(req.Error))
	w.WriteHeader(http.StatusNoContent)
}

func (h *TutorHandler) ListenEnd(w http.ResponseWriter, r *http.Request) {
	h.widget.HandleRecognitionEnd()
	w.WriteHeader(http.StatusNoContent)
}

// ──── Voice playback ────

func (h *TutorHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req models.SpeakRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"spoken": h.widget.Speak(req.Text)})
}

func (h *TutorHandler) StopSpeaking(w http.ResponseWriter, r *http.Request) {
	h.widget.StopSpeaking()
	w.WriteHeader(http.StatusNoContent)
}

func (h *TutorHandler) SpeechStart(w http.ResponseWriter, r *http.Request) {
	h.widget.HandleSpeechStart()
	w.WriteHeader(http.StatusNoContent)
}

func (h *TutorHandler) SpeechEnd(w http.ResponseWriter, r *http.Request) {
	h.widget.HandleSpeechEnd()
	w.WriteHeader(http.StatusNoContent)
}

func (h *TutorHandler) SpeechError(w http.ResponseWriter, r *http.Request) {
	var req models.VoiceErrorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.widget.HandleSpeechError(errors.New(req.Error))
	w.WriteHeader(http.StatusNoContent)
}

func (h *TutorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.widget.Reset()
	writeJSON(w, http.StatusOK, map[string]interface{}{"tutor": h.widget.Snapshot()})
}
