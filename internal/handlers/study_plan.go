package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyflow-backend/internal/studyplan"
)

type StudyPlanHandler struct {
	widget *studyplan.Widget
}

func NewStudyPlanHandler(widget *studyplan.Widget) *StudyPlanHandler {
	return &StudyPlanHandler{widget: widget}
}

func (h *StudyPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.widget.Plan())
}

func (h *StudyPlanHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.widget.Overview())
}

func (h *StudyPlanHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.widget.CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleWidgetError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":          session,
		"completed_time":   h.widget.Plan().CompletedTime,
		"progress_percent": h.widget.ProgressPercent(),
	})
}

func (h *StudyPlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusAccepted, map[string]interface{}{"message": h.widget.GeneratePlan()})
}
