package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyflow-backend/internal/events"
	"studyflow-backend/internal/handlers"
	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/notes"
	"studyflow-backend/internal/studyplan"
	"studyflow-backend/internal/tutor"
	"studyflow-backend/internal/websocket"
)

func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	limiter := middleware.NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	return New(
		handlers.NewTutorHandler(tutor.New(tutor.WithDelay(0))),
		handlers.NewNotesHandler(notes.New(notes.WithDelay(time.Hour))),
		handlers.NewStudyPlanHandler(studyplan.New()),
		websocket.NewHub(events.NewLocalBus(1)),
		limiter,
		"http://localhost:3000",
	)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, 10)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t, 10)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/v1/tutor", "", http.StatusOK},
		{http.MethodGet, "/api/v1/tutor/history", "", http.StatusOK},
		{http.MethodGet, "/api/v1/tutor/quick-actions", "", http.StatusOK},
		{http.MethodPut, "/api/v1/tutor/mode", `{"mode":"explain"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/tutor/messages", `{"text":"hello"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/tutor/listen", "", http.StatusUnprocessableEntity},
		{http.MethodPost, "/api/v1/tutor/speech/end", "", http.StatusNoContent},
		{http.MethodGet, "/api/v1/notes", "", http.StatusOK},
		{http.MethodGet, "/api/v1/notes/supported-formats", "", http.StatusOK},
		{http.MethodGet, "/api/v1/notes/missing", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/notes/text", `{"text":"osmosis"}`, http.StatusAccepted},
		{http.MethodGet, "/api/v1/study-plan", "", http.StatusOK},
		{http.MethodGet, "/api/v1/study-plan/overview", "", http.StatusOK},
		{http.MethodPost, "/api/v1/study-plan/sessions/3/complete", "", http.StatusOK},
		{http.MethodPost, "/api/v1/study-plan/generate", "", http.StatusAccepted},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Errorf("Expected status %d, got %d: %s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRouter_WriteRoutesAreRateLimited(t *testing.T) {
	r := newTestRouter(t, 1)

	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/notes/text", bytes.NewBufferString(`{"text":"x"}`))
		req.RemoteAddr = "192.0.2.1:1234"
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", last.Code)
	}

	var resp map[string]map[string]interface{}
	json.NewDecoder(last.Body).Decode(&resp)
	if resp["error"]["code"] != "RATE_LIMITED" {
		t.Errorf("Expected RATE_LIMITED, got %v", resp["error"]["code"])
	}
}
