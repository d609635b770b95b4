// Package api exposes the screening conversation over HTTP for a chat
// widget, plus read-only recruiter tooling over MCP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentscout/scout/internal/anonymize"
	"github.com/talentscout/scout/internal/conversation"
	"github.com/talentscout/scout/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// CandidateStore abstracts the persistence operations the API layer needs.
// Implemented by storage.Store and storage.FileStore.
type CandidateStore interface {
	AppendCandidate(c storage.Candidate) error
	ListCandidates(limit int) ([]storage.Candidate, error)
}

// AppDeps holds the dependencies for the HTTP handler.
type AppDeps struct {
	Controller *conversation.Controller
	Store      CandidateStore
	Anonymizer *anonymize.Anonymizer
	Registry   *Registry
	Token      string       // optional; bearer auth is disabled when empty
	HTTPClient *http.Client // used to fetch resume URLs
}

// NewHandler returns the HTTP handler for the session lifecycle API.
func NewHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}
		r.Post("/v1/sessions", handleStartSession(deps))
		r.Get("/v1/sessions/{id}", handleGetSession(deps))
		r.Post("/v1/sessions/{id}/reset", handleResetSession(deps))
		r.Delete("/v1/sessions/{id}", handleDeleteSession(deps))
		r.Post("/v1/sessions/{id}/messages", handleMessage(deps))
		r.Post("/v1/sessions/{id}/resume", handleResume(deps))
		r.Get("/v1/candidates", handleListCandidates(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

func handleStartSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, greeting := deps.Controller.StartSession()
		id := deps.Registry.Add(s)

		slog.Debug("session started", "session_id", id)
		writeJSON(w, http.StatusCreated, startSessionResponse{
			SessionID: id,
			Greeting:  greeting,
		})
	}
}

type messageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Reply    string `json:"reply"`
	Step     string `json:"step"`
	Complete bool   `json:"complete"`
	Ended    bool   `json:"ended"`
	Saved    bool   `json:"saved"`
}

func handleMessage(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		entry, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		// Serialize turns per session: the controller must never see two
		// concurrent ProcessInput calls for one session.
		entry.mu.Lock()
		defer entry.mu.Unlock()

		reply := deps.Controller.ProcessInput(r.Context(), entry.session, req.Content)

		resp := messageResponse{
			Reply:    reply,
			Step:     string(entry.session.Step),
			Complete: deps.Controller.IsComplete(entry.session),
			Ended:    deps.Controller.IsEnded(entry.session),
		}

		// Persist the anonymized record exactly once, at completion.
		if resp.Complete && !entry.saved {
			if err := persistCandidate(deps, entry.session); err != nil {
				slog.Error("persisting candidate failed", "error", err)
			} else {
				entry.saved = true
			}
		}
		resp.Saved = entry.saved

		writeJSON(w, http.StatusOK, resp)
	}
}

// persistCandidate anonymizes the session's record and appends it to the
// store. The raw session state is left untouched so the UI can keep
// displaying collected fields.
func persistCandidate(deps AppDeps, s *conversation.Session) error {
	record := deps.Anonymizer.Anonymize(s.Record())
	return deps.Store.AppendCandidate(storage.Candidate{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Record:    record,
	})
}

type sessionStatusResponse struct {
	SessionID string            `json:"session_id"`
	Step      string            `json:"step"`
	Complete  bool              `json:"complete"`
	Ended     bool              `json:"ended"`
	Fields    map[string]string `json:"fields"`
}

func handleGetSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		entry, ok := deps.Registry.Get(id)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}

		entry.mu.Lock()
		defer entry.mu.Unlock()

		writeJSON(w, http.StatusOK, sessionStatusResponse{
			SessionID: id,
			Step:      string(entry.session.Step),
			Complete:  deps.Controller.IsComplete(entry.session),
			Ended:     deps.Controller.IsEnded(entry.session),
			Fields:    deps.Controller.CollectedFields(entry.session),
		})
	}
}

type resetSessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

// handleResetSession restarts the conversation under the same session ID.
// The saved flag is cleared too: a profile completed after a reset is a new
// submission.
func handleResetSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		entry, ok := deps.Registry.Get(id)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}

		entry.mu.Lock()
		greeting := deps.Controller.ResetSession(entry.session)
		entry.saved = false
		entry.mu.Unlock()

		slog.Debug("session reset", "session_id", id)
		writeJSON(w, http.StatusOK, resetSessionResponse{
			SessionID: id,
			Greeting:  greeting,
		})
	}
}

func handleDeleteSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Registry.Remove(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

type candidateResponse struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	Record    map[string]string `json:"record"`
}

func handleListCandidates(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid limit %q", raw)
				return
			}
			limit = n
		}

		candidates, err := deps.Store.ListCandidates(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing candidates: %v", err)
			return
		}

		out := make([]candidateResponse, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, candidateResponse{
				ID:        c.ID,
				CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
				Record:    c.Record,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
