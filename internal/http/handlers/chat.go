// Package handlers holds the HTTP endpoints for the chat API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lenilani/lenilani-ai/internal/conversation"
	"github.com/lenilani/lenilani-ai/internal/session"
	"github.com/lenilani/lenilani-ai/pkg/logging"
)

const (
	maxMessageLength   = 2000
	maxSessionIDLength = 100
)

// ChatHandler serves POST /api/chat and POST /api/reset.
type ChatHandler struct {
	orchestrator *conversation.Orchestrator
	logger       *logging.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(orchestrator *conversation.Orchestrator, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message      string `json:"message"`
	SessionID    string `json:"sessionId"`
	LanguageMode string `json:"languageMode,omitempty"`
}

// ChatResponse is the POST /api/chat reply body.
type ChatResponse struct {
	Response            string               `json:"response"`
	Suggestions         []string             `json:"suggestions"`
	SessionID           string               `json:"sessionId"`
	LeadScore           int                  `json:"leadScore"`
	LeadCaptured        bool                 `json:"leadCaptured"`
	EmailCaptured       bool                 `json:"emailCaptured"`
	PhoneCaptured       bool                 `json:"phoneCaptured"`
	NameCaptured        bool                 `json:"nameCaptured"`
	EscalationRequested bool                 `json:"escalationRequested"`
	ContactInfo         *session.ContactInfo `json:"contactInfo"`
	Timestamp           string               `json:"timestamp"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(req.Message) > maxMessageLength {
		writeError(w, http.StatusBadRequest, "message too long")
		return
	}
	if len(req.SessionID) > maxSessionIDLength {
		writeError(w, http.StatusBadRequest, "session id too long")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.orchestrator.HandleMessage(r.Context(), sessionID, message, req.LanguageMode)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrStoreFull):
			writeError(w, http.StatusServiceUnavailable, "service is busy, please try again shortly")
		case errors.Is(err, conversation.ErrLLMFailed):
			writeError(w, http.StatusInternalServerError, "sorry, something went wrong generating a reply, please try again")
		default:
			h.logger.Error("chat failed", "session_id", sessionID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	// contactInfo is null until at least one field is captured.
	var contact *session.ContactInfo
	if reply.Contact != (session.ContactInfo{}) {
		c := reply.Contact
		contact = &c
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:            reply.Response,
		Suggestions:         reply.Suggestions,
		SessionID:           sessionID,
		LeadScore:           reply.LeadScore,
		LeadCaptured:        reply.LeadCaptured,
		EmailCaptured:       reply.EmailCaptured,
		PhoneCaptured:       reply.PhoneCaptured,
		NameCaptured:        reply.NameCaptured,
		EscalationRequested: reply.EscalationRequested,
		ContactInfo:         contact,
		Timestamp:           reply.Timestamp.Format(time.RFC3339),
	})
}

// ResetRequest is the POST /api/reset body.
type ResetRequest struct {
	SessionID string `json:"sessionId"`
}

// Reset handles POST /api/reset. Clearing a session that does not exist
// is still a success.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if len(sessionID) > maxSessionIDLength {
		writeError(w, http.StatusBadRequest, "session id too long")
		return
	}

	if err := h.orchestrator.Reset(r.Context(), sessionID); err != nil {
		h.logger.Error("reset failed", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "reset",
		"message": "Aloha! Fresh start. How can I help your business today?",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
