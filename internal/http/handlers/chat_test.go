package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lenilani/lenilani-ai/internal/conversation"
	"github.com/lenilani/lenilani-ai/internal/session"
	"github.com/lenilani/lenilani-ai/pkg/logging"
)

type staticLLM struct {
	reply string
	err   error
}

func (s staticLLM) Complete(ctx context.Context, req conversation.LLMRequest) (conversation.LLMResponse, error) {
	if s.err != nil {
		return conversation.LLMResponse{}, s.err
	}
	return conversation.LLMResponse{Text: s.reply}, nil
}

func newChatHandler(t *testing.T, llm conversation.LLMClient, maxSessions int) *ChatHandler {
	t.Helper()
	o, err := conversation.New(conversation.Config{
		Store: session.NewMemoryStore(maxSessions),
		LLM:   llm,
	})
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	return NewChatHandler(o, logging.Default())
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChatHappyPath(t *testing.T) {
	h := newChatHandler(t, staticLLM{reply: "Aloha!"}, 10)

	rec := postChat(t, h, `{"message":"hi there","sessionId":"sess-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "Aloha!" || resp.SessionID != "sess-1" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Timestamp == "" || len(resp.Suggestions) == 0 {
		t.Errorf("resp missing derived fields: %+v", resp)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	h := newChatHandler(t, staticLLM{reply: "ok"}, 10)

	rec := postChat(t, h, `{"message":"hi"}`)
	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected generated session id")
	}
}

func TestChatValidation(t *testing.T) {
	h := newChatHandler(t, staticLLM{reply: "ok"}, 10)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", `{}`, http.StatusBadRequest},
		{"blank message", `{"message":"   "}`, http.StatusBadRequest},
		{"not json", `nope`, http.StatusBadRequest},
		{"message at limit", `{"message":"` + strings.Repeat("a", 2000) + `"}`, http.StatusOK},
		{"message over limit", `{"message":"` + strings.Repeat("a", 2001) + `"}`, http.StatusBadRequest},
		{"session id over limit", `{"message":"hi","sessionId":"` + strings.Repeat("s", 101) + `"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := postChat(t, h, tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestChatContactInfoNullUntilCaptured(t *testing.T) {
	h := newChatHandler(t, staticLLM{reply: "ok"}, 10)

	rec := postChat(t, h, `{"message":"hi there","sessionId":"s"}`)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["contactInfo"]) != "null" {
		t.Errorf("contactInfo = %s before any capture, want null", raw["contactInfo"])
	}

	rec = postChat(t, h, `{"message":"reach me at kai@example.com","sessionId":"s"}`)
	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ContactInfo == nil || resp.ContactInfo.Email != "kai@example.com" {
		t.Errorf("ContactInfo = %+v after email capture", resp.ContactInfo)
	}
}

func TestChatSessionCapReturns503(t *testing.T) {
	h := newChatHandler(t, staticLLM{reply: "ok"}, 1)

	if rec := postChat(t, h, `{"message":"hi","sessionId":"one"}`); rec.Code != http.StatusOK {
		t.Fatalf("first session status = %d", rec.Code)
	}
	if rec := postChat(t, h, `{"message":"hi","sessionId":"two"}`); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("over-cap status = %d, want 503", rec.Code)
	}
}

func TestChatLLMFailureReturns500(t *testing.T) {
	h := newChatHandler(t, staticLLM{err: context.DeadlineExceeded}, 10)

	rec := postChat(t, h, `{"message":"hi","sessionId":"s"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "DeadlineExceeded") {
		t.Error("provider error leaked to the client")
	}
}

func TestReset(t *testing.T) {
	h := newChatHandler(t, staticLLM{reply: "ok"}, 10)

	postChat(t, h, `{"message":"hi","sessionId":"s"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/reset", bytes.NewBufferString(`{"sessionId":"s"}`))
	rec := httptest.NewRecorder()
	h.Reset(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}

	// Resetting a missing session still succeeds.
	req = httptest.NewRequest(http.MethodPost, "/api/reset", bytes.NewBufferString(`{"sessionId":"ghost"}`))
	rec = httptest.NewRecorder()
	h.Reset(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("reset of missing session status = %d", rec.Code)
	}

	// Missing session id is a client error.
	req = httptest.NewRequest(http.MethodPost, "/api/reset", bytes.NewBufferString(`{}`))
	rec = httptest.NewRecorder()
	h.Reset(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reset without id status = %d", rec.Code)
	}
}
