package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Backoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUpsertContactCreates(t *testing.T) {
	var gotProps map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/contacts" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		var payload struct {
			Properties map[string]string `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		gotProps = payload.Properties
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "12345"})
	}))

	id, err := client.UpsertContact(context.Background(), Contact{
		Email:              "sarah@paradiseresorts.com",
		Name:               "Sarah Johnson",
		Phone:              "8085550123",
		LeadScore:          85,
		LeadPriority:       "high",
		RecommendedService: "ai_chatbot",
		AnnualSavings:      16800,
		ROIPercent:         56,
		HoursPerWeek:       20,
		WorkType:           "customer support",
	})
	if err != nil {
		t.Fatalf("UpsertContact: %v", err)
	}
	if id != "12345" {
		t.Errorf("id = %q", id)
	}
	if gotProps["firstname"] != "Sarah" || gotProps["lastname"] != "Johnson" {
		t.Errorf("name props = %q / %q", gotProps["firstname"], gotProps["lastname"])
	}
	if gotProps["ai_lead_score"] != "85" || gotProps["ai_lead_priority"] != "high" {
		t.Errorf("lead props = %+v", gotProps)
	}
	if gotProps["ai_recommended_service"] != "ai_chatbot" || gotProps["ai_annual_savings"] != "16800" {
		t.Errorf("ai props = %+v", gotProps)
	}
}

func TestUpsertContactConflictPatchesExisting(t *testing.T) {
	var patched string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "error",
				"message": "Contact already exists. Existing ID: 777",
			})
		case r.Method == http.MethodPatch:
			patched = r.URL.Path
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"id": "777"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	id, err := client.UpsertContact(context.Background(), Contact{Email: "dupe@example.com"})
	if err != nil {
		t.Fatalf("UpsertContact: %v", err)
	}
	if id != "777" {
		t.Errorf("id = %q", id)
	}
	if patched != "/crm/v3/objects/contacts/777" {
		t.Errorf("patched path = %q", patched)
	}
}

func TestUpsertContactRequiresEmail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	if _, err := client.UpsertContact(context.Background(), Contact{}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestInvokeRetriesOn500(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "1"})
	}))
	defer srv.Close()

	client, err := New(Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		MaxRetries: 3,
		Backoff:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.UpsertContact(context.Background(), Contact{Email: "a@b.com"}); err != nil {
		t.Fatalf("UpsertContact: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAttachNoteAndCreateTask(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var payload struct {
			Associations []struct {
				To struct {
					ID string `json:"id"`
				} `json:"to"`
			} `json:"associations"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(payload.Associations) != 1 || payload.Associations[0].To.ID != "777" {
			t.Errorf("associations = %+v", payload.Associations)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "n1"})
	}))

	ctx := context.Background()
	if err := client.AttachNote(ctx, "777", "chat transcript"); err != nil {
		t.Fatalf("AttachNote: %v", err)
	}
	if err := client.CreateTask(ctx, "777", "Follow up with hot lead", "score 85", time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	want := []string{"/crm/v3/objects/notes", "/crm/v3/objects/tasks"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, paths[i], p)
		}
	}
}
