package session

import (
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Status is the coarse lifecycle state of a session. The sticky feature
// flags (escalation, demo mode, language mode) are orthogonal to it.
type Status string

const (
	StatusNew          Status = "new"
	StatusActive       Status = "active"
	StatusLeadCaptured Status = "lead_captured"
)

// LanguageMode selects the register the assistant replies in.
type LanguageMode string

const (
	LangEnglish LanguageMode = "english"
	LangPidgin  LanguageMode = "pidgin"
	LangOlelo   LanguageMode = "olelo"
)

// ParseLanguageMode maps a client-supplied mode string onto a known
// mode, defaulting to English.
func ParseLanguageMode(raw string) LanguageMode {
	switch LanguageMode(strings.ToLower(strings.TrimSpace(raw))) {
	case LangPidgin:
		return LangPidgin
	case LangOlelo:
		return LangOlelo
	default:
		return LangEnglish
	}
}

// Message is one turn of the conversation.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactInfo holds captured visitor contact fields. Each field is
// first-wins: once set it is never overwritten by a later message.
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ROIData is the last computed ROI estimate for the session.
type ROIData struct {
	HoursPerWeek    float64 `json:"hours_per_week"`
	HourlyRate      float64 `json:"hourly_rate"`
	WorkType        string  `json:"work_type"`
	AnnualLaborCost float64 `json:"annual_labor_cost"`
	AnnualSavings   float64 `json:"annual_savings"`
	ROIPercent      float64 `json:"roi_percent"`
	PaybackMonths   int     `json:"payback_months"`
}

// Session is the server-side state for one chat conversation.
type Session struct {
	ID                  string       `json:"id"`
	Status              Status       `json:"status"`
	Messages            []Message    `json:"messages"`
	Contact             ContactInfo  `json:"contact"`
	LeadScore           int          `json:"lead_score"`
	RecommendedService  string       `json:"recommended_service,omitempty"`
	ROI                 *ROIData     `json:"roi,omitempty"`
	EscalationRequested bool         `json:"escalation_requested"`
	DemoMode            bool         `json:"demo_mode"`
	DemoService         string       `json:"demo_service,omitempty"`
	LanguageMode        LanguageMode `json:"language_mode"`
	LeadCaptured        bool         `json:"lead_captured"`
	ContactID           string       `json:"contact_id,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	LastActivity        time.Time    `json:"last_activity"`
}

// New creates a fresh session for the given identifier.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Status:       StatusNew,
		LanguageMode: LangEnglish,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Touch updates the activity timestamp and promotes a new session to
// active.
func (s *Session) Touch() {
	s.LastActivity = time.Now().UTC()
	if s.Status == StatusNew {
		s.Status = StatusActive
	}
}

// Append adds a message to the conversation history.
func (s *Session) Append(role, text string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
}

// UserMessageCount reports how many visitor turns the session holds.
func (s *Session) UserMessageCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// MergeContact applies first-wins semantics for contact fields and
// reports which fields were newly captured.
func (s *Session) MergeContact(email, name, phone string) (gotEmail, gotName, gotPhone bool) {
	if s.Contact.Email == "" && email != "" {
		s.Contact.Email = email
		gotEmail = true
	}
	if s.Contact.Name == "" && name != "" {
		s.Contact.Name = name
		gotName = true
	}
	if s.Contact.Phone == "" && phone != "" {
		s.Contact.Phone = phone
		gotPhone = true
	}
	return gotEmail, gotName, gotPhone
}

// RecordScore applies the monotonic-max ratchet: the stored score only
// changes when the new score is strictly greater. Returns true when the
// stored score moved.
func (s *Session) RecordScore(score int) bool {
	if score > s.LeadScore {
		s.LeadScore = score
		return true
	}
	return false
}

// MarkLeadCaptured latches the at-most-once CRM gate.
func (s *Session) MarkLeadCaptured(contactID string) {
	s.LeadCaptured = true
	s.ContactID = contactID
	s.Status = StatusLeadCaptured
}

// IdleSince reports whether the session has been idle past the cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	return s.LastActivity.Before(cutoff)
}
