package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lenilani/lenilani-ai/internal/analytics"
	"github.com/lenilani/lenilani-ai/internal/extract"
	"github.com/lenilani/lenilani-ai/internal/recommend"
	"github.com/lenilani/lenilani-ai/internal/roi"
	"github.com/lenilani/lenilani-ai/internal/scoring"
	"github.com/lenilani/lenilani-ai/internal/session"
	"github.com/lenilani/lenilani-ai/pkg/logging"
)

// ErrLLMFailed wraps completion failures so the handler can map them to
// a generic apology without leaking provider detail.
var ErrLLMFailed = errors.New("conversation: llm completion failed")

// fallbackReply is served when no LLM is configured.
const fallbackReply = "Aloha! Mahalo for reaching out to LeniLani Consulting. Our AI assistant is offline right now, but leave your email and a consultant will get back to you within one business day."

// Reply is the outcome of one processed message.
type Reply struct {
	Response            string
	Suggestions         []string
	LeadScore           int
	LeadCaptured        bool
	EmailCaptured       bool
	PhoneCaptured       bool
	NameCaptured        bool
	EscalationRequested bool
	Contact             session.ContactInfo
	Timestamp           time.Time
}

// Orchestrator runs the per-message pipeline: extract, score,
// recommend, prompt, complete, sync.
type Orchestrator struct {
	store     session.Store
	llm       LLMClient
	crm       *CRMSync
	tracker   *analytics.Tracker
	logger    *logging.Logger
	model     string
	maxTokens int32

	// syncMu guards syncing, the set of sessions with a CRM sync in
	// flight. Keeps the at-most-once gate honest when the same session
	// sends messages concurrently.
	syncMu  sync.Mutex
	syncing map[string]bool
}

// Config wires an Orchestrator.
type Config struct {
	Store     session.Store
	LLM       LLMClient
	CRM       *CRMSync
	Tracker   *analytics.Tracker
	Logger    *logging.Logger
	Model     string
	MaxTokens int32
}

// New creates the orchestrator. Store is required; LLM and CRM may be
// nil (fallback reply, sync disabled).
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Store == nil {
		return nil, errors.New("conversation: session store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Orchestrator{
		store:     cfg.Store,
		llm:       cfg.LLM,
		crm:       cfg.CRM,
		tracker:   cfg.Tracker,
		logger:    logger,
		model:     cfg.Model,
		maxTokens: maxTokens,
		syncing:   make(map[string]bool),
	}, nil
}

// HandleMessage processes one visitor message end to end.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID, message, languageMode string) (*Reply, error) {
	s, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("conversation: load session: %w", err)
	}
	isNew := s == nil
	if isNew {
		s = session.New(sessionID)
	}
	if languageMode != "" {
		s.LanguageMode = session.ParseLanguageMode(languageMode)
	}

	s.Append(session.RoleUser, message)
	s.Touch()
	if isNew {
		o.tracker.RecordConversation(s.CreatedAt)
	}
	o.tracker.RecordMessage()

	wasEscalated := s.EscalationRequested
	o.applySignals(s, message, isNew)

	// Persist the user turn before calling out; an LLM failure must not
	// lose the captured signals.
	if err := o.store.Save(ctx, s); err != nil {
		return nil, err
	}

	text, err := o.complete(ctx, s)
	if err != nil {
		o.logger.Error("llm completion failed", "session_id", s.ID, "error", err)
		return nil, ErrLLMFailed
	}

	s.Append(session.RoleAssistant, text)
	s.Touch()

	leadCaptured := o.maybeSyncLead(ctx, s)

	if err := o.store.Save(ctx, s); err != nil {
		return nil, err
	}

	switch {
	case leadCaptured:
		// Post-commit side effects: note, task, archive row.
		o.crm.PostCommit(ctx, s)
	case o.crm.Enabled() && s.ContactID != "" && s.EscalationRequested && !wasEscalated:
		// The lead is already in the CRM; flag the human handoff on its
		// timeline.
		o.crm.EscalationNote(ctx, s)
	}

	return &Reply{
		Response:            text,
		Suggestions:         Suggestions(s),
		LeadScore:           s.LeadScore,
		LeadCaptured:        s.LeadCaptured,
		EmailCaptured:       s.Contact.Email != "",
		PhoneCaptured:       s.Contact.Phone != "",
		NameCaptured:        s.Contact.Name != "",
		EscalationRequested: s.EscalationRequested,
		Contact:             s.Contact,
		Timestamp:           time.Now().UTC(),
	}, nil
}

// applySignals runs the extractors over the new message and folds the
// results into the session.
func (o *Orchestrator) applySignals(s *session.Session, message string, isNew bool) {
	// The scorer's email bonus keys off the state before this message;
	// an email captured now pays out on the next scoring pass.
	hadEmail := s.Contact.Email != ""

	email, _ := extract.Email(message)
	name, _ := extract.Name(message)
	phone, _ := extract.Phone(message)
	gotEmail, _, gotPhone := s.MergeContact(email, name, phone)
	if gotEmail {
		o.tracker.RecordEmailCapture()
	}
	if gotPhone {
		o.tracker.RecordPhoneCapture()
	}

	if requested, cleared := extract.EscalationIntent(message); requested {
		if !s.EscalationRequested {
			s.EscalationRequested = true
			o.tracker.RecordEscalation()
		}
	} else if cleared {
		s.EscalationRequested = false
	}

	if service, entered, exited := extract.DemoIntent(message); entered {
		s.DemoMode = true
		s.DemoService = service
		o.tracker.RecordDemoRequest()
	} else if exited {
		s.DemoMode = false
		s.DemoService = ""
	}

	if mode, ok := extract.LanguageSwitch(message); ok && mode != s.LanguageMode {
		s.LanguageMode = mode
		o.tracker.RecordLanguageSwitch(string(mode))
	}

	if rec, ok := recommend.Match(message); ok {
		s.RecommendedService = string(rec.Service)
		o.tracker.RecordService(string(rec.Service))
	}

	if figures := extract.ROI(message); figures.HasHours {
		rate := figures.HourlyRate
		workType, inferredRate := extract.WorkType(message)
		if !figures.HasRate {
			rate = inferredRate
		}
		result := roi.Calculate(figures.HoursPerWeek, rate, workType)
		s.ROI = &session.ROIData{
			HoursPerWeek:    result.HoursPerWeek,
			HourlyRate:      result.HourlyRate,
			WorkType:        result.WorkType,
			AnnualLaborCost: result.AnnualLaborCost,
			AnnualSavings:   result.AnnualSavings,
			ROIPercent:      result.ROIPercent,
			PaybackMonths:   result.PaybackMonths,
		}
		o.tracker.RecordROICalculation()
	}

	prev := s.LeadScore
	score := scoring.Score(message, hadEmail)
	changed := s.RecordScore(score)
	switch {
	case isNew:
		o.tracker.MoveLeadBucket("", scoring.PriorityFor(s.LeadScore), false)
	case changed:
		o.tracker.MoveLeadBucket(scoring.PriorityFor(prev), scoring.PriorityFor(s.LeadScore), true)
	}
}

func (o *Orchestrator) complete(ctx context.Context, s *session.Session) (string, error) {
	if o.llm == nil {
		return fallbackReply, nil
	}
	resp, err := o.llm.Complete(ctx, LLMRequest{
		Model:       o.model,
		System:      BuildSystemPrompt(s),
		Messages:    History(s),
		MaxTokens:   o.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if resp.Usage.TotalTokens > 0 {
		o.logger.Debug("llm completion",
			"session_id", s.ID,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}
	return resp.Text, nil
}

// maybeSyncLead runs the at-most-once CRM gate. Returns true when the
// gate latched during this call; the session still needs saving.
func (o *Orchestrator) maybeSyncLead(ctx context.Context, s *session.Session) bool {
	if !o.crm.Enabled() || s.LeadCaptured || s.Contact.Email == "" {
		return false
	}

	o.syncMu.Lock()
	if o.syncing[s.ID] {
		o.syncMu.Unlock()
		return false
	}
	o.syncing[s.ID] = true
	o.syncMu.Unlock()
	defer func() {
		o.syncMu.Lock()
		delete(o.syncing, s.ID)
		o.syncMu.Unlock()
	}()

	// Re-check the gate against the stored session; a concurrent
	// request may have latched it between our load and now.
	if stored, err := o.store.Get(ctx, s.ID); err == nil && stored != nil && stored.LeadCaptured {
		s.LeadCaptured = stored.LeadCaptured
		s.ContactID = stored.ContactID
		return false
	}

	contactID, err := o.crm.SyncLead(ctx, s)
	if err != nil {
		// Gate stays open; the next message retries.
		o.logger.Error("crm sync failed", "session_id", s.ID, "error", err)
		return false
	}
	s.MarkLeadCaptured(contactID)
	o.logger.Info("lead synced to crm",
		"session_id", s.ID,
		"contact_id", contactID,
		"score", s.LeadScore,
	)
	return true
}

// Reset drops the session, clearing both the transcript the LLM sees
// and all captured state.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	return o.store.Delete(ctx, sessionID)
}
