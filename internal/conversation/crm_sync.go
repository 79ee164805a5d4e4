package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lenilani/lenilani-ai/internal/analytics"
	"github.com/lenilani/lenilani-ai/internal/hubspot"
	"github.com/lenilani/lenilani-ai/internal/leads"
	"github.com/lenilani/lenilani-ai/internal/recommend"
	"github.com/lenilani/lenilani-ai/internal/scoring"
	"github.com/lenilani/lenilani-ai/internal/session"
	"github.com/lenilani/lenilani-ai/pkg/logging"
)

// hotLeadTaskThreshold is the score at which a synced lead also gets a
// follow-up task in the CRM.
const hotLeadTaskThreshold = 80

// CRMClient is the slice of the HubSpot client the sync uses.
type CRMClient interface {
	UpsertContact(ctx context.Context, contact hubspot.Contact) (string, error)
	AttachNote(ctx context.Context, contactID, note string) error
	CreateTask(ctx context.Context, contactID, subject, notes string, due time.Time) error
}

// CRMSync pushes a qualified session into the CRM and the local lead
// archive. A nil *CRMSync disables syncing entirely.
type CRMSync struct {
	client  CRMClient
	archive leads.Repository
	tracker *analytics.Tracker
	logger  *logging.Logger
}

// NewCRMSync wires the sync. client may be nil when the CRM is not
// configured; archive may be nil when no lead store is wanted.
func NewCRMSync(client CRMClient, archive leads.Repository, tracker *analytics.Tracker, logger *logging.Logger) *CRMSync {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CRMSync{
		client:  client,
		archive: archive,
		tracker: tracker,
		logger:  logger,
	}
}

// Enabled reports whether syncing is configured.
func (c *CRMSync) Enabled() bool {
	return c != nil
}

// SyncLead upserts the session's contact and returns the CRM contact
// id. The caller owns the at-most-once gate; this call is idempotent at
// the CRM because the upsert is email-keyed.
func (c *CRMSync) SyncLead(ctx context.Context, s *session.Session) (string, error) {
	contact := hubspot.Contact{
		Email:              s.Contact.Email,
		Name:               s.Contact.Name,
		Phone:              s.Contact.Phone,
		LeadScore:          s.LeadScore,
		LeadPriority:       crmPriority(s.LeadScore),
		RecommendedService: s.RecommendedService,
	}
	if s.ROI != nil {
		contact.AnnualSavings = s.ROI.AnnualSavings
		contact.ROIPercent = s.ROI.ROIPercent
		contact.HoursPerWeek = s.ROI.HoursPerWeek
		contact.WorkType = s.ROI.WorkType
	}

	contactID, err := c.client.UpsertContact(ctx, contact)
	if err != nil {
		return "", fmt.Errorf("conversation: crm upsert: %w", err)
	}
	c.tracker.RecordLeadSynced()
	return contactID, nil
}

// PostCommit runs the side effects that follow a successful sync: the
// timeline note, the hot-lead follow-up task, and the local archive
// row. Failures are logged and swallowed; the gate is already latched.
func (c *CRMSync) PostCommit(ctx context.Context, s *session.Session) {
	if err := c.client.AttachNote(ctx, s.ContactID, summarize(s)); err != nil {
		c.logger.Error("crm note attach failed", "session_id", s.ID, "error", err)
	}

	if s.LeadScore >= hotLeadTaskThreshold {
		subject := fmt.Sprintf("Follow up with hot lead (score %d)", s.LeadScore)
		notes := fmt.Sprintf("Chatbot lead scored %d (%s). Recommended service: %s.",
			s.LeadScore, crmPriority(s.LeadScore), serviceLabel(s.RecommendedService))
		due := nextBusinessDay(time.Now().UTC())
		if err := c.client.CreateTask(ctx, s.ContactID, subject, notes, due); err != nil {
			c.logger.Error("crm task create failed", "session_id", s.ID, "error", err)
		}
	}

	if c.archive == nil {
		return
	}
	req := &leads.CreateLeadRequest{
		SessionID:          s.ID,
		Name:               s.Contact.Name,
		Email:              s.Contact.Email,
		Phone:              s.Contact.Phone,
		Score:              s.LeadScore,
		Priority:           string(scoring.PriorityFor(s.LeadScore)),
		RecommendedService: s.RecommendedService,
		HubSpotContactID:   s.ContactID,
	}
	if s.ROI != nil {
		req.AnnualSavings = s.ROI.AnnualSavings
		req.ROIPercent = s.ROI.ROIPercent
	}
	if _, err := c.archive.Create(ctx, req); err != nil {
		c.logger.Error("lead archive write failed", "session_id", s.ID, "error", err)
	}
}

// EscalationNote flags a human-handoff request on an already-synced
// contact's timeline. Failures are logged and swallowed like the other
// post-commit side effects.
func (c *CRMSync) EscalationNote(ctx context.Context, s *session.Session) {
	note := fmt.Sprintf("Visitor asked to speak with a human.\n\nLead score: %d (%s)\nSession: %s",
		s.LeadScore, crmPriority(s.LeadScore), s.ID)
	if err := c.client.AttachNote(ctx, s.ContactID, note); err != nil {
		c.logger.Error("crm escalation note failed", "session_id", s.ID, "error", err)
	}
}

// crmPriority maps the score onto the CRM's three-value priority
// property (high/medium/low), which is coarser than the dashboard
// tiers.
func crmPriority(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 50:
		return "medium"
	default:
		return "low"
	}
}

func serviceLabel(service string) string {
	if service == "" {
		return "none yet"
	}
	return recommend.Service(service).Label()
}

// summarize builds the timeline note from the session state and the
// tail of the transcript.
func summarize(s *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "AI chatbot conversation summary\n\n")
	fmt.Fprintf(&b, "Lead score: %d (%s)\n", s.LeadScore, crmPriority(s.LeadScore))
	fmt.Fprintf(&b, "Recommended service: %s\n", serviceLabel(s.RecommendedService))
	if s.ROI != nil && s.ROI.AnnualSavings > 0 {
		fmt.Fprintf(&b, "Estimated annual savings: $%.0f (%.0f%% ROI)\n",
			s.ROI.AnnualSavings, s.ROI.ROIPercent)
	}
	if s.EscalationRequested {
		b.WriteString("Visitor asked to speak with a human.\n")
	}

	b.WriteString("\nRecent messages:\n")
	tail := s.Messages
	if len(tail) > 10 {
		tail = tail[len(tail)-10:]
	}
	for _, m := range tail {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Text)
	}
	return b.String()
}

// nextBusinessDay returns the next weekday after t.
func nextBusinessDay(t time.Time) time.Time {
	due := t.AddDate(0, 0, 1)
	for due.Weekday() == time.Saturday || due.Weekday() == time.Sunday {
		due = due.AddDate(0, 0, 1)
	}
	return due
}
