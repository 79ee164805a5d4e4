// Package analytics keeps process-wide aggregate counters for the
// dashboard and mirrors them into prometheus.
package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lenilani/lenilani-ai/internal/scoring"
)

const dayFormat = "2006-01-02"

// Tracker accumulates conversation aggregates. All methods are safe for
// concurrent use and are no-ops on a nil receiver.
type Tracker struct {
	mu sync.Mutex

	conversations  int
	messages       int
	emailsCaptured int
	phonesCaptured int
	leadsSynced    int

	byPriority map[scoring.Priority]int
	byService  map[string]int
	byDay      map[string]int

	roiCalculations int
	demoRequests    int
	escalations     int
	languageSwitch  map[string]int

	eventsTotal *prometheus.CounterVec
	leadTiers   *prometheus.GaugeVec
}

// NewTracker registers the prometheus mirrors on reg, or on the default
// registerer when reg is nil.
func NewTracker(reg prometheus.Registerer) *Tracker {
	t := &Tracker{
		byPriority:     make(map[scoring.Priority]int),
		byService:      make(map[string]int),
		byDay:          make(map[string]int),
		languageSwitch: make(map[string]int),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lenilani",
			Subsystem: "chat",
			Name:      "events_total",
			Help:      "Total conversation events by type",
		}, []string{"event"}),
		leadTiers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lenilani",
			Subsystem: "chat",
			Name:      "lead_tier_sessions",
			Help:      "Sessions currently in each lead tier",
		}, []string{"tier"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(t.eventsTotal, t.leadTiers)
	return t
}

// RecordConversation counts a newly created session.
func (t *Tracker) RecordConversation(at time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.conversations++
	t.byDay[at.UTC().Format(dayFormat)]++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("conversation").Inc()
}

// RecordMessage counts one user message.
func (t *Tracker) RecordMessage() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.messages++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("message").Inc()
}

// RecordEmailCapture counts a first-time email capture.
func (t *Tracker) RecordEmailCapture() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.emailsCaptured++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("email_captured").Inc()
}

// RecordPhoneCapture counts a first-time phone capture.
func (t *Tracker) RecordPhoneCapture() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.phonesCaptured++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("phone_captured").Inc()
}

// RecordLeadSynced counts a successful CRM hand-off.
func (t *Tracker) RecordLeadSynced() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.leadsSynced++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("lead_synced").Inc()
}

// MoveLeadBucket re-buckets a session whose score changed. The decrement
// of the old tier and increment of the new one happen under one lock so
// the per-tier totals cannot drift under concurrent updates. A session
// entering its first tier passes hadPrevious=false.
func (t *Tracker) MoveLeadBucket(from, to scoring.Priority, hadPrevious bool) {
	if t == nil || (hadPrevious && from == to) {
		return
	}
	t.mu.Lock()
	if hadPrevious && t.byPriority[from] > 0 {
		t.byPriority[from]--
	}
	t.byPriority[to]++
	t.mu.Unlock()

	if hadPrevious {
		t.leadTiers.WithLabelValues(string(from)).Dec()
	}
	t.leadTiers.WithLabelValues(string(to)).Inc()
}

// RecordService counts a service recommendation.
func (t *Tracker) RecordService(service string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.byService[service]++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("service_recommended").Inc()
}

// RecordROICalculation counts a completed ROI computation.
func (t *Tracker) RecordROICalculation() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.roiCalculations++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("roi_calculation").Inc()
}

// RecordDemoRequest counts a demo-mode entry.
func (t *Tracker) RecordDemoRequest() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.demoRequests++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("demo_request").Inc()
}

// RecordEscalation counts a human-handoff request.
func (t *Tracker) RecordEscalation() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.escalations++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("escalation").Inc()
}

// RecordLanguageSwitch counts an explicit language-mode activation.
func (t *Tracker) RecordLanguageSwitch(mode string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.languageSwitch[mode]++
	t.mu.Unlock()
	t.eventsTotal.WithLabelValues("language_switch").Inc()
}

// Dashboard is the read model served by the analytics endpoint.
type Dashboard struct {
	Overview     Overview       `json:"overview"`
	LeadQuality  LeadQuality    `json:"leadQuality"`
	FeatureUsage FeatureUsage   `json:"featureUsage"`
	TimeSeries   []DayCount     `json:"timeSeries"`
	ByService    map[string]int `json:"recommendedServices"`
}

type Overview struct {
	TotalConversations int     `json:"totalConversations"`
	TotalMessages      int     `json:"totalMessages"`
	EmailsCaptured     int     `json:"emailsCaptured"`
	PhonesCaptured     int     `json:"phonesCaptured"`
	LeadsSynced        int     `json:"leadsSynced"`
	ConversionRate     float64 `json:"conversionRate"`
}

type LeadQuality struct {
	Hot       int `json:"hot"`
	Warm      int `json:"warm"`
	Qualified int `json:"qualified"`
	Cold      int `json:"cold"`
}

type FeatureUsage struct {
	ROICalculations  int            `json:"roiCalculations"`
	DemoRequests     int            `json:"demoRequests"`
	Escalations      int            `json:"escalations"`
	LanguageSwitches map[string]int `json:"languageSwitches"`
}

type DayCount struct {
	Day           string `json:"date"`
	Conversations int    `json:"conversations"`
}

// Snapshot reshapes the counters into the dashboard read model. Purely
// derived; no side effects.
func (t *Tracker) Snapshot() Dashboard {
	if t == nil {
		return Dashboard{ByService: map[string]int{}}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	d := Dashboard{
		Overview: Overview{
			TotalConversations: t.conversations,
			TotalMessages:      t.messages,
			EmailsCaptured:     t.emailsCaptured,
			PhonesCaptured:     t.phonesCaptured,
			LeadsSynced:        t.leadsSynced,
		},
		LeadQuality: LeadQuality{
			Hot:       t.byPriority[scoring.PriorityHot],
			Warm:      t.byPriority[scoring.PriorityWarm],
			Qualified: t.byPriority[scoring.PriorityQualified],
			Cold:      t.byPriority[scoring.PriorityCold],
		},
		FeatureUsage: FeatureUsage{
			ROICalculations:  t.roiCalculations,
			DemoRequests:     t.demoRequests,
			Escalations:      t.escalations,
			LanguageSwitches: copyCounts(t.languageSwitch),
		},
		ByService: copyCounts(t.byService),
	}
	if t.conversations > 0 {
		d.Overview.ConversionRate = float64(t.emailsCaptured) / float64(t.conversations)
	}

	days := make([]string, 0, len(t.byDay))
	for day := range t.byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		d.TimeSeries = append(d.TimeSeries, DayCount{Day: day, Conversations: t.byDay[day]})
	}
	return d
}

func copyCounts(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
