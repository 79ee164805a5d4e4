package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Priority is the lead tier derived from the score. Values match the
// CRM's ai_lead_priority buckets plus the qualified middle tier used by
// the analytics dashboard.
type Priority string

const (
	PriorityHot       Priority = "hot"
	PriorityWarm      Priority = "warm"
	PriorityQualified Priority = "qualified"
	PriorityCold      Priority = "cold"
)

// Tier boundaries are fixed; the dashboard and CRM workflows depend on
// them.
const (
	hotThreshold       = 80
	warmThreshold      = 60
	qualifiedThreshold = 40
)

// PriorityFor maps a score onto its tier.
func PriorityFor(score int) Priority {
	switch {
	case score >= hotThreshold:
		return PriorityHot
	case score >= warmThreshold:
		return PriorityWarm
	case score >= qualifiedThreshold:
		return PriorityQualified
	default:
		return PriorityCold
	}
}

// ---------- signal tables ----------

var (
	dollarAmountRE = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)(k)?`)
	companySizeRE  = regexp.MustCompile(`(\d+)[-\s]*(?:employees?|people|team members?|staff|person)`)
)

var budgetWords = []string{
	"budget", "invest", "afford", "spend", "pricing", "price", "cost",
}

var urgencyTiers = []struct {
	points  int
	phrases []string
}{
	{20, []string{"urgent", "asap", "immediately", "right away", "this week"}},
	{15, []string{"soon", "next month", "quickly"}},
	{10, []string{"this year", "eventually", "at some point"}},
	{5, []string{"just looking", "just exploring", "just browsing", "curious"}},
}

var painPhrases = []string{
	"losing money",
	"costing us",
	"costing me",
	"major problem",
	"critical",
	"desperate",
	"struggling",
	"wasting time",
	"wasting hours",
	"inefficient",
	"falling behind",
	"can't keep up",
}

var decisionTiers = []struct {
	points  int
	phrases []string
}{
	{15, []string{"owner", "ceo", "founder", "my company", "my business"}},
	{10, []string{"director", "manager", "vp", "vice president", "partner"}},
	{3, []string{"employee", "staff member", "work for"}},
}

const (
	budgetCap = 25
	sizeCap   = 20
	painCap   = 20
)

// Score computes the 0-100 lead score for the latest message.
// emailCaptured reflects whether the session has already captured an
// email; earlier messages' signals persist only through the caller's
// monotonic-max rule, not by re-scanning history.
func Score(message string, emailCaptured bool) int {
	lowered := strings.ToLower(message)

	total := budgetPoints(lowered)
	total += companySizePoints(lowered)
	total += urgencyPoints(lowered)
	total += painPoints(lowered)
	total += decisionMakerPoints(lowered)
	if emailCaptured {
		total += 10
	}

	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return total
}

func budgetPoints(lowered string) int {
	amount := largestDollarAmount(lowered)
	switch {
	case amount >= 1500:
		return budgetCap
	case amount >= 1000:
		return 15
	case amount > 0:
		return 5
	}
	for _, word := range budgetWords {
		if strings.Contains(lowered, word) {
			return 10
		}
	}
	return 0
}

func largestDollarAmount(lowered string) float64 {
	var max float64
	for _, m := range dollarAmountRE.FindAllStringSubmatch(lowered, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if len(m) >= 3 && m[2] == "k" {
			v *= 1000
		}
		if v > max {
			max = v
		}
	}
	return max
}

func companySizePoints(lowered string) int {
	m := companySizeRE.FindStringSubmatch(lowered)
	if len(m) < 2 {
		return 0
	}
	size, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	switch {
	case size >= 10 && size <= 50:
		return sizeCap // the ideal client profile
	case size >= 5 && size <= 9:
		return 15
	case size > 50:
		return 10
	case size >= 1:
		return 5
	}
	return 0
}

func urgencyPoints(lowered string) int {
	for _, tier := range urgencyTiers {
		for _, phrase := range tier.phrases {
			if strings.Contains(lowered, phrase) {
				return tier.points
			}
		}
	}
	return 0
}

func painPoints(lowered string) int {
	points := 0
	for _, phrase := range painPhrases {
		if strings.Contains(lowered, phrase) {
			points += 5
			if points >= painCap {
				return painCap
			}
		}
	}
	return points
}

func decisionMakerPoints(lowered string) int {
	for _, tier := range decisionTiers {
		for _, phrase := range tier.phrases {
			if strings.Contains(lowered, phrase) {
				return tier.points
			}
		}
	}
	return 0
}
