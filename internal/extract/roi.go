package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// ---------- ROI figure regexes ----------

// The three figures are independent; a message can carry any subset.
var (
	hoursPerWeekRE = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\s*(?:per|a|each|every|/)\s*week`)
	hourlyRateRE   = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)\s*(?:per|an|/)\s*hour`)
	monthlyCostRE  = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)(k)?\s*(?:per|a|each|/)\s*month`)
)

// ROIFigures are the raw numbers a message volunteered.
type ROIFigures struct {
	HoursPerWeek float64
	HourlyRate   float64
	MonthlyCost  float64
	HasHours     bool
	HasRate      bool
	HasCost      bool
}

// ROI scans the message for stated hours-per-week, hourly rate, and
// monthly cost figures.
func ROI(text string) ROIFigures {
	lowered := strings.ToLower(text)
	var figures ROIFigures

	if m := hoursPerWeekRE.FindStringSubmatch(lowered); len(m) >= 2 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			figures.HoursPerWeek = v
			figures.HasHours = true
		}
	}
	if m := hourlyRateRE.FindStringSubmatch(lowered); len(m) >= 2 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			figures.HourlyRate = v
			figures.HasRate = true
		}
	}
	if m := monthlyCostRE.FindStringSubmatch(lowered); len(m) >= 2 {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			if len(m) >= 3 && m[2] == "k" {
				v *= 1000
			}
			figures.MonthlyCost = v
			figures.HasCost = true
		}
	}
	return figures
}

// ---------- work-type inference ----------

// Hawaii-market hourly rates per work-type bucket, used when the
// visitor states hours but no rate.
const (
	RateAdministrative = 25.0
	RateAnalytics      = 35.0
	RateSupport        = 22.0
	RateTechnical      = 45.0
	RateMarketing      = 30.0
	RateGeneral        = 28.0
)

// workTypeBuckets are checked in declared order; the first bucket with a
// keyword hit wins.
var workTypeBuckets = []struct {
	name     string
	rate     float64
	keywords []string
}{
	{"reporting & analytics", RateAnalytics, []string{
		"spreadsheet", "excel", "report", "analytics", "data analysis",
		"bookkeeping", "dashboards", "forecasting",
	}},
	{"customer support", RateSupport, []string{
		"customer service", "customer support", "answering questions",
		"phone calls", "inquiries", "responding to customers",
	}},
	{"technical", RateTechnical, []string{
		"coding", "programming", "software", "website", "technical",
		"debugging", "it support",
	}},
	{"marketing", RateMarketing, []string{
		"marketing", "social media", "content creation", "posting",
		"campaigns", "newsletters",
	}},
	{"administrative", RateAdministrative, []string{
		"admin", "scheduling", "data entry", "paperwork", "invoicing",
		"emails", "filing", "booking",
	}},
}

// WorkType infers the kind of manual work being described and the
// regional hourly rate for it. The general bucket applies when nothing
// matches.
func WorkType(text string) (name string, rate float64) {
	lowered := strings.ToLower(text)
	for _, bucket := range workTypeBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lowered, kw) {
				return bucket.name, bucket.rate
			}
		}
	}
	return "general operations", RateGeneral
}
