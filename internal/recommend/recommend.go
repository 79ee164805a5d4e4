package recommend

import "strings"

// Service identifies one of the five consulting offerings. Values match
// the CRM's ai_recommended_service enumeration.
type Service string

const (
	ServiceChatbot       Service = "ai_chatbot"
	ServiceAnalytics     Service = "business_intelligence"
	ServiceAutomation    Service = "system_integration"
	ServiceFractionalCTO Service = "fractional_cto"
	ServiceMarketing     Service = "marketing_automation"
)

// Label returns the human-readable service name.
func (s Service) Label() string {
	switch s {
	case ServiceChatbot:
		return "AI Chatbot Development"
	case ServiceAnalytics:
		return "Business Intelligence & Analytics"
	case ServiceAutomation:
		return "System Integration & Automation"
	case ServiceFractionalCTO:
		return "Fractional CTO Services"
	case ServiceMarketing:
		return "Marketing Automation"
	default:
		return string(s)
	}
}

// categories are evaluated in declared order. Ties go to the earlier
// category because only a strictly higher keyword count replaces the
// leader.
var categories = []struct {
	service  Service
	keywords []string
}{
	{ServiceChatbot, []string{
		"chatbot", "chat bot", "customer service", "customer support",
		"answer questions", "repetitive questions", "respond to customers",
		"virtual assistant", "conversational", "24/7", "faq",
	}},
	{ServiceAnalytics, []string{
		"data", "analytics", "dashboard", "report", "spreadsheet",
		"excel", "insights", "metrics", "forecast", "trends",
		"business intelligence",
	}},
	{ServiceAutomation, []string{
		"automate", "automation", "manual process", "manual work",
		"integration", "workflow", "repetitive", "data entry",
		"streamline", "inventory", "sync",
	}},
	{ServiceFractionalCTO, []string{
		"cto", "tech strategy", "technology strategy", "technical leadership",
		"roadmap", "architecture", "tech stack", "scaling",
		"technical debt", "build vs buy", "technical guidance",
	}},
	{ServiceMarketing, []string{
		"marketing", "hubspot", "email campaign", "social media",
		"seo", "crm", "newsletter", "ads", "lead generation",
		"email marketing", "loyalty program",
	}},
}

// Recommendation is a matched service with the number of keyword hits
// that selected it.
type Recommendation struct {
	Service    Service
	Label      string
	Confidence int
}

// Match counts each category's keyword hits in the message and returns
// the category with the strictly highest count. Zero hits across the
// board means no recommendation.
func Match(text string) (Recommendation, bool) {
	lowered := strings.ToLower(text)

	var best Recommendation
	for _, cat := range categories {
		count := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lowered, kw) {
				count++
			}
		}
		if count > best.Confidence {
			best = Recommendation{
				Service:    cat.service,
				Label:      cat.service.Label(),
				Confidence: count,
			}
		}
	}

	if best.Confidence == 0 {
		return Recommendation{}, false
	}
	return best, true
}
