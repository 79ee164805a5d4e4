package conversation

import "github.com/lenilani/lenilani-ai/internal/session"

// Suggestions returns the quick-reply chips the widget renders under
// the assistant's reply, keyed off the session's current stage.
func Suggestions(s *session.Session) []string {
	switch {
	case s.EscalationRequested:
		return []string{
			"Share my contact info",
			"Back to the AI assistant",
		}
	case s.DemoMode:
		return []string{
			"How much would this cost?",
			"Exit demo mode",
		}
	case s.ROI != nil && s.ROI.AnnualSavings > 0:
		return []string{
			"Send me the full ROI breakdown",
			"How do we get started?",
			"Show me a demo",
		}
	case s.RecommendedService != "":
		return []string{
			"What does that cost?",
			"Show me a demo",
			"Calculate my ROI",
		}
	case s.UserMessageCount() <= 1:
		return []string{
			"I need a chatbot for my business",
			"Help me automate manual work",
			"I want better reports and dashboards",
			"What does LeniLani do?",
		}
	default:
		return []string{
			"What services do you offer?",
			"Calculate my ROI",
			"Talk to a human",
		}
	}
}
