package extract

import (
	"strings"

	"github.com/lenilani/lenilani-ai/internal/recommend"
	"github.com/lenilani/lenilani-ai/internal/session"
)

// ---------- escalation ----------

var escalationPhrases = []string{
	"talk to a human",
	"speak to a human",
	"talk to a person",
	"speak to a person",
	"talk to someone",
	"speak with someone",
	"real person",
	"human agent",
	"live agent",
	"representative",
	"this isn't working",
	"this is not working",
	"not helpful",
	"frustrated",
	"frustrating",
	"give up",
}

var escalationExitPhrases = []string{
	"back to ai",
	"back to the ai",
	"continue with ai",
	"exit human",
}

// EscalationIntent reports whether the message asks for a human handoff,
// and whether it explicitly returns the conversation to the assistant.
func EscalationIntent(text string) (requested, cleared bool) {
	lowered := strings.ToLower(text)
	for _, phrase := range escalationExitPhrases {
		if strings.Contains(lowered, phrase) {
			return false, true
		}
	}
	for _, phrase := range escalationPhrases {
		if strings.Contains(lowered, phrase) {
			return true, false
		}
	}
	return false, false
}

// ---------- demo mode ----------

// DemoServiceGeneral is the fallback category when a demo request names
// no recognizable service.
const DemoServiceGeneral = "general"

var demoPhrases = []string{
	"show me a demo",
	"show me an example",
	"can i see a demo",
	"give me a demo",
	"see a demo",
	"demo this",
	"see it in action",
	"show me how it works",
	"show me what you can do",
	"demo",
}

var demoExitPhrases = []string{
	"exit demo",
	"stop demo",
	"end demo",
	"leave demo",
	"exit the demo",
}

// DemoIntent detects demo enter/exit requests. When a demo is requested
// the message is also classified against the service categories; the
// generic category is returned when none match.
func DemoIntent(text string) (service string, entered, exited bool) {
	lowered := strings.ToLower(text)
	for _, phrase := range demoExitPhrases {
		if strings.Contains(lowered, phrase) {
			return "", false, true
		}
	}
	for _, phrase := range demoPhrases {
		if strings.Contains(lowered, phrase) {
			if rec, ok := recommend.Match(text); ok {
				return string(rec.Service), true, false
			}
			return DemoServiceGeneral, true, false
		}
	}
	return "", false, false
}

// ---------- language mode ----------

var pidginPhrases = []string{
	"talk pidgin",
	"speak pidgin",
	"can talk pidgin",
	"in pidgin",
	"pidgin please",
}

var oleloPhrases = []string{
	"olelo hawaii",
	"speak hawaiian",
	"in hawaiian",
	"hawaiian language",
	"olelo please",
}

var englishPhrases = []string{
	"back to english",
	"speak english",
	"in english please",
	"normal english",
}

// LanguageSwitch detects an explicit language-register switch request.
func LanguageSwitch(text string) (session.LanguageMode, bool) {
	lowered := strings.ToLower(text)
	for _, phrase := range englishPhrases {
		if strings.Contains(lowered, phrase) {
			return session.LangEnglish, true
		}
	}
	for _, phrase := range pidginPhrases {
		if strings.Contains(lowered, phrase) {
			return session.LangPidgin, true
		}
	}
	for _, phrase := range oleloPhrases {
		if strings.Contains(lowered, phrase) {
			return session.LangOlelo, true
		}
	}
	return "", false
}
