package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------- package-level compiled regexes ----------

var (
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRE = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}|\b\d{10}\b`)
)

// Email returns the first email address in the text. Deliverability is
// not validated.
func Email(text string) (string, bool) {
	match := emailRE.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.ToLower(match), true
}

// Phone returns the first North-American 10-digit phone number in the
// text, normalized to digits only.
func Phone(text string) (string, bool) {
	match := phoneRE.FindString(text)
	if match == "" {
		return "", false
	}
	var digits strings.Builder
	for _, r := range match {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return "", false
	}
	return d, true
}

// ---------- name extraction ----------

const nameToken = `[A-Z][a-zA-Z'\-]*`

var namePhrase = nameToken + `(?:\s+` + nameToken + `)?`

var namePrefixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+(` + namePhrase + `)`),
	regexp.MustCompile(`(?i)\bi'?m\s+(` + namePhrase + `)(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)\bi am\s+(` + namePhrase + `)(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)\bthis is\s+(` + namePhrase + `)`),
	regexp.MustCompile(`(?i)\bcall me\s+(` + namePhrase + `)`),
}

var nameSuffixRE = regexp.MustCompile(`\b(` + namePhrase + `)\s+(?:here|speaking)\b`)

var nameTextNormalizer = strings.NewReplacer(
	"’", "'", // right single quote
	"‘", "'", // left single quote
)

// nonNameWords are common words that the prefix patterns capture but
// that are never names. Low precision is expected; this just trims the
// worst false positives.
var nonNameWords = map[string]bool{
	"test": true, "demo": true, "hello": true, "hi": true, "hey": true,
	"aloha": true, "mahalo": true, "howzit": true,
	"interested": true, "looking": true, "wondering": true, "trying": true,
	"thinking": true, "hoping": true, "asking": true, "curious": true,
	"good": true, "great": true, "fine": true, "sure": true, "sorry": true,
	"just": true, "really": true, "very": true, "here": true, "not": true,
	"the": true, "a": true, "an": true, "so": true, "done": true,
	"ready": true, "happy": true, "glad": true, "new": true, "still": true,
	"actually": true, "currently": true, "also": true, "now": true,
	"ceo": true, "owner": true, "founder": true, "manager": true,
	"director": true, "desperate": true, "losing": true, "spending": true,
	"working": true, "running": true, "building": true, "writing": true,
}

// Name scans the text for a self-introduction and returns the captured
// name. Ambiguity is accepted; false negatives are fine.
func Name(text string) (string, bool) {
	normalized := nameTextNormalizer.Replace(text)

	for _, pattern := range namePrefixPatterns {
		if match := pattern.FindStringSubmatch(normalized); len(match) >= 2 {
			if name, ok := cleanName(match[1]); ok {
				return name, true
			}
		}
	}
	if match := nameSuffixRE.FindStringSubmatch(normalized); len(match) >= 2 {
		if name, ok := cleanName(match[1]); ok {
			return name, true
		}
	}
	return "", false
}

// cleanName validates the captured tokens against the denylist and
// rejects single-character captures. A bad leading token is skipped, a
// bad trailing token ends the name.
func cleanName(raw string) (string, bool) {
	words := strings.Fields(strings.TrimSpace(raw))
	kept := make([]string, 0, 2)
	for _, word := range words {
		word = strings.Trim(word, ".,!?\"'")
		if !looksLikeNameWord(word) {
			if len(kept) > 0 {
				break
			}
			continue
		}
		kept = append(kept, word)
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " "), true
}

func looksLikeNameWord(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	if nonNameWords[strings.ToLower(word)] {
		return false
	}
	firstRune, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(firstRune)
}
