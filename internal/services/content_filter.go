package services

import (
	"regexp"
	"strings"
)

// offensiveWords are matched as whole words, ignoring case.
var offensiveWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
}

const (
	// A run this long of one letter or of ! ? . reads as spam.
	spamRunLength = 4
	// More shouted words than this is rejected.
	maxShoutedWords = 2
)

var (
	offensivePattern = wordsPattern(offensiveWords)
	linkPattern      = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	emailPattern     = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	phonePattern     = regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}|\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	shoutedPattern   = regexp.MustCompile(`[A-Z]{5,}`)
)

type contentRule struct {
	reason  string
	message string
	broken  func(string) bool
}

// contentRules are evaluated in order; the first broken rule names the rejection.
// Donors and requesters exchange contact details only through the app, so
// links, emails and phone numbers are refused in free text.
var contentRules = []contentRule{
	{"inappropriate_language", "Your message contains inappropriate language.", offensivePattern.MatchString},
	{"url_not_allowed", "URLs and web links are not allowed.", linkPattern.MatchString},
	{"contact_info_not_allowed", "Contact information is not allowed.", func(s string) bool {
		return emailPattern.MatchString(s) || phonePattern.MatchString(s)
	}},
	{"spam_detected", "Your message appears to be spam.", hasSpamRun},
	{"excessive_caps", "Please avoid using excessive capital letters.", func(s string) bool {
		return len(shoutedPattern.FindAllStringIndex(s, maxShoutedWords+1)) > maxShoutedWords
	}},
}

func screen(text string) *contentRule {
	if text == "" {
		return nil
	}
	for i := range contentRules {
		if contentRules[i].broken(text) {
			return &contentRules[i]
		}
	}
	return nil
}

func wordsPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func hasSpamRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range strings.ToLower(text) {
		counted := ('a' <= r && r <= 'z') || r == '!' || r == '?' || r == '.'
		if !counted || r != prev {
			prev, run = r, 0
			if !counted {
				continue
			}
		}
		run++
		if run >= spamRunLength {
			return true
		}
	}
	return false
}
