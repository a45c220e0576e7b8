// Package moderation screens community gallery posts before they are
// queued for manager review. It is a cheap first pass: a blocklist plus
// a few regexes. Posts it rejects never reach the queue; posts it
// passes may still get an AI second pass and a manual decision.
package moderation

import (
	"regexp"
	"strings"
)

// Verdict is the outcome of the local filter.
type Verdict string

const (
	VerdictClean    Verdict = "clean"
	VerdictRejected Verdict = "rejected"
)

// Result carries the verdict and, when rejected, which rule fired.
type Result struct {
	Verdict Verdict
	Rule    string
}

// blockedTerms rejects a post outright. Matched on word boundaries,
// case-insensitive.
var blockedTerms = []string{
	"viagra",
	"casino",
	"crypto giveaway",
	"onlyfans",
}

var (
	// Repeated URLs are the strongest spam signal we see.
	urlPattern = regexp.MustCompile(`https?://\S+`)

	// Long runs of the same character ("aaaaaaaa", "!!!!!!!!").
	repeatPattern = regexp.MustCompile(`(.)\1{7,}`)

	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{9,}\d`)
)

const maxLinks = 2

// Check runs the local filter over a post's title and body.
func Check(title, body string) Result {
	text := strings.ToLower(title + "\n" + body)

	for _, term := range blockedTerms {
		if containsWord(text, term) {
			return Result{Verdict: VerdictRejected, Rule: "blocked term: " + term}
		}
	}

	if len(urlPattern.FindAllString(text, -1)) > maxLinks {
		return Result{Verdict: VerdictRejected, Rule: "too many links"}
	}

	if repeatPattern.MatchString(text) {
		return Result{Verdict: VerdictRejected, Rule: "repeated characters"}
	}

	if phonePattern.MatchString(text) {
		return Result{Verdict: VerdictRejected, Rule: "phone number"}
	}

	return Result{Verdict: VerdictClean}
}

// containsWord matches term on word boundaries so "scunthorpe"-style
// substrings do not fire.
func containsWord(text, term string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
