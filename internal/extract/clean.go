package extract

import (
	"regexp"
	"strings"
)

var (
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	underlineRe   = regexp.MustCompile(`__([^_]+)__`)
	emphasisRe    = regexp.MustCompile(`\*(\S[^*\n]*?)\*`)
	headerRe      = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	citeMarkRe    = regexp.MustCompile(`\[\d+\]`)
	bareDomainRe  = regexp.MustCompile(`\(\s*[a-zA-Z0-9.-]+\.(?:com|org|net|gov|mil|int)\s*\)`)
	hruleRe       = regexp.MustCompile(`(?m)^\s*[-=_]{3,}\s*$`)
	tableRowRe    = regexp.MustCompile(`(?m)^\s*\|.*$`)
	sourcesTailRe = regexp.MustCompile(`(?mis)^\s*(?:sources|references|citations):?\s*$.*\z`)
	multiBlankRe  = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes research prose before extraction: markdown emphasis and
// headers go, table rows and rules go, inline citation markers and bare
// domain parentheticals go, and any trailing "Sources:"/"References:" section
// is cut. Bullet markers are preserved since the key-development heuristics
// key on them.
func Clean(content string) string {
	s := content

	s = sourcesTailRe.ReplaceAllString(s, "")
	s = tableRowRe.ReplaceAllString(s, "")
	s = hruleRe.ReplaceAllString(s, "")
	s = headerRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = underlineRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "$1")
	s = citeMarkRe.ReplaceAllString(s, "")
	s = bareDomainRe.ReplaceAllString(s, "")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
