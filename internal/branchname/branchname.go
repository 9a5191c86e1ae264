// Package branchname derives slug-safe git branch names from ticket numbers
// and titles.
package branchname

import (
	"regexp"
	"strings"
)

var (
	bracketRe   = regexp.MustCompile(`\[[^\]]*\]`)
	leadTokenRe = regexp.MustCompile(`(?i)^[sd]?[-_\s]?\d+[\s:.,;/\\-]*`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases text, strips bracketed segments and a leading ticket
// identifier token, and collapses every non-alphanumeric run to a single
// underscore.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = bracketRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = leadTokenRe.ReplaceAllString(s, "")
	s = nonAlnumRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Generate builds "<ticketNumber>/<slug>" from a ticket number and title. The
// ticket number is removed from the title everywhere it occurs, in either its
// prefixed ("S-12345") or bare ("12345") form, before slugifying. An empty
// slug falls back to "ticket". The number itself passes through unmodified.
func Generate(ticketNumber, title string) string {
	slug := Slugify(stripNumber(title, ticketNumber))
	if slug == "" {
		slug = "ticket"
	}
	return ticketNumber + "/" + slug
}

// stripNumber removes every occurrence of the ticket number from the title,
// case-insensitively.
func stripNumber(title, ticketNumber string) string {
	digits := strings.TrimLeft(ticketNumber, "SDsd-_ ")
	if digits == "" {
		return title
	}
	re, err := regexp.Compile(`(?i)(?:[sd]-?)?` + regexp.QuoteMeta(digits))
	if err != nil {
		return title
	}
	return re.ReplaceAllString(title, "")
}
