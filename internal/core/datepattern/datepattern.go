// Package datepattern detects a calendar date at the start of a document title.
package datepattern

import (
	"regexp"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

// Pattern is a named prefix matcher. The expression must be anchored at the
// start of the input and capture the year, month and day groups.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// ws matches Unicode White_Space; RE2's \s is ASCII only.
const ws = `[\t\n\v\f\r \x{85}\p{Z}]*`

// Patterns are tried in order and the first match wins.
var Patterns = []Pattern{
	{
		Name: "iso",
		re:   regexp.MustCompile(`^(?P<year>[0-9]{4})-(?P<month>[0-9]{2})-(?P<day>[0-9]{2})` + ws + `-?` + ws),
	},
	{
		Name: "european",
		re:   regexp.MustCompile(`^(?P<day>[0-9]{2})\.(?P<month>[0-9]{2})\.(?P<year>[0-9]{4})` + ws + `-?` + ws),
	},
}

func (p Pattern) match(title string) (domain.DateMatch, bool) {
	groups := p.re.FindStringSubmatch(title)
	if groups == nil {
		return domain.DateMatch{}, false
	}
	return domain.DateMatch{
		Year:    groups[p.re.SubexpIndex("year")],
		Month:   groups[p.re.SubexpIndex("month")],
		Day:     groups[p.re.SubexpIndex("day")],
		Prefix:  groups[0],
		Pattern: p.Name,
	}, true
}

// Match returns the first pattern match for title.
func Match(title string) (domain.DateMatch, bool) {
	for _, p := range Patterns {
		if m, ok := p.match(title); ok {
			return m, true
		}
	}
	return domain.DateMatch{}, false
}

// Normalize strips the date prefix from title and builds the created date
// from the captured digits as-is. Month and day are not range checked.
func Normalize(title string) (domain.DocumentProperties, bool) {
	props, _, ok := NormalizeMatch(title)
	return props, ok
}

// NormalizeMatch is Normalize that also returns the match it was built from.
func NormalizeMatch(title string) (domain.DocumentProperties, domain.DateMatch, bool) {
	m, ok := Match(title)
	if !ok {
		return domain.DocumentProperties{}, domain.DateMatch{}, false
	}
	return domain.DocumentProperties{
		Title:       title[len(m.Prefix):],
		CreatedDate: m.CreatedDate(),
	}, m, true
}
