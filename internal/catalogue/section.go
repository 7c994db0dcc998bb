package catalogue

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/domain"
)

var (
	rangeLabelRe   = regexp.MustCompile(`(?i)\bRANGE\s+([A-C])\b`)
	creditsSpanRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:-|–|to)\s*(\d+)\s*credits`)
	creditsOneRe   = regexp.MustCompile(`(?i)(\d+)\s*credits`)
	selectSpanRe   = regexp.MustCompile(`(?i)select\s+(\d+)\s*(?:-|–|to)\s*(\d+)\s*credits`)
	selectSingleRe = regexp.MustCompile(`(?i)select\s+(\d+)\s*credits`)
)

// NormalizeSpace collapses whitespace runs to single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SectionKeyFor derives the bucket key for a section heading.
func SectionKeyFor(label string) domain.SectionKey {
	label = NormalizeSpace(label)
	upper := strings.ToUpper(label)
	switch {
	case strings.HasPrefix(upper, "COMPULSORY"):
		return domain.SectionCompulsory
	case strings.HasPrefix(upper, "CORE"):
		return domain.SectionCore
	}
	if m := rangeLabelRe.FindStringSubmatch(label); m != nil {
		return domain.SectionKey("Range " + strings.ToUpper(m[1]))
	}
	return domain.SectionKey(label)
}

// SectionRank orders section keys the way the catalogue presents them.
func SectionRank(key domain.SectionKey) int {
	switch key {
	case domain.SectionCompulsory, domain.SectionCore:
		return 0
	case domain.SectionRangeA:
		return 1
	case domain.SectionRangeB:
		return 2
	case domain.SectionRangeC:
		return 3
	default:
		return 99
	}
}

// ParseSectionRange finds a section's credit range. The heading's own
// "N-M credits" or "N credits" phrase wins; otherwise a "select N-M credits"
// phrase in the notes; otherwise the scraped credit rule. nil means the
// section is unconstrained.
func ParseSectionRange(label, notes, creditRule string) *domain.CreditRange {
	if r := matchRange(label, creditsSpanRe, creditsOneRe); r != nil {
		return r
	}
	if r := matchRange(notes, selectSpanRe, selectSingleRe); r != nil {
		return r
	}
	return matchRange(creditRule, creditsSpanRe, creditsOneRe)
}

func matchRange(text string, span, single *regexp.Regexp) *domain.CreditRange {
	if text == "" {
		return nil
	}
	if m := span.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			lo, hi = hi, lo
		}
		return &domain.CreditRange{Min: lo, Max: hi}
	}
	if m := single.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return &domain.CreditRange{Min: n, Max: n}
	}
	return nil
}

// ParsePeriod maps the catalogue's teaching-period text onto a Period.
func ParsePeriod(s string) domain.Period {
	u := strings.ToUpper(NormalizeSpace(s))
	switch {
	case u == "":
		return domain.PeriodUnknown
	case strings.Contains(u, "YEAR"), strings.Contains(u, "FULL"):
		return domain.PeriodFullYear
	case strings.Contains(u, "SEM1"), strings.Contains(u, "SEMESTER 1"), strings.Contains(u, "SEM 1"),
		strings.HasPrefix(u, "AUT"), strings.Contains(u, "FIRST"):
		return domain.PeriodFirstTerm
	case strings.Contains(u, "SEM2"), strings.Contains(u, "SEMESTER 2"), strings.Contains(u, "SEM 2"),
		strings.HasPrefix(u, "SPR"), strings.Contains(u, "SECOND"):
		return domain.PeriodSecondTerm
	default:
		return domain.PeriodUnknown
	}
}
