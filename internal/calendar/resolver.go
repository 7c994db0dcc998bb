// Package calendar maps years of study onto the catalogue's academic-year
// data snapshots.
package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AcademicYear identifies an academic year by the calendar year it starts in.
// Its canonical key is "2025/6".
type AcademicYear int

// ParseAcademicYear accepts "2025/6", "2025/26", "2025-26", "2025_6" or "2025".
func ParseAcademicYear(s string) (AcademicYear, error) {
	s = strings.TrimSpace(s)
	head := s
	if i := strings.IndexAny(s, "/-_"); i >= 0 {
		head = s[:i]
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 1900 || n > 2999 {
		return 0, fmt.Errorf("invalid academic year %q", s)
	}
	return AcademicYear(n), nil
}

// Start returns the calendar year the academic year begins in.
func (y AcademicYear) Start() int {
	return int(y)
}

// Key returns the canonical snapshot key, e.g. "2025/6".
func (y AcademicYear) Key() string {
	return fmt.Sprintf("%d/%d", int(y), (int(y)+1)%10)
}

func (y AcademicYear) String() string {
	return y.Key()
}

// CalendarYear is the academic year in which a student who entered in
// entry studies programYear.
func CalendarYear(entry AcademicYear, programYear int) AcademicYear {
	return entry + AcademicYear(programYear-1)
}

// Resolver picks which data snapshot stands in for a calendar year.
type Resolver struct {
	snapshots []AcademicYear
}

// NewResolver builds a resolver over the known snapshot keys. Keys that do
// not parse are ignored.
func NewResolver(keys []string) *Resolver {
	seen := make(map[AcademicYear]bool)
	var snaps []AcademicYear
	for _, k := range keys {
		y, err := ParseAcademicYear(k)
		if err != nil || seen[y] {
			continue
		}
		seen[y] = true
		snaps = append(snaps, y)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i] < snaps[j] })
	return &Resolver{snapshots: snaps}
}

// Snapshots returns the known snapshot years, oldest first.
func (r *Resolver) Snapshots() []AcademicYear {
	return append([]AcademicYear(nil), r.snapshots...)
}

// Resolve returns the snapshot whose data applies to year. An exact match
// wins; otherwise the nearest snapshot with the same start-year parity
// (equal distances go to the more recent one), so modules taught in
// alternate years keep their pattern; otherwise the most recent snapshot.
// ok is false only when there are no snapshots at all.
func (r *Resolver) Resolve(year AcademicYear) (AcademicYear, bool) {
	if len(r.snapshots) == 0 {
		return 0, false
	}
	for _, s := range r.snapshots {
		if s == year {
			return s, true
		}
	}
	if s, ok := nearest(r.snapshots, year, func(s AcademicYear) bool { return parity(s) == parity(year) }); ok {
		return s, true
	}
	return r.snapshots[len(r.snapshots)-1], true
}

// Visible reports whether an offering taught in availableYears is on offer
// in the calendar year. Discontinued offerings are never projected: they are
// visible only in a year they were actually listed.
func (r *Resolver) Visible(year AcademicYear, availableYears []string, discontinued bool) (resolved AcademicYear, visible bool) {
	if discontinued {
		return year, containsYear(availableYears, year)
	}
	resolved, ok := r.Resolve(year)
	if !ok {
		return year, false
	}
	return resolved, containsYear(availableYears, resolved)
}

func nearest(snaps []AcademicYear, year AcademicYear, keep func(AcademicYear) bool) (AcademicYear, bool) {
	best, found := AcademicYear(0), false
	for _, s := range snaps {
		if !keep(s) {
			continue
		}
		if !found || distance(s, year) < distance(best, year) ||
			(distance(s, year) == distance(best, year) && s > best) {
			best, found = s, true
		}
	}
	return best, found
}

func distance(a, b AcademicYear) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func parity(y AcademicYear) int {
	return int(y) & 1
}

func containsYear(keys []string, year AcademicYear) bool {
	for _, k := range keys {
		if y, err := ParseAcademicYear(k); err == nil && y == year {
			return true
		}
	}
	return false
}
