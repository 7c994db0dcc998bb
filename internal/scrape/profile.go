// Package scrape parses saved course-profile and module-detail pages into
// per-year catalogue snapshots.
package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/PuerkitoBio/goquery"
)

var (
	academicYearRe = regexp.MustCompile(`(\d{4}/\d)`)
	creditRuleRe   = regexp.MustCompile(`Students will select (\d+-\d+) credits`)
)

// ProfileRow is one module row of a course profile page. URL points at the
// module's detail page and is not written to the catalogue.
type ProfileRow struct {
	catalogue.Module
	URL string
}

// Profile is a parsed course profile page.
type Profile struct {
	Course       string
	AcademicYear string
	Rows         []ProfileRow
}

// ParseAcademicYear finds the "2025/6" key in the page's first h1.
func ParseAcademicYear(doc *goquery.Document) (string, error) {
	h1 := strings.TrimSpace(doc.Find("h1").First().Text())
	m := academicYearRe.FindStringSubmatch(h1)
	if m == nil {
		return "", fmt.Errorf("no academic year in heading %q", h1)
	}
	return m[1], nil
}

// ParseCourseProfile walks the year headings (h2), section headings (h4),
// section notes (p) and module tables of a course profile page in document
// order. A missing academic year heading is not an error; the caller must
// supply one before building a snapshot.
func ParseCourseProfile(r io.Reader) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing course profile: %w", err)
	}

	p := &Profile{}
	p.AcademicYear, _ = ParseAcademicYear(doc)
	heading := doc.Find("h1").First().Text()
	p.Course = strings.Trim(catalogue.NormalizeSpace(academicYearRe.ReplaceAllString(heading, "")), " -:")

	var year, section, creditRule, notes string
	doc.Find("h2, h4, p, table.sv-table").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h2":
			year = strings.TrimSpace(s.Text())
			section, creditRule, notes = "", "", ""
		case "h4":
			section = strings.TrimSpace(s.Text())
			creditRule, notes = "", ""
		case "p":
			if s.ParentsFiltered("table").Length() > 0 {
				return
			}
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return
			}
			if m := creditRuleRe.FindStringSubmatch(text); m != nil {
				creditRule = m[1] + " credits"
			}
			notes = catalogue.NormalizeSpace(text)
		case "table":
			s.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
				row, ok := parseModuleRow(tr)
				if !ok {
					return
				}
				row.Year = catalogue.YearLabel(year)
				row.Section = section
				row.CreditRule = creditRule
				row.Notes = notes
				p.Rows = append(p.Rows, row)
			})
		}
	})
	return p, nil
}

func parseModuleRow(tr *goquery.Selection) (ProfileRow, bool) {
	cells := tr.Find("td")
	if cells.Length() < 6 {
		return ProfileRow{}, false
	}
	cell := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Find(".tablesaw-cell-content").Text())
	}

	first := cells.Eq(0)
	var row ProfileRow
	if link := first.Find("a.sv-hidden-print").First(); link.Length() > 0 {
		row.ModuleCode = strings.TrimSpace(link.Text())
		row.URL, _ = link.Attr("href")
	} else {
		row.ModuleCode = strings.TrimSpace(first.Find(".sv-visible-print-inline").First().Text())
	}
	if row.ModuleCode == "" {
		return ProfileRow{}, false
	}

	row.Description = cell(1)
	row.Assessment = cell(2)
	if n, err := strconv.ParseFloat(cell(3), 64); err == nil {
		row.Credits = catalogue.FlexInt(int(n))
	}
	row.Period = cell(4)
	row.SubSlot = cell(5)
	return row, true
}
