package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var prereqCodeRe = regexp.MustCompile(`[A-Z]{3,4}[A-Z0-9]?[-_]?\d{4}[A-Z]?`)

// Overview keys that carry enrolment data rather than module data.
var studentKeys = map[string]bool{
	"Code": true, "Surname": true, "Forename": true, "Email": true, "Status": true,
}

// ModuleDetail is what a module detail page adds to a profile row.
type ModuleDetail struct {
	Rules             string
	PrerequisiteCodes []string
	// Info is the overview table as "key: value" parts, in page order.
	Info []string
}

// TableInfo joins the overview parts the way the catalogue stores them.
func (d ModuleDetail) TableInfo() string {
	return strings.Join(d.Info, " | ")
}

// ParseModuleRules reads the "Module Rules" table and the overview table of
// a module detail page.
func ParseModuleRules(r io.Reader) (ModuleDetail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ModuleDetail{}, fmt.Errorf("parsing module detail: %w", err)
	}

	var d ModuleDetail
	tables := doc.Find("table.sv-table")
	tables.EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if strings.TrimSpace(t.Find("caption").First().Text()) != "Module Rules" {
			return true
		}
		d.Rules = strings.TrimSpace(t.Find("tbody td").First().Text())
		return false
	})
	d.PrerequisiteCodes = PrerequisiteCodes(d.Rules)

	tables.First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		key := strings.ReplaceAll(strings.TrimSpace(cells.Eq(0).Text()), ":", "")
		if studentKeys[key] {
			return
		}
		d.Info = append(d.Info, key+": "+strings.TrimSpace(cells.Eq(1).Text()))
	})
	return d, nil
}

// PrerequisiteCodes returns every module code mentioned in rule text, in
// order of first appearance.
func PrerequisiteCodes(rules string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, code := range prereqCodeRe.FindAllString(rules, -1) {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}
