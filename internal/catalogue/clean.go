package catalogue

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	studentIDRe     = regexp.MustCompile(`:?\s*\d{9}/\d`)
	emailRe         = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	blankRunRe      = regexp.MustCompile(`\n\s*\n\s*\n+`)
	moduleHeaderRe  = regexp.MustCompile(`^[A-Z]{3,5}-?\d{4}[A-Z]?\s*-\s*[A-Z]{2,4}\s*-\s*.+$`)
	tableCodeRe     = regexp.MustCompile(`^\s*:?\s*Code:`)
	tableStudentRe  = regexp.MustCompile(`^\s*:?\s*\d{6,}`)
	tableSeqRe      = regexp.MustCompile(`^Seq:`)
	boilerplateList = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Additional Module Details\s*\n?\s*Email me the additional details\.?`),
		regexp.MustCompile(`(?i)Email me the additional details\.?`),
		regexp.MustCompile(`(?is)Email me exported data updated!!!.*$`),
		regexp.MustCompile(`(?i)Click here to create an email to students on this module\.?`),
		regexp.MustCompile(`(?i)Total Enrolled Students:\s*\d+`),
		regexp.MustCompile(`(?i)Logged In:.*?(?:Logout\)|$)`),
		regexp.MustCompile(`(?s)Pick an account.*?Signed in`),
	}
)

// Cleaner strips personal data and portal boilerplate from scraped text.
// Personal holds extra patterns for known names or usernames.
type Cleaner struct {
	Personal []*regexp.Regexp
}

// NewCleaner compiles the extra personal-data patterns, matched
// case-insensitively.
func NewCleaner(personal []string) (*Cleaner, error) {
	c := &Cleaner{}
	for _, p := range personal {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling personal pattern %q: %w", p, err)
		}
		c.Personal = append(c.Personal, re)
	}
	return c, nil
}

// CleanText removes student IDs, emails, personal patterns and boilerplate,
// then collapses runs of blank lines.
func (c *Cleaner) CleanText(text string) string {
	text = studentIDRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	for _, re := range c.Personal {
		text = re.ReplaceAllString(text, "")
	}
	for _, re := range boilerplateList {
		text = re.ReplaceAllString(text, "")
	}
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// CleanModule scrubs a module row in place. "Students" sections and
// module-header sections (which name staff) are dropped entirely, and
// sections left empty after cleaning are removed.
func (c *Cleaner) CleanModule(m *Module) {
	for key, text := range m.ContentSections {
		if key == "Students" || moduleHeaderRe.MatchString(key) {
			delete(m.ContentSections, key)
			continue
		}
		cleaned := c.CleanText(text)
		if cleaned == "" {
			delete(m.ContentSections, key)
			continue
		}
		m.ContentSections[key] = cleaned
	}

	m.Description = c.CleanText(m.Description)
	m.Notes = c.CleanText(m.Notes)
	for i, r := range m.ModuleRules {
		m.ModuleRules[i] = c.CleanText(r)
	}
	if m.TableInfo != "" {
		m.TableInfo = c.CleanText(CleanTableInfo(m.TableInfo))
	}
	m.FullDetailText = ""
}

// CleanFile scrubs every module and returns how many were cleaned.
func (c *Cleaner) CleanFile(f *File) int {
	for i := range f.Modules {
		c.CleanModule(&f.Modules[i])
	}
	return len(f.Modules)
}

// CleanTableInfo keeps the module overview parts of a " | " joined table
// dump, stopping at the first student row.
func CleanTableInfo(info string) string {
	if info == "" {
		return ""
	}
	var keep []string
	for _, part := range strings.Split(info, " | ") {
		part = strings.TrimSpace(part)
		if tableCodeRe.MatchString(part) || tableStudentRe.MatchString(part) {
			break
		}
		if strings.Contains(part, "Module Organiser") || strings.Contains(part, "Actual (Target)") || tableSeqRe.MatchString(part) {
			continue
		}
		keep = append(keep, part)
	}
	return strings.Join(keep, " | ")
}
