package catalogue

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/domain"
)

// File is the top-level JSON structure of a catalogue. Per-year snapshot
// files set AcademicYear; combined files set AcademicYears.
type File struct {
	Course        string   `json:"course,omitempty"`
	School        string   `json:"school,omitempty"`
	AcademicYear  string   `json:"academic_year,omitempty"`
	AcademicYears []string `json:"academic_years,omitempty"`
	ScrapedAt     string   `json:"scraped_at,omitempty"`
	Modules       []Module `json:"modules"`
}

// Module is one raw catalogue row for one year of study.
type Module struct {
	ModuleCode        string            `json:"module_code,omitempty"`
	Code              string            `json:"code,omitempty"`
	Description       string            `json:"description"`
	Assessment        string            `json:"assessment,omitempty"`
	Credits           FlexInt           `json:"credits"`
	Period            string            `json:"period,omitempty"`
	SubSlot           string            `json:"sub_slot,omitempty"`
	Year              YearLabel         `json:"year"`
	Section           string            `json:"section,omitempty"`
	CreditRule        string            `json:"credit_rule,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	AvailableYears    []string          `json:"available_years,omitempty"`
	Discontinued      bool              `json:"discontinued,omitempty"`
	ModuleRules       Texts             `json:"module_rules,omitempty"`
	RulesByYear       map[string]Texts  `json:"rules_by_year,omitempty"`
	PrerequisiteCodes []string          `json:"prerequisite_codes,omitempty"`
	ContentSections   map[string]string `json:"content_sections,omitempty"`
	TableInfo         string            `json:"table_info,omitempty"`
	FullDetailText    string            `json:"full_detail_text,omitempty"`
}

// CodeValue returns the module code from whichever field carries it.
func (m *Module) CodeValue() string {
	return strings.TrimSpace(domain.CoalesceStr(m.ModuleCode, m.Code))
}

// Texts holds rule text that may be encoded as a string or a list of strings.
type Texts []string

func (t *Texts) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if strings.TrimSpace(one) == "" {
			*t = nil
		} else {
			*t = Texts{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("rule text must be a string or list of strings: %w", err)
	}
	*t = many
	return nil
}

func (t Texts) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Equal reports whether two rule texts say the same thing.
func (t Texts) Equal(o Texts) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// FlexInt decodes integers that scraped data sometimes stores as strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*n = FlexInt(i)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", s)
	}
	*n = FlexInt(int(f))
	return nil
}

// YearLabel is the year-of-study label, e.g. "Year 2U". Bare numbers are
// accepted and kept as their decimal text.
type YearLabel string

func (y *YearLabel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = YearLabel(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a label or number: %w", err)
	}
	*y = YearLabel(strconv.Itoa(n))
	return nil
}

// Number extracts the year of study from the label, or 0 when absent.
func (y YearLabel) Number() int {
	for _, r := range string(y) {
		if r >= '0' && r <= '9' {
			return int(r - '0')
		}
	}
	return 0
}

// LoadFile reads and parses a catalogue JSON file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses catalogue JSON.
func Decode(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}
	return &f, nil
}

// WriteFile writes f as indented JSON.
func WriteFile(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalogue: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalogue: %w", err)
	}
	return nil
}

// SnapshotKeys returns the academic years the file holds data for. Combined
// files list them explicitly; otherwise they are gathered from the modules.
func (f *File) SnapshotKeys() []string {
	if len(f.AcademicYears) > 0 {
		return append([]string(nil), f.AcademicYears...)
	}
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(f.AcademicYear)
	for _, m := range f.Modules {
		for _, y := range m.AvailableYears {
			add(y)
		}
	}
	sort.Strings(keys)
	return keys
}
