package domain

import "fmt"

// CreditRange is the allowed credit total for one section bucket.
type CreditRange struct {
	Min int
	Max int
}

func (r CreditRange) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d credits", r.Max)
	}
	return fmt.Sprintf("%d-%d credits", r.Min, r.Max)
}

// Offering is one module's listing for one program year.
type Offering struct {
	UID         string
	Code        string
	Description string
	Assessment  string
	Credits     int
	Period      Period
	ProgramYear int

	SectionLabel string
	SectionKey   SectionKey
	SectionRange *CreditRange
	Notes        string

	AvailableYears []string
	Discontinued   bool

	// Resolved for the current entry cohort.
	Visible      bool
	ResolvedYear string

	RawRuleText []string
	Rules       []RuleClause

	// Derived on every index build.
	Dependents     []string
	ExclusionPeers []string

	ContentSections map[string]string
}

// OfferingUID builds the identifier for a code listed under a program year.
func OfferingUID(code string, programYear int) string {
	return fmt.Sprintf("%s@Y%d", code, programYear)
}

// Bucket identifies the section a module's credits are counted against.
type Bucket struct {
	ProgramYear int
	Section     SectionKey
}

func (o *Offering) Bucket() Bucket {
	return Bucket{ProgramYear: o.ProgramYear, Section: o.SectionKey}
}

// HasExclusionPeer reports whether uid is mutually exclusive with o.
func (o *Offering) HasExclusionPeer(uid string) bool {
	for _, p := range o.ExclusionPeers {
		if p == uid {
			return true
		}
	}
	return false
}

// Level returns the FHEQ level encoded as the first digit of the code,
// or 0 when the code carries none.
func Level(code string) int {
	for _, r := range code {
		if r >= '0' && r <= '9' {
			return int(r - '0')
		}
	}
	return 0
}
