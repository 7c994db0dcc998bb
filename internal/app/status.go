package app

import "github.com/CBirkbeck/modulechoices/internal/domain"

type StatusRequest struct {
	// ProgramYear limits the report to one year of study; 0 means all.
	ProgramYear    int
	IncludeOrphans bool
}

func NewStatusRequest() StatusRequest {
	return StatusRequest{IncludeOrphans: true}
}

// BucketLoad is the selected credit total in one section bucket.
type BucketLoad struct {
	Section domain.SectionKey
	Credits int
	Range   *domain.CreditRange
	Under   bool
	Over    bool
}

// YearLoad summarises one year of study. Semester totals can be fractional
// because full-year modules count half in each.
type YearLoad struct {
	ProgramYear    int
	CalendarYear   string
	ResolvedYear   string
	Credits        int
	AnnualMax      int
	Semester1      float64
	Semester2      float64
	SemesterMax    int
	SemesterCapped bool
	Buckets        []BucketLoad
	Offerings      []SelectedOffering
}

type StatusResponse struct {
	EntryYear string
	Years     []YearLoad
	Orphaned  []string
	Ghosts    []string
	Warnings  []string
}
