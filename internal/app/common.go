package app

import "github.com/CBirkbeck/modulechoices/internal/domain"

// CheckName identifies one validator check. It prefixes structured reasons.
type CheckName string

const (
	CheckUnknown        CheckName = "unknown_offering"
	CheckNotOffered     CheckName = "not_offered"
	CheckExclusion      CheckName = "exclusion"
	CheckCrossRange     CheckName = "cross_range"
	CheckSectionCredits CheckName = "section_credits"
	CheckSemesterLoad   CheckName = "semester_load"
	CheckAnnualLoad     CheckName = "annual_load"
)

// Verdict is the outcome of one attempt to add an offering.
// Reason is structured ("<check>: <detail>"); Message is for people.
type Verdict struct {
	UID      string
	Accepted bool
	Check    CheckName
	Reason   string
	Message  string
}

func Accepted(uid string) Verdict {
	return Verdict{UID: uid, Accepted: true}
}

func Rejected(uid string, check CheckName, detail, message string) Verdict {
	return Verdict{
		UID:     uid,
		Check:   check,
		Reason:  string(check) + ": " + detail,
		Message: message,
	}
}

// FailedPrereq is a prerequisite the closure engine could not commit.
type FailedPrereq struct {
	Code   string
	UID    string
	Reason string
}

// AutoSelectResult reports a closure commit pass. Successes are never
// rolled back when a later candidate fails.
type AutoSelectResult struct {
	Selected     []string
	SelectedUIDs []string
	Failed       []FailedPrereq
}

// Empty reports whether the pass neither selected nor failed anything.
func (r AutoSelectResult) Empty() bool {
	return len(r.Selected) == 0 && len(r.Failed) == 0
}

// SelectResult is a direct selection plus the prerequisites it pulled in.
type SelectResult struct {
	Verdict    Verdict
	AutoSelect AutoSelectResult
}

type SelectedOffering struct {
	UID         string
	Code        string
	Description string
	Credits     int
	ProgramYear int
	Period      domain.Period
	Section     domain.SectionKey
	GhostRefs   []string
}

type PlannerErrorCode string

const (
	PlannerErrUnknownOffering  PlannerErrorCode = "UNKNOWN_OFFERING"
	PlannerErrInvalidEntryYear PlannerErrorCode = "INVALID_ENTRY_YEAR"
	PlannerErrNoCatalogue      PlannerErrorCode = "NO_CATALOGUE"
)

type PlannerError struct {
	Code    PlannerErrorCode
	Message string
}

func (e *PlannerError) Error() string {
	return string(e.Code) + ": " + e.Message
}
