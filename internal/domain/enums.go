package domain

type RuleKind string

const (
	RuleHardPrereq  RuleKind = "hard_prereq"
	RuleSoftPrereq  RuleKind = "soft_prereq"
	RuleCorequisite RuleKind = "corequisite"
	RuleExclusion   RuleKind = "exclusion"
)

type Period string

const (
	PeriodFirstTerm  Period = "first-term"
	PeriodSecondTerm Period = "second-term"
	PeriodFullYear   Period = "full-year"
	PeriodUnknown    Period = "unknown"
)

type SectionKey string

const (
	SectionCompulsory SectionKey = "Compulsory"
	SectionCore       SectionKey = "Core"
	SectionRangeA     SectionKey = "Range A"
	SectionRangeB     SectionKey = "Range B"
	SectionRangeC     SectionKey = "Range C"
)

// MinProgramYear and MaxProgramYear bound the nominal years of study.
const (
	MinProgramYear = 1
	MaxProgramYear = 4
)

// ValidProgramYear reports whether y is a year of study the catalogue can hold.
func ValidProgramYear(y int) bool {
	return y >= MinProgramYear && y <= MaxProgramYear
}
