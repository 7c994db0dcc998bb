package contract

import "github.com/CBirkbeck/modulechoices/internal/app"

type CheckName = app.CheckName

const (
	CheckUnknown        CheckName = app.CheckUnknown
	CheckNotOffered     CheckName = app.CheckNotOffered
	CheckExclusion      CheckName = app.CheckExclusion
	CheckCrossRange     CheckName = app.CheckCrossRange
	CheckSectionCredits CheckName = app.CheckSectionCredits
	CheckSemesterLoad   CheckName = app.CheckSemesterLoad
	CheckAnnualLoad     CheckName = app.CheckAnnualLoad
)

type Verdict = app.Verdict

func Accepted(uid string) Verdict {
	return app.Accepted(uid)
}

func Rejected(uid string, check CheckName, detail, message string) Verdict {
	return app.Rejected(uid, check, detail, message)
}

type FailedPrereq = app.FailedPrereq

type AutoSelectResult = app.AutoSelectResult

type SelectResult = app.SelectResult

type SelectedOffering = app.SelectedOffering

type PlannerErrorCode = app.PlannerErrorCode

const (
	PlannerErrUnknownOffering  PlannerErrorCode = app.PlannerErrUnknownOffering
	PlannerErrInvalidEntryYear PlannerErrorCode = app.PlannerErrInvalidEntryYear
	PlannerErrNoCatalogue      PlannerErrorCode = app.PlannerErrNoCatalogue
)

type PlannerError = app.PlannerError
