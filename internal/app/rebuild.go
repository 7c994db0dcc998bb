package app

// RebuildRequest switches the entry cohort or reloads the catalogue. An
// empty EntryYear keeps the current cohort.
type RebuildRequest struct {
	EntryYear string
	Reload    bool
}

func NewRebuildRequest(entryYear string) RebuildRequest {
	return RebuildRequest{EntryYear: entryYear}
}

type RebuildResponse struct {
	EntryYear string
	Offerings int
	Visible   int
	Skipped   int
	Ghosts    []string
	// Orphaned are selected uids with no visible offering after the rebuild.
	Orphaned []string
}
