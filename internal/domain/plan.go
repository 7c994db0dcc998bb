package domain

import (
	"errors"
	"strings"
	"time"
)

// Plan is a persisted selection: the chosen uids plus the entry cohort key.
// UIDs keep the order they were saved in.
type Plan struct {
	ID        string
	Name      string
	Course    string
	EntryYear int
	UIDs      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields the plan store relies on.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("plan name is required")
	}
	if p.EntryYear < 1900 || p.EntryYear > 2999 {
		return errors.New("plan entry year out of range")
	}
	return nil
}

// Selection rebuilds the selection state the plan was saved from.
func (p *Plan) Selection() *SelectionState {
	return NewSelectionState(p.EntryYear, p.UIDs...)
}
