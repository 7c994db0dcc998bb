package domain

import "sort"

// SelectionState is the set of chosen offering uids for one entry cohort.
// Engine code receives it explicitly; nothing holds it globally.
type SelectionState struct {
	EntryYear int
	uids      map[string]bool
}

// NewSelectionState creates a state for the cohort that started in entryYear.
func NewSelectionState(entryYear int, uids ...string) *SelectionState {
	s := &SelectionState{EntryYear: entryYear, uids: make(map[string]bool, len(uids))}
	for _, uid := range uids {
		s.uids[uid] = true
	}
	return s
}

func (s *SelectionState) Has(uid string) bool {
	return s.uids[uid]
}

func (s *SelectionState) Add(uid string) {
	if s.uids == nil {
		s.uids = make(map[string]bool)
	}
	s.uids[uid] = true
}

// Remove drops uid from the selection. Removal is always legal.
func (s *SelectionState) Remove(uid string) bool {
	if !s.uids[uid] {
		return false
	}
	delete(s.uids, uid)
	return true
}

func (s *SelectionState) Len() int {
	return len(s.uids)
}

// UIDs returns the selected uids in lexical order.
func (s *SelectionState) UIDs() []string {
	out := make([]string, 0, len(s.uids))
	for uid := range s.uids {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *SelectionState) Clone() *SelectionState {
	return NewSelectionState(s.EntryYear, s.UIDs()...)
}
