package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
	"github.com/CBirkbeck/modulechoices/internal/planner"
)

// CatalogueLoader produces the catalogue the index is built from.
type CatalogueLoader func(ctx context.Context) (*catalogue.File, error)

// FileLoader loads the catalogue JSON at path.
func FileLoader(path string) CatalogueLoader {
	return func(context.Context) (*catalogue.File, error) {
		f, err := catalogue.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading catalogue %s: %w", path, err)
		}
		return f, nil
	}
}

// StaticLoader always returns f.
func StaticLoader(f *catalogue.File) CatalogueLoader {
	return func(context.Context) (*catalogue.File, error) {
		return f, nil
	}
}

// plannerService owns the catalogue, the index built from it and the
// selection state. One mutex serialises every operation; the index pointer
// is only swapped after a complete build.
type plannerService struct {
	mu       sync.Mutex
	load     CatalogueLoader
	engine   *planner.Engine
	file     *catalogue.File
	idx      *index.Index
	state    *domain.SelectionState
	observer UseCaseObserver
}

// NewPlannerService loads the catalogue and builds the index for entry. A
// zero entry picks the latest snapshot in the catalogue.
func NewPlannerService(ctx context.Context, load CatalogueLoader, engine *planner.Engine, entry calendar.AcademicYear, observers ...UseCaseObserver) (PlannerService, error) {
	s := &plannerService{
		load:     load,
		engine:   engine,
		observer: useCaseObserverOrNoop(observers),
	}
	f, err := s.loadCatalogue(ctx)
	if err != nil {
		return nil, err
	}
	if entry == 0 {
		entry = latestSnapshot(f)
	}
	s.file = f
	s.idx = index.Build(f, entry)
	s.state = domain.NewSelectionState(entry.Start())
	return s, nil
}

func (s *plannerService) loadCatalogue(ctx context.Context) (*catalogue.File, error) {
	f, err := s.load(ctx)
	if err != nil {
		return nil, &contract.PlannerError{Code: contract.PlannerErrNoCatalogue, Message: err.Error()}
	}
	return f, nil
}

func latestSnapshot(f *catalogue.File) calendar.AcademicYear {
	snaps := calendar.NewResolver(f.SnapshotKeys()).Snapshots()
	if len(snaps) == 0 {
		return calendar.AcademicYear(time.Now().UTC().Year())
	}
	return snaps[len(snaps)-1]
}

func (s *plannerService) Select(ctx context.Context, ref string) (*contract.SelectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	fields := map[string]any{"ref": ref}

	uid := ref
	if o, ok := s.idx.Lookup(ref); ok {
		uid = o.UID
	}
	res := s.engine.Select(s.idx, s.state, uid)
	fields["uid"] = uid
	fields["accepted"] = res.Verdict.Accepted
	if !res.Verdict.Accepted {
		fields["check"] = string(res.Verdict.Check)
	}
	s.observe(ctx, "select", startedAt, fields, nil)

	if !res.AutoSelect.Empty() {
		s.observe(ctx, "auto_select", startedAt, map[string]any{
			"uid":      uid,
			"selected": len(res.AutoSelect.SelectedUIDs),
			"failed":   len(res.AutoSelect.Failed),
		}, nil)
	}
	return &res, nil
}

func (s *plannerService) Deselect(ctx context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	uid := s.selectedUID(ref)
	removed := s.engine.Deselect(s.state, uid)
	s.observe(ctx, "deselect", startedAt, map[string]any{"uid": uid, "removed": removed}, nil)
	return removed, nil
}

// selectedUID maps a bare code to the selected offering of that code, in
// program-year order. Full uids and unselected codes come back unchanged.
func (s *plannerService) selectedUID(ref string) string {
	if s.state.Has(ref) {
		return ref
	}
	for _, o := range s.idx.ByCode(ref) {
		if s.state.Has(o.UID) {
			return o.UID
		}
	}
	return ref
}

func (s *plannerService) GetStatus(_ context.Context, req contract.StatusRequest) (*contract.StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return planner.Report(s.idx, s.state, s.engine.Limits, req), nil
}

func (s *plannerService) Rebuild(ctx context.Context, req contract.RebuildRequest) (*contract.RebuildResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx, req)
}

func (s *plannerService) rebuildLocked(ctx context.Context, req contract.RebuildRequest) (resp *contract.RebuildResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entry_year": req.EntryYear, "reload": req.Reload}
	defer func() { s.observe(ctx, "rebuild", startedAt, fields, err) }()

	entry := s.idx.Entry()
	if req.EntryYear != "" {
		entry, err = calendar.ParseAcademicYear(req.EntryYear)
		if err != nil {
			return nil, &contract.PlannerError{Code: contract.PlannerErrInvalidEntryYear, Message: err.Error()}
		}
	}

	f := s.file
	if req.Reload {
		f, err = s.loadCatalogue(ctx)
		if err != nil {
			return nil, err
		}
	}

	idx := index.Build(f, entry)
	s.file = f
	s.idx = idx
	s.state.EntryYear = entry.Start()

	resp = &contract.RebuildResponse{
		EntryYear: entry.Key(),
		Offerings: idx.Len(),
		Skipped:   idx.Skipped(),
		Ghosts:    idx.Ghosts(),
		Orphaned:  planner.Orphans(idx, s.state),
	}
	for _, o := range idx.Offerings() {
		if o.Visible {
			resp.Visible++
		}
	}
	fields["offerings"] = resp.Offerings
	fields["visible"] = resp.Visible
	fields["orphaned"] = len(resp.Orphaned)
	return resp, nil
}

func (s *plannerService) Restore(ctx context.Context, entryYear int, uids []string) (*contract.RebuildResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = domain.NewSelectionState(entryYear, uids...)
	resp, err := s.rebuildLocked(ctx, contract.NewRebuildRequest(calendar.AcademicYear(entryYear).Key()))
	if err != nil {
		s.state = prev
		return nil, err
	}
	return resp, nil
}

func (s *plannerService) Offerings(_ context.Context, programYear int) ([]*domain.Offering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Offering
	for _, o := range s.idx.Offerings() {
		if !o.Visible || (programYear != 0 && o.ProgramYear != programYear) {
			continue
		}
		out = append(out, o)
	}
	planner.CanonicalSort(out)
	return out, nil
}

func (s *plannerService) Offering(_ context.Context, ref string) (*domain.Offering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.idx.Lookup(ref)
	if !ok {
		return nil, &contract.PlannerError{
			Code:    contract.PlannerErrUnknownOffering,
			Message: fmt.Sprintf("no offering %q", ref),
		}
	}
	return o, nil
}

func (s *plannerService) Ghosts(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Ghosts(), nil
}

func (s *plannerService) Selection() *domain.SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *plannerService) EntryYear() calendar.AcademicYear {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Entry()
}

func (s *plannerService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
