// Package httpapi serves the planner over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes one planner. Metrics may be nil.
type Server struct {
	Planner  service.PlannerService
	Metrics  *Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.Metrics != nil {
		r.Use(s.Metrics.middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/offerings", s.listOfferings)
	r.Get("/offerings/{uid}", s.getOffering)
	r.Get("/ghosts", s.listGhosts)
	r.Get("/selection", s.getSelection)
	r.Put("/selection/{uid}", s.selectOffering)
	r.Delete("/selection/{uid}", s.deselectOffering)
	r.Put("/entry/{year}", s.setEntry)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if s.Logger == nil || r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			return
		}
		s.Logger.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type offeringJSON struct {
	UID            string            `json:"uid"`
	Code           string            `json:"code"`
	Description    string            `json:"description"`
	Credits        int               `json:"credits"`
	Period         string            `json:"period"`
	ProgramYear    int               `json:"program_year"`
	Section        string            `json:"section"`
	SectionRange   string            `json:"section_range,omitempty"`
	Visible        bool              `json:"visible"`
	ResolvedYear   string            `json:"resolved_year"`
	Rules          []string          `json:"rules,omitempty"`
	Dependents     []string          `json:"dependents,omitempty"`
	ExclusionPeers []string          `json:"exclusion_peers,omitempty"`
	Sections       map[string]string `json:"content_sections,omitempty"`
}

func toOfferingJSON(o *domain.Offering, detail bool) offeringJSON {
	v := offeringJSON{
		UID:          o.UID,
		Code:         o.Code,
		Description:  o.Description,
		Credits:      o.Credits,
		Period:       string(o.Period),
		ProgramYear:  o.ProgramYear,
		Section:      string(o.SectionKey),
		Visible:      o.Visible,
		ResolvedYear: o.ResolvedYear,
	}
	if o.SectionRange != nil {
		v.SectionRange = o.SectionRange.String()
	}
	if detail {
		v.Rules = o.RawRuleText
		v.Dependents = o.Dependents
		v.ExclusionPeers = o.ExclusionPeers
		v.Sections = o.ContentSections
	}
	return v
}

func (s *Server) listOfferings(w http.ResponseWriter, r *http.Request) {
	year := 0
	if q := r.URL.Query().Get("year"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < domain.MinProgramYear || n > domain.MaxProgramYear {
			writeError(w, http.StatusBadRequest, "BAD_YEAR", "year must be a year of study")
			return
		}
		year = n
	}
	offs, err := s.Planner.Offerings(r.Context(), year)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]offeringJSON, 0, len(offs))
	for _, o := range offs {
		out = append(out, toOfferingJSON(o, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getOffering(w http.ResponseWriter, r *http.Request) {
	o, err := s.Planner.Offering(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOfferingJSON(o, true))
}

func (s *Server) listGhosts(w http.ResponseWriter, r *http.Request) {
	ghosts, err := s.Planner.Ghosts(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if ghosts == nil {
		ghosts = []string{}
	}
	writeJSON(w, http.StatusOK, ghosts)
}

type selectionJSON struct {
	EntryYear string                   `json:"entry_year"`
	UIDs      []string                 `json:"uids"`
	Status    *contract.StatusResponse `json:"status"`
}

func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	status, err := s.Planner.GetStatus(r.Context(), contract.NewStatusRequest())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionJSON{
		EntryYear: status.EntryYear,
		UIDs:      s.Planner.Selection().UIDs(),
		Status:    status,
	})
}

type verdictJSON struct {
	UID      string `json:"uid"`
	Accepted bool   `json:"accepted"`
	Check    string `json:"check,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

type failedJSON struct {
	Code   string `json:"code"`
	UID    string `json:"uid,omitempty"`
	Reason string `json:"reason"`
}

type selectJSON struct {
	Verdict      verdictJSON  `json:"verdict"`
	AutoSelected []string     `json:"auto_selected"`
	Failed       []failedJSON `json:"failed"`
}

func (s *Server) selectOffering(w http.ResponseWriter, r *http.Request) {
	res, err := s.Planner.Select(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		s.fail(w, err)
		return
	}
	out := selectJSON{
		Verdict: verdictJSON{
			UID:      res.Verdict.UID,
			Accepted: res.Verdict.Accepted,
			Check:    string(res.Verdict.Check),
			Reason:   res.Verdict.Reason,
			Message:  res.Verdict.Message,
		},
		AutoSelected: append([]string{}, res.AutoSelect.SelectedUIDs...),
		Failed:       []failedJSON{},
	}
	for _, f := range res.AutoSelect.Failed {
		out.Failed = append(out.Failed, failedJSON{Code: f.Code, UID: f.UID, Reason: f.Reason})
	}

	status := http.StatusOK
	switch {
	case res.Verdict.Check == contract.CheckUnknown:
		status = http.StatusNotFound
	case !res.Verdict.Accepted:
		status = http.StatusConflict
	}
	writeJSON(w, status, out)
}

func (s *Server) deselectOffering(w http.ResponseWriter, r *http.Request) {
	removed, err := s.Planner.Deselect(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

type rebuildJSON struct {
	EntryYear string   `json:"entry_year"`
	Offerings int      `json:"offerings"`
	Visible   int      `json:"visible"`
	Skipped   int      `json:"skipped"`
	Ghosts    []string `json:"ghosts"`
	Orphaned  []string `json:"orphaned"`
}

// setEntry rebuilds for a new cohort. The path takes "2025", "2025-26" or
// "2025_6" since a slash cannot appear in one segment.
func (s *Server) setEntry(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Planner.Rebuild(r.Context(), contract.NewRebuildRequest(chi.URLParam(r, "year")))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rebuildJSON{
		EntryYear: resp.EntryYear,
		Offerings: resp.Offerings,
		Visible:   resp.Visible,
		Skipped:   resp.Skipped,
		Ghosts:    nonNil(resp.Ghosts),
		Orphaned:  nonNil(resp.Orphaned),
	})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var pe *contract.PlannerError
	if errors.As(err, &pe) {
		switch pe.Code {
		case contract.PlannerErrUnknownOffering:
			writeError(w, http.StatusNotFound, string(pe.Code), pe.Message)
		case contract.PlannerErrInvalidEntryYear:
			writeError(w, http.StatusBadRequest, string(pe.Code), pe.Message)
		default:
			writeError(w, http.StatusServiceUnavailable, string(pe.Code), pe.Message)
		}
		return
	}
	if s.Logger != nil {
		s.Logger.Error("request failed", "error", err)
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL", strings.TrimSpace(err.Error()))
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
