package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/catalog"
	"github.com/gcpath/gcpath/pkg/paths"
	"github.com/gcpath/gcpath/pkg/profile"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/storage"
	"github.com/gcpath/gcpath/pkg/waittime"
	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Warnf("Could not encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

type PathsResponse struct {
	SnapshotID string               `json:"snapshot_id,omitempty"`
	AsOf       bulletin.MonthYear   `json:"as_of"`
	Paths      []paths.ComposedPath `json:"paths"`
}

// handlePaths takes a profile and returns its ranked paths. The porting
// query parameter overrides the server's porting policy.
func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts := s.Options
	if v := r.URL.Query().Get("porting"); v != "" {
		policy, ok := paths.ParsePortingPolicy(v)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown porting policy %q", v))
			return
		}
		opts.Porting = policy
	}

	snap, id, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	ps, err := paths.GenerateWithOptions(p, snap, opts)
	if errors.Is(err, profile.ErrInvalidProfile) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.Metrics.AddPaths(len(ps))
	if ps == nil {
		ps = []paths.ComposedPath{}
	}
	writeJSON(w, http.StatusOK, PathsResponse{SnapshotID: id, AsOf: snap.AsOfMonth(), Paths: ps})
}

type WaitRequest struct {
	PriorityDate bulletin.MonthYear `json:"priority_date"`
	Category     bulletin.Category  `json:"category"`
	Country      profile.Country    `json:"country"`
	Chart        bulletin.ChartKind `json:"chart,omitempty"`
}

type WaitResponse struct {
	Chart    bulletin.ChartKind `json:"chart"`
	Cutoff   string             `json:"cutoff"`
	Estimate waittime.Estimate  `json:"estimate"`
}

func (s *Server) handleWait(w http.ResponseWriter, r *http.Request) {
	var req WaitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Chart == "" {
		req.Chart = bulletin.FinalAction
	}
	switch {
	case req.PriorityDate.IsZero():
		writeError(w, http.StatusBadRequest, errors.New("priority_date is required"))
		return
	case !req.Category.Valid():
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", req.Category))
		return
	case !req.Country.Valid():
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown country %q", req.Country))
		return
	case req.Chart != bulletin.FinalAction && req.Chart != bulletin.DatesForFiling:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown chart %q", req.Chart))
		return
	}

	snap, _, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	cutoff := snap.Cutoff(req.Chart, req.Category, req.Country.Chargeability())
	est := s.Options.WaitModel().Calculate(req.PriorityDate, cutoff, req.Country, req.Category)
	writeJSON(w, http.StatusOK, WaitResponse{Chart: req.Chart, Cutoff: cutoff, Estimate: est})
}

type SnapshotResponse struct {
	ID       string             `json:"id,omitempty"`
	BuiltIn  bool               `json:"built_in"`
	Snapshot *snapshot.Snapshot `json:"snapshot"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, id, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, SnapshotResponse{ID: id, BuiltIn: snap == nil, Snapshot: snapshot.OrDefault(snap)})
}

type CatalogResponse struct {
	Stages      []catalog.StageInfo  `json:"stages"`
	StatusPaths []catalog.StatusPath `json:"status_paths"`
	Methods     []catalog.GCMethod   `json:"methods"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		Stages:      catalog.Stages(),
		StatusPaths: catalog.StatusPaths(),
		Methods:     catalog.GCMethods(),
	})
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("bad limit %q", v))
			return
		}
		limit = n
	}
	if s.DB == nil {
		writeJSON(w, http.StatusOK, []storage.Change{})
		return
	}
	changes, err := s.DB.ListRecentChanges(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}
