package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/msaflow/pkg/buildinfo"
	apperr "github.com/matzehuels/msaflow/pkg/errors"
	"github.com/matzehuels/msaflow/pkg/pipeline"
	"github.com/matzehuels/msaflow/pkg/store"
)

const defaultListLimit = 50

// createRequest is the body of POST /v1/assignments.
type createRequest struct {
	Name       string `json:"name"`
	Network    string `json:"network"`
	Iterations int    `json:"iterations"`
	Trace      bool   `json:"trace"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts := pipeline.Options{
		Name:       req.Name,
		Source:     req.Network,
		Iterations: req.Iterations,
		Trace:      req.Trace,
		Formats:    []string{pipeline.FormatText, pipeline.FormatDOT},
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	run := &store.Run{
		ID:          store.NewID(),
		Name:        res.Summary.Network,
		Iterations:  res.Summary.Iterations,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		NetworkHash: res.NetworkHash,
		Summary:     res.Summary,
		Trace:       res.Trace,
		Report:      string(res.Artifacts[pipeline.FormatText]),
		DOT:         string(res.Artifacts[pipeline.FormatDOT]),
	}
	if err := s.store.Save(r.Context(), run); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored run", "id", run.ID, "name", run.Name, "ue", run.Summary.UE)

	w.Header().Set("Location", "/v1/assignments/"+run.ID)
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}
	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// loadRun fetches the run named by the {id} path parameter, writing the
// error response itself when that fails.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidateRunID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("load run", "id", id, "err", err)
		}
		s.writeError(w, r, err)
		return nil, false
	}
	return run, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if run, ok := s.loadRun(w, r); ok {
		writeJSON(w, http.StatusOK, run)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(run.Report))
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(run.DOT))
}
