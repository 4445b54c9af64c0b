package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/errors"
	"github.com/plotforge/barchart/pkg/pipeline"
	"github.com/plotforge/barchart/pkg/views"
)

// chartRequest is the body of plan and render requests. A view name, when
// given, loads a saved configuration; explicit options override nothing in
// that case and are ignored.
type chartRequest struct {
	Dataset *dataset.Dataset `json:"dataset"`
	Options pipeline.Options `json:"options"`
	View    string           `json:"view,omitempty"`
}

// planResponse wraps the plan document with pipeline metadata.
type planResponse struct {
	Plan      json.RawMessage    `json:"plan"`
	PlanHash  string             `json:"plan_hash"`
	Entries   any                `json:"entries"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

func (s *Server) decodeChartRequest(w http.ResponseWriter, r *http.Request) (*chartRequest, bool) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return nil, false
	}
	if req.Dataset == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "dataset is required"))
		return nil, false
	}

	if req.View != "" {
		if s.views == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Code: "VIEWS_DISABLED", Message: "no view store configured"})
			return nil, false
		}
		v, err := s.views.Get(r.Context(), req.View)
		if err != nil {
			writeError(w, err)
			return nil, false
		}
		req.Options = v.Config
	}
	return &req, true
}

// handlePlan computes and returns the draw plan without rendering it.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChartRequest(w, r)
	if !ok {
		return
	}

	req.Options.Formats = []string{pipeline.FormatJSON}
	result, err := s.execute(r, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, planResponse{
		Plan:      result.Artifacts[pipeline.FormatJSON],
		PlanHash:  result.PlanHash,
		Entries:   result.Entries,
		CacheInfo: result.CacheInfo,
	})
}

var formatContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// handleRender renders the dataset and returns the artifact for the first
// requested format.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChartRequest(w, r)
	if !ok {
		return
	}

	result, err := s.execute(r, req)
	if err != nil {
		writeError(w, err)
		return
	}

	format := req.Options.Formats[0]
	w.Header().Set("Content-Type", formatContentTypes[format])
	w.Header().Set("X-Plan-Hash", result.PlanHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// execute runs the pipeline under the render semaphore.
func (s *Server) execute(r *http.Request, req *chartRequest) (*pipeline.Result, error) {
	ctx := r.Context()
	select {
	case s.renderSem <- struct{}{}:
		defer func() { <-s.renderSem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	req.Options.Logger = s.logger.With("request_id", RequestID(ctx))
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return s.runner.Execute(ctx, req.Dataset, req.Options)
}

// ----------------------------------------------------------------------------
// Views
// ----------------------------------------------------------------------------

type putViewRequest struct {
	Config pipeline.Options `json:"config"`
}

func (s *Server) requireViews(w http.ResponseWriter) bool {
	if s.views == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Code: "VIEWS_DISABLED", Message: "no view store configured"})
		return false
	}
	return true
}

func (s *Server) handlePutView(w http.ResponseWriter, r *http.Request) {
	if !s.requireViews(w) {
		return
	}

	var req putViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if err := req.Config.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	v := views.New(chi.URLParam(r, "name"), req.Config)
	if err := s.views.Put(r.Context(), v); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	if !s.requireViews(w) {
		return
	}
	v, err := s.views.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	if !s.requireViews(w) {
		return
	}
	if err := s.views.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	if !s.requireViews(w) {
		return
	}
	list, err := s.views.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*views.View{}
	}
	writeJSON(w, http.StatusOK, list)
}

// ----------------------------------------------------------------------------
// Responses
// ----------------------------------------------------------------------------

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes onto HTTP statuses: data-contract and option
// errors are the client's fault, missing views are 404, everything else is
// a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeMalformedRow,
		errors.ErrCodeDegenerateSurface,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidSort,
		errors.ErrCodeInvalidColumns,
		errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeViewNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}
