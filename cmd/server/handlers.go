package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lunary-ai/checklogic/checks"
	"github.com/lunary-ai/checklogic/internal/config"
	"github.com/lunary-ai/checklogic/internal/logger"
	"github.com/lunary-ai/checklogic/views"
)

// ownerHeader names the user creating a view. Authentication happens upstream.
const ownerHeader = "X-User-Id"

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "healthy",
		Checks: len(s.registry.Checks()),
		Store:  config.StoreMemory,
	}

	if s.db != nil {
		response.Store = config.StorePostgres
		if err := s.db.PingContext(r.Context()); err != nil {
			response.Status = "unhealthy"
			response.Error = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, response)
			return
		}
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MetricsResponse{
		Metrics:        logger.Snapshot(),
		CachedPrograms: s.evaluator.CachedPrograms(),
	})
}

// List checks handler. The context query picks filters (default) or evals;
// projectId scopes the option locators of dynamic selects.
func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	contextType := r.URL.Query().Get("context")

	var list []checks.Check
	switch contextType {
	case "", "filters":
		contextType = "filters"
		list = s.registry.ForFilters()
	case "evals":
		list = s.registry.ForEvals()
	default:
		respondError(w, http.StatusBadRequest, "context must be filters or evals", nil)
		return
	}

	projectID := r.URL.Query().Get("projectId")
	respondJSON(w, http.StatusOK, ChecksResponse{
		Checks: checks.DescribeAll(list, projectID, contextType),
	})
}

// Serialize handler
func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	var req SerializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	codec := s.codec
	if req.Tagged {
		codec = s.tagged
	}

	respondJSON(w, http.StatusOK, FiltersResponse{Filters: codec.Serialize(req.Logic)})
}

// Deserialize handler. Tagged and positional segments are both accepted.
func (s *Server) handleDeserialize(w http.ResponseWriter, r *http.Request) {
	filters := r.URL.Query().Get("filters")
	respondJSON(w, http.StatusOK, LogicResponse{Logic: s.codec.Deserialize(filters)})
}

// Evaluation handler
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Run == nil {
		respondError(w, http.StatusBadRequest, "run is required", nil)
		return
	}

	logic := s.codec.Deserialize(req.Filters)
	if req.Logic != nil {
		logic = *req.Logic
	}

	startTime := time.Now()
	result, err := s.evaluator.Evaluate(logic, req.Run)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "evaluation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, EvaluateResponse{
		Result:         result,
		EvaluationTime: time.Since(startTime).String(),
	})
}

// List views handler
func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	list, err := s.views.List(r.Context(), projectID)
	if err != nil {
		respondViewError(w, "failed to list views", err)
		return
	}

	respondJSON(w, http.StatusOK, ViewsListResponse{Views: list})
}

// Create view handler
func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	var in views.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	in.OwnerID = r.Header.Get(ownerHeader)

	view, err := s.views.Create(r.Context(), projectID, in)
	if err != nil {
		respondViewError(w, "failed to create view", err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

// Get view handler
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	viewID, ok := parseViewID(w, r)
	if !ok {
		return
	}

	view, err := s.views.Get(r.Context(), projectID, viewID)
	if err != nil {
		respondViewError(w, "failed to get view", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Update view handler. Only the fields present in the body change.
func (s *Server) handleUpdateView(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	viewID, ok := parseViewID(w, r)
	if !ok {
		return
	}

	var patch views.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := s.views.Update(r.Context(), projectID, viewID, patch)
	if err != nil {
		respondViewError(w, "failed to update view", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Delete view handler
func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	viewID, ok := parseViewID(w, r)
	if !ok {
		return
	}

	if err := s.views.Delete(r.Context(), projectID, viewID); err != nil {
		respondViewError(w, "failed to delete view", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseViewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "viewId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid view id", err)
		return uuid.Nil, false
	}
	return id, true
}

func respondViewError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, views.ErrViewNotFound):
		respondError(w, http.StatusNotFound, "view not found", err)
	case errors.Is(err, views.ErrViewExists):
		respondError(w, http.StatusConflict, "view already exists", err)
	case errors.Is(err, views.ErrInvalidView):
		respondError(w, http.StatusBadRequest, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}
