package main

import (
	"github.com/lunary-ai/checklogic/checks"
	"github.com/lunary-ai/checklogic/evaluate"
	"github.com/lunary-ai/checklogic/internal/logger"
	"github.com/lunary-ai/checklogic/views"
)

// API request and response models

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
	Checks int    `json:"checks" example:"17"`
	Store  string `json:"store" example:"postgres"`
	Error  string `json:"error,omitempty"`
}

// MetricsResponse holds the logger counters and the size of the program cache
type MetricsResponse struct {
	logger.Metrics
	CachedPrograms int `json:"cachedPrograms" example:"3"`
}

// ChecksResponse lists the checks available in a context
type ChecksResponse struct {
	Checks []checks.CheckInfo `json:"checks"`
}

// SerializeRequest represents the request body for encoding a tree
type SerializeRequest struct {
	Logic  checks.Group `json:"logic"`
	Tagged bool         `json:"tagged,omitempty"`
}

// FiltersResponse carries the wire form of a tree
type FiltersResponse struct {
	Filters string `json:"filters" example:"type=llm&cost=gte.0%2E5"`
}

// LogicResponse carries the JSON form of a tree
type LogicResponse struct {
	Logic checks.Group `json:"logic"`
}

// EvaluateRequest represents the request body for evaluating a tree.
// Logic takes precedence over Filters when both are set.
type EvaluateRequest struct {
	Filters string         `json:"filters,omitempty" example:"status=error"`
	Logic   *checks.Group  `json:"logic,omitempty"`
	Run     map[string]any `json:"run"`
}

// EvaluateResponse represents the outcome of an evaluation
type EvaluateResponse struct {
	*evaluate.Result
	EvaluationTime string `json:"evaluationTime" example:"120µs"`
}

// ViewsListResponse represents the response for listing views
type ViewsListResponse struct {
	Views []*views.View `json:"views"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"view not found"`
	Details string `json:"details,omitempty"`
}
