package models

import (
	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// SessionResponse is returned after a session is created.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name,omitempty"`
	// Exclusions surfaces the rows left out of the assembled model so
	// callers can audit silent skips.
	Exclusions     []grid.Exclusion `json:"exclusions,omitempty"`
	ExclusionCount int              `json:"exclusion_count"`
	BusCount       int              `json:"bus_count"`
	LineCount      int              `json:"line_count"`
	Links          SessionLinks     `json:"links"`
}

// SessionLinks points at the session's sub-resources.
type SessionLinks struct {
	Run       string `json:"run"`
	Aggregate string `json:"aggregate"`
	Network   string `json:"network"`
}

// RunResponse carries the outcome of one day run.
type RunResponse struct {
	Status    string                 `json:"status"`
	Aggregate *model.DailyAggregate  `json:"aggregate"`
	Gaps      []string               `json:"gaps,omitempty"`
	Snapshots []model.HourlySnapshot `json:"snapshots,omitempty"`
}

// ArchetypeListResponse lists the named shapes available to sessions.
type ArchetypeListResponse struct {
	Load       []ArchetypeInfo `json:"load"`
	Generation []ArchetypeInfo `json:"generation"`
}

// ArchetypeInfo describes one named shape.
type ArchetypeInfo struct {
	Name  string    `json:"name"`
	Shape []float64 `json:"shape"`
}

// ErrorResponse is the error envelope every handler uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds the envelope in one line at call sites.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
