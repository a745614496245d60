package api

import (
	"encoding/json"
	"fmt"

	"github.com/ahrav/go-vignette/internal/application"
	"github.com/ahrav/go-vignette/internal/domain"
)

// ResolveRequest is the body of POST /api/resolve. Definition, Scenarios
// and Decisions are kept raw so they go through the application decoders.
type ResolveRequest struct {
	DefinitionID        string                `json:"definitionId"`
	RunID               string                `json:"runId"`
	Definition          json.RawMessage       `json:"definition" binding:"required"`
	Scenarios           json.RawMessage       `json:"scenarios"`
	PreferredAttributes []string              `json:"preferredAttributes"`
	RequestedAxes       *domain.AxisSelection `json:"requestedAxes"`
	Decisions           json.RawMessage       `json:"decisions"`
}

// BatchResolveRequest is the body of POST /api/resolve/batch.
type BatchResolveRequest struct {
	Items []ResolveRequest `json:"items" binding:"required,min=1,max=500,dive"`
}

// BatchResolveResponse lists results in request order.
type BatchResolveResponse struct {
	Items []application.Result `json:"items"`
	Total int                  `json:"total"`
}

// LintRequest is the body of POST /api/lint.
type LintRequest struct {
	Definition json.RawMessage `json:"definition" binding:"required"`
}

// LintResponse lists the warnings for a definition.
type LintResponse struct {
	Warnings []domain.Warning `json:"warnings"`
	Total    int              `json:"total"`
}

// ToApplication decodes the raw payloads into an application.Request.
func (r ResolveRequest) ToApplication() (application.Request, error) {
	content, err := application.DecodeDefinitionContent([]byte(r.Definition))
	if err != nil {
		return application.Request{}, err
	}

	var scenarios domain.ScenarioRecords
	if len(r.Scenarios) > 0 && string(r.Scenarios) != "null" {
		scenarios, err = application.DecodeScenarioRecords([]byte(r.Scenarios))
		if err != nil {
			return application.Request{}, err
		}
	}

	var decisions domain.DecisionRecords
	if len(r.Decisions) > 0 && string(r.Decisions) != "null" {
		decisions, err = application.DecodeDecisionRecords([]byte(r.Decisions))
		if err != nil {
			return application.Request{}, err
		}
	}

	return application.Request{
		DefinitionID:        r.DefinitionID,
		RunID:               r.RunID,
		Definition:          content,
		Scenarios:           scenarios,
		PreferredAttributes: r.PreferredAttributes,
		RequestedAxes:       r.RequestedAxes,
		Decisions:           decisions,
	}, nil
}

func toApplicationBatch(items []ResolveRequest) ([]application.Request, error) {
	reqs := make([]application.Request, 0, len(items))
	for i, item := range items {
		req, err := item.ToApplication()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
