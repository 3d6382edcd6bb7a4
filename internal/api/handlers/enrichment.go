package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// EnrichmentHandler handles company enrichment API endpoints
type EnrichmentHandler struct {
	aggregator *enrichment.Aggregator
	snapshots  contracts.SnapshotStore
	logger     *logger.Logger
}

// NewEnrichmentHandler creates a new enrichment handler
func NewEnrichmentHandler(aggregator *enrichment.Aggregator, snapshots contracts.SnapshotStore, log *logger.Logger) *EnrichmentHandler {
	return &EnrichmentHandler{
		aggregator: aggregator,
		snapshots:  snapshots,
		logger:     log,
	}
}

// EnrichRequest is the body of POST /api/v1/companies/enrich
type EnrichRequest struct {
	Domain         string `json:"domain"`
	IncludeContact bool   `json:"include_contact"`
	Persist        bool   `json:"persist"`
}

// EnrichResponse carries the merged snapshot and optional contact
type EnrichResponse struct {
	Company *contracts.CompanySnapshot `json:"company"`
	Contact *contracts.ContactSnapshot `json:"contact,omitempty"`
}

// EnrichCompany enriches one company across all configured providers
// POST /api/v1/companies/enrich
func (h *EnrichmentHandler) EnrichCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Domain == "" {
		respondError(w, http.StatusBadRequest, "domain is required")
		return
	}

	company, err := h.aggregator.EnrichCompany(ctx, req.Domain)
	if err != nil {
		if errors.Is(err, enrichment.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no provider has data for this domain")
			return
		}
		h.logger.WithError(err).WithField("domain", req.Domain).
			Error("Enrichment failed")
		respondError(w, http.StatusInternalServerError, "enrichment failed")
		return
	}

	resp := EnrichResponse{Company: company}

	if req.IncludeContact {
		contact, err := h.aggregator.EnrichContact(ctx, req.Domain)
		if err != nil && !errors.Is(err, enrichment.ErrNotFound) {
			h.logger.WithError(err).WithField("domain", req.Domain).
				Warn("Contact enrichment failed")
		}
		resp.Contact = contact
	}

	if req.Persist {
		if err := h.snapshots.Save(ctx, company); err != nil {
			h.logger.WithError(err).WithField("domain", req.Domain).
				Error("Failed to save snapshot")
			respondError(w, http.StatusInternalServerError, "failed to save snapshot")
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
