package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/internal/enrichment"
	"github.com/hekax/outreach-intel/internal/signals"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// SignalHandler handles signal detection API endpoints
type SignalHandler struct {
	detector  *signals.Detector
	store     contracts.SignalStore
	snapshots contracts.SnapshotStore
	logger    *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(
	detector *signals.Detector,
	store contracts.SignalStore,
	snapshots contracts.SnapshotStore,
	log *logger.Logger,
) *SignalHandler {
	return &SignalHandler{
		detector:  detector,
		store:     store,
		snapshots: snapshots,
		logger:    log,
	}
}

// DetectRequest is the body of POST /api/v1/signals/detect
type DetectRequest struct {
	Current *contracts.CompanySnapshot `json:"current"`

	// Previous overrides the stored baseline; when absent the latest
	// stored snapshot for the domain is used
	Previous *contracts.CompanySnapshot `json:"previous,omitempty"`

	// LeadID is attached to persisted signals
	LeadID *uuid.UUID `json:"lead_id,omitempty"`

	// Persist stores detected signals and the current snapshot
	Persist bool `json:"persist"`
}

// DetectResponse is the result of a detection run
type DetectResponse struct {
	Domain   string                   `json:"domain"`
	Detected int                      `json:"detected"`
	Saved    int                      `json:"saved,omitempty"`
	Signals  []*contracts.SignalEvent `json:"signals"`
}

// Detect runs signal detection for one company
// POST /api/v1/signals/detect
func (h *SignalHandler) Detect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Current == nil || req.Current.Domain == "" {
		respondError(w, http.StatusBadRequest, "current snapshot with a domain is required")
		return
	}
	req.Current.Domain = enrichment.NormalizeDomain(req.Current.Domain)

	// Default the baseline to the stored snapshot. A lookup failure
	// degrades to first-observation detection.
	previous := req.Previous
	if previous == nil {
		stored, err := h.snapshots.GetLatestByDomain(ctx, req.Current.Domain)
		if err != nil {
			h.logger.WithError(err).WithField("domain", req.Current.Domain).
				Warn("Baseline snapshot lookup failed")
		} else {
			previous = stored
		}
	}

	detected := h.detector.Detect(req.Current, previous, time.Now().UTC())
	for _, sig := range detected {
		sig.LeadID = req.LeadID
	}

	resp := DetectResponse{
		Domain:   req.Current.Domain,
		Detected: len(detected),
		Signals:  detected,
	}

	if req.Persist {
		saved, err := h.store.SaveBatch(ctx, detected)
		if err != nil {
			h.logger.WithError(err).WithField("domain", req.Current.Domain).
				Error("Failed to save signals")
			respondError(w, http.StatusInternalServerError, "failed to save signals")
			return
		}
		resp.Saved = saved

		if err := h.snapshots.Save(ctx, req.Current); err != nil {
			h.logger.WithError(err).WithField("domain", req.Current.Domain).
				Error("Failed to save snapshot")
			respondError(w, http.StatusInternalServerError, "failed to save snapshot")
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetActive returns unexpired signals for a lead or domain
// GET /api/v1/signals/active?lead_id=... or ?domain=...
func (h *SignalHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		active []*contracts.SignalEvent
		err    error
	)

	if leadIDStr := r.URL.Query().Get("lead_id"); leadIDStr != "" {
		leadID, parseErr := uuid.Parse(leadIDStr)
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "invalid lead_id")
			return
		}
		active, err = h.store.GetActiveByLead(ctx, leadID)
	} else if domain := r.URL.Query().Get("domain"); domain != "" {
		active, err = h.store.GetActiveByDomain(ctx, enrichment.NormalizeDomain(domain))
	} else {
		respondError(w, http.StatusBadRequest, "lead_id or domain is required")
		return
	}

	if err != nil {
		h.logger.WithError(err).Error("Failed to get active signals")
		respondError(w, http.StatusInternalServerError, "failed to get active signals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(active),
		"signals": active,
	})
}
