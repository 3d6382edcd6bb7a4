package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/internal/scoring"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// ScoringHandler handles lead scoring API endpoints
type ScoringHandler struct {
	engine    *scoring.Engine
	scores    contracts.ScoreStore
	icps      contracts.ICPStore
	snapshots contracts.SnapshotStore
	logger    *logger.Logger
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(
	engine *scoring.Engine,
	scores contracts.ScoreStore,
	icps contracts.ICPStore,
	snapshots contracts.SnapshotStore,
	log *logger.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		engine:    engine,
		scores:    scores,
		icps:      icps,
		snapshots: snapshots,
		logger:    log,
	}
}

// ScoreLeadRequest is the body of POST /api/v1/leads/score
type ScoreLeadRequest struct {
	LeadID uuid.UUID  `json:"lead_id"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
	ICPID  *uuid.UUID `json:"icp_id,omitempty"`

	// Domain loads the latest stored snapshot when Company is absent
	Domain  string                     `json:"domain,omitempty"`
	Company *contracts.CompanySnapshot `json:"company,omitempty"`
	Contact *contracts.ContactSnapshot `json:"contact,omitempty"`
}

// ScoreLead scores a single lead
// POST /api/v1/leads/score
func (h *ScoringHandler) ScoreLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScoreLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LeadID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "lead_id is required")
		return
	}

	scoreReq, err := h.buildRequest(ctx, &req)
	if err != nil {
		h.logger.WithError(err).WithField("lead_id", req.LeadID.String()).
			Error("Failed to prepare score request")
		respondError(w, http.StatusInternalServerError, "failed to prepare score request")
		return
	}

	score, err := h.engine.ScoreLead(ctx, *scoreReq)
	if err != nil {
		h.logger.WithError(err).WithField("lead_id", req.LeadID.String()).
			Error("Failed to score lead")
		respondError(w, http.StatusInternalServerError, "failed to score lead")
		return
	}

	respondJSON(w, http.StatusOK, score)
}

// ScoreBatchRequest is the body of POST /api/v1/leads/score/batch
type ScoreBatchRequest struct {
	UserID *uuid.UUID         `json:"user_id,omitempty"`
	ICPID  *uuid.UUID         `json:"icp_id,omitempty"`
	Leads  []ScoreLeadRequest `json:"leads"`
}

// ScoreBatchResponse summarizes a batch scoring run
type ScoreBatchResponse struct {
	Scored int                    `json:"scored"`
	Failed int                    `json:"failed"`
	Scores []*contracts.LeadScore `json:"scores"`
}

// ScoreBatch scores several leads in one call. Individual failures are
// counted, not fatal.
// POST /api/v1/leads/score/batch
func (h *ScoringHandler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScoreBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Leads) == 0 {
		respondError(w, http.StatusBadRequest, "leads is required")
		return
	}

	resp := ScoreBatchResponse{}
	for _, lead := range req.Leads {
		if lead.UserID == nil {
			lead.UserID = req.UserID
		}
		if lead.ICPID == nil {
			lead.ICPID = req.ICPID
		}
		if lead.LeadID == uuid.Nil {
			resp.Failed++
			continue
		}

		scoreReq, err := h.buildRequest(ctx, &lead)
		if err == nil {
			var score *contracts.LeadScore
			score, err = h.engine.ScoreLead(ctx, *scoreReq)
			if err == nil {
				resp.Scores = append(resp.Scores, score)
				resp.Scored++
				continue
			}
		}

		h.logger.WithError(err).WithField("lead_id", lead.LeadID.String()).
			Warn("Batch scoring failed for lead")
		resp.Failed++
	}

	respondJSON(w, http.StatusOK, resp)
}

// ListByTier returns the latest scores in a tier
// GET /api/v1/leads?user_id=...&tier=hot&limit=50
func (h *ScoringHandler) ListByTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "valid user_id is required")
		return
	}

	tier := contracts.ScoreTier(r.URL.Query().Get("tier"))
	switch tier {
	case contracts.TierHot, contracts.TierWarm, contracts.TierNurture, contracts.TierCold:
	default:
		respondError(w, http.StatusBadRequest, "tier must be one of: hot, warm, nurture, cold")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	scores, err := h.scores.ListByTier(ctx, userID, tier, limit)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"user_id": userID.String(),
			"tier":    string(tier),
		}).Error("Failed to list leads by tier")
		respondError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tier":  tier,
		"count": len(scores),
		"leads": scores,
	})
}

// GetTierDistribution returns counts and averages per tier
// GET /api/v1/leads/tiers?user_id=...
func (h *ScoringHandler) GetTierDistribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "valid user_id is required")
		return
	}

	dist, err := h.scores.TierDistribution(ctx, userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID.String()).
			Error("Failed to get tier distribution")
		respondError(w, http.StatusInternalServerError, "failed to get tier distribution")
		return
	}

	// All tiers appear in the response, empty ones included
	full := map[contracts.ScoreTier]contracts.TierStats{
		contracts.TierHot:     {},
		contracts.TierWarm:    {},
		contracts.TierNurture: {},
		contracts.TierCold:    {},
	}
	for tier, stats := range dist {
		full[tier] = stats
	}

	respondJSON(w, http.StatusOK, full)
}

// buildRequest resolves the ICP and company snapshot for one lead
func (h *ScoringHandler) buildRequest(ctx context.Context, req *ScoreLeadRequest) (*scoring.ScoreRequest, error) {
	scoreReq := &scoring.ScoreRequest{
		LeadID:  req.LeadID,
		Company: req.Company,
		Contact: req.Contact,
	}

	// Resolve the ICP: explicit id first, then the user's default
	if req.ICPID != nil && req.UserID != nil {
		icp, err := h.icps.GetByID(ctx, *req.ICPID, *req.UserID)
		if err != nil {
			return nil, err
		}
		scoreReq.ICP = icp
	} else if req.UserID != nil {
		icp, err := h.icps.GetDefaultForUser(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		scoreReq.ICP = icp
	}

	// Load the stored snapshot when no inline company was given
	if scoreReq.Company == nil && req.Domain != "" {
		snapshot, err := h.snapshots.GetLatestByDomain(ctx, req.Domain)
		if err != nil {
			return nil, err
		}
		scoreReq.Company = snapshot
	}

	return scoreReq, nil
}
