package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/internal/service/inventory"
)

// ComponentHandler exposes the component ledger over HTTP.
type ComponentHandler struct {
	svc    inventory.Ledger
	logger *zap.Logger
}

// NewComponentHandler constructs the HTTP handler adapter.
func NewComponentHandler(svc inventory.Ledger, logger *zap.Logger) *ComponentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComponentHandler{svc: svc, logger: logger}
}

type contributorPayload struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type componentDelta struct {
	Name         string               `json:"name"`
	Price        *float64             `json:"price"`
	Quantity     int                  `json:"quantity"`
	Contributors []contributorPayload `json:"contributors"`
}

type componentPatch struct {
	Name         *string              `json:"name"`
	Price        *float64             `json:"price"`
	Quantity     *int                 `json:"quantity"`
	Contributors []contributorPayload `json:"contributors"`
}

type updateStockRequest struct {
	UsedItems []models.UsedItem `json:"usedItems"`
}

// List returns the full ledger.
func (h *ComponentHandler) List(c *gin.Context) {
	components, err := h.svc.ListComponents(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing components", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list components"})
		return
	}
	c.JSON(http.StatusOK, components)
}

// Upsert applies a batch of additive deltas. The body may be a single
// delta object or an array of them.
func (h *ComponentHandler) Upsert(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payload, err := decodeDeltas(body)
	if err != nil {
		h.logger.Warn("invalid upsert payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	deltas := make([]inventory.Delta, 0, len(payload))
	for _, p := range payload {
		deltas = append(deltas, p.toDelta(inventory.ModeDelta))
	}

	results, err := h.svc.UpsertBatch(c.Request.Context(), deltas)
	if err != nil {
		h.logger.Error("failed upserting components", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save components"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// Import stages a bulk batch through the pending buffer, collapsing
// duplicate rows before a single commit.
func (h *ComponentHandler) Import(c *gin.Context) {
	var payload []componentDelta
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid import payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	buffer := inventory.NewStagingBuffer(h.logger)
	for _, p := range payload {
		buffer.Add(p.toDelta(inventory.ModeDelta))
	}

	results, err := buffer.Commit(c.Request.Context(), h.svc)
	if err != nil {
		h.logger.Error("failed committing import batch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import components"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// Patch applies an absolute partial update to one entry.
func (h *ComponentHandler) Patch(c *gin.Context) {
	var payload componentPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid patch payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := inventory.Patch{
		Name:         payload.Name,
		Price:        payload.Price,
		Quantity:     payload.Quantity,
		Contributors: toContributors(payload.Contributors),
	}

	err := h.svc.PatchComponent(c.Request.Context(), c.Param("id"), patch)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, inventory.ErrNameMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "new name does not match component id"})
	case err != nil:
		h.logger.Error("failed patching component", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update component"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Delete removes a ledger entry. History records stay behind.
func (h *ComponentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteComponent(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed deleting component", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete component"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// History returns the audit trail, newest first.
func (h *ComponentHandler) History(c *gin.Context) {
	records, err := h.svc.History(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpdateStock deducts consumed quantities after a quotation is saved.
func (h *ComponentHandler) UpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UsedItems == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usedItems must be an array"})
		return
	}

	if err := h.svc.DeductStock(c.Request.Context(), req.UsedItems); err != nil {
		h.logger.Error("failed deducting stock", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (p componentDelta) toDelta(mode inventory.Mode) inventory.Delta {
	return inventory.Delta{
		Name:         p.Name,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Contributors: toContributors(p.Contributors),
		Mode:         mode,
	}
}

func toContributors(payload []contributorPayload) []models.Contributor {
	if payload == nil {
		return nil
	}
	contributors := make([]models.Contributor, 0, len(payload))
	for _, p := range payload {
		contributors = append(contributors, models.Contributor{Name: p.Name, Date: p.Date})
	}
	return contributors
}

// decodeDeltas accepts either one delta object or an array of them,
// matching what the SPA sends on the two save paths.
func decodeDeltas(body []byte) ([]componentDelta, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var payload []componentDelta
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	}

	var single componentDelta
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []componentDelta{single}, nil
}
