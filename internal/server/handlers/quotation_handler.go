package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/service/quotation"
)

// QuotationHandler exposes quotation create/list over HTTP.
type QuotationHandler struct {
	svc    *quotation.Service
	logger *zap.Logger
}

// NewQuotationHandler constructs the HTTP handler adapter.
func NewQuotationHandler(svc *quotation.Service, logger *zap.Logger) *QuotationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationHandler{svc: svc, logger: logger}
}

type quotationItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type quotationRequest struct {
	ProjectID  string                 `json:"projectId"`
	Date       string                 `json:"date"`
	Items      []quotationItemRequest `json:"items"`
	PreparedBy string                 `json:"preparedBy"`
}

// Create stores a new quotation.
func (h *QuotationHandler) Create(c *gin.Context) {
	var req quotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := make([]quotation.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, quotation.ItemInput{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}

	created, err := h.svc.Create(c.Request.Context(), quotation.CreateInput{
		ProjectID:  req.ProjectID,
		Date:       req.Date,
		Items:      items,
		PreparedBy: req.PreparedBy,
	})
	switch {
	case errors.Is(err, quotation.ErrProjectRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
	case err != nil:
		h.logger.Error("failed saving quotation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save quotation"})
	default:
		c.JSON(http.StatusOK, created)
	}
}

// ListByProject returns a project's quotations, newest first.
func (h *QuotationHandler) ListByProject(c *gin.Context) {
	quotations, err := h.svc.ListByProject(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.logger.Error("failed listing quotations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list quotations"})
		return
	}
	c.JSON(http.StatusOK, quotations)
}
