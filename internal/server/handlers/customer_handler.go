package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/internal/service/customer"
)

// CustomerHandler exposes customers/projects, their payments and
// comments over HTTP.
type CustomerHandler struct {
	svc    *customer.Service
	logger *zap.Logger
}

// NewCustomerHandler constructs the HTTP handler adapter.
func NewCustomerHandler(svc *customer.Service, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{svc: svc, logger: logger}
}

type customerUpsertRequest struct {
	ProjectID    string `json:"projectId"`
	ProjectName  string `json:"projectName"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

type paymentRequest struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	AdminName string  `json:"adminName"`
}

type commentRequest struct {
	ProjectID string `json:"projectId"`
	Text      string `json:"text"`
	Admin     string `json:"admin"`
	Date      string `json:"date"`
}

// CreateOrMerge creates or updates a customer document.
func (h *CustomerHandler) CreateOrMerge(c *gin.Context) {
	var req customerUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.svc.CreateOrMerge(c.Request.Context(), customer.UpsertInput{
		ProjectID:    req.ProjectID,
		ProjectName:  req.ProjectName,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	switch {
	case errors.Is(err, customer.ErrProjectNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
	case err != nil:
		h.logger.Error("failed saving customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save customer"})
	default:
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

// Get returns one customer by id.
func (h *CustomerHandler) Get(c *gin.Context) {
	cust, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case err != nil:
		h.logger.Error("failed loading customer", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load customer"})
	default:
		c.JSON(http.StatusOK, cust)
	}
}

// Patch partially updates a customer.
func (h *CustomerHandler) Patch(c *gin.Context) {
	var patch models.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.svc.Patch(c.Request.Context(), c.Param("id"), patch)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case err != nil:
		h.logger.Error("failed patching customer", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update customer"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ListProjects returns all customer/project documents.
func (h *CustomerHandler) ListProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ProjectHistory returns a customer with its quotations.
func (h *CustomerHandler) ProjectHistory(c *gin.Context) {
	cust, quotations, err := h.svc.ProjectHistory(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case err != nil:
		h.logger.Error("failed loading project history", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project history"})
	default:
		c.JSON(http.StatusOK, gin.H{"customer": cust, "quotations": quotations})
	}
}

// AddPayment records one payment against a customer.
func (h *CustomerHandler) AddPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := h.svc.AddPayment(c.Request.Context(), c.Param("id"), customer.PaymentInput{
		Amount:    req.Amount,
		Method:    req.Method,
		AdminName: req.AdminName,
	})
	switch {
	case errors.Is(err, customer.ErrPaymentFieldsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount, method, and admin name required"})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case err != nil:
		h.logger.Error("failed adding payment", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add payment"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
	}
}

// ClearPayments removes a customer's payment history.
func (h *CustomerHandler) ClearPayments(c *gin.Context) {
	err := h.svc.ClearPayments(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case err != nil:
		h.logger.Error("failed clearing payments", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear payments"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// AddComment attaches a comment to a project.
func (h *CustomerHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), customer.CommentInput{
		ProjectID: req.ProjectID,
		Text:      req.Text,
		Admin:     req.Admin,
		Date:      req.Date,
	})
	switch {
	case errors.Is(err, customer.ErrCommentFieldsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId, text and admin required"})
	case err != nil:
		h.logger.Error("failed adding comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
	default:
		c.JSON(http.StatusOK, comment)
	}
}

// Comments returns a project's comments, oldest first.
func (h *CustomerHandler) Comments(c *gin.Context) {
	comments, err := h.svc.Comments(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.logger.Error("failed listing comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// DeleteComments removes all comments for a project.
func (h *CustomerHandler) DeleteComments(c *gin.Context) {
	deleted, err := h.svc.DeleteComments(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.logger.Error("failed deleting comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
