package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/internal/service/admin"
)

// AdminHandler exposes the operator account flows over HTTP.
type AdminHandler struct {
	svc    *admin.Service
	logger *zap.Logger
}

// NewAdminHandler constructs the HTTP handler adapter.
func NewAdminHandler(svc *admin.Service, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type otpRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
}

// Login checks a username/password pair.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	account, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case errors.Is(err, admin.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
	case err != nil:
		h.logger.Error("failed admin login", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":            true,
			"username":           account.Username,
			"phoneNo":            account.PhoneNo,
			"lastPasswordChange": account.LastPasswordChange,
		})
	}
}

// Phone returns the phone number on file for an admin.
func (h *AdminHandler) Phone(c *gin.Context) {
	phone, err := h.svc.PhoneNumber(c.Request.Context(), c.Param("username"))
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case err != nil:
		h.logger.Error("failed loading admin phone", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load admin"})
	default:
		c.JSON(http.StatusOK, gin.H{"phoneNo": phone})
	}
}

// Email returns the email on file for an admin.
func (h *AdminHandler) Email(c *gin.Context) {
	email, err := h.svc.Email(c.Request.Context(), c.Param("username"))
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case errors.Is(err, admin.ErrNoEmailOnFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No email on file"})
	case err != nil:
		h.logger.Error("failed loading admin email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load admin"})
	default:
		c.JSON(http.StatusOK, gin.H{"email": email})
	}
}

// ResetPassword sets a new password after OTP verification.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	err := h.svc.ResetPassword(c.Request.Context(), req.Username, req.NewPassword)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case err != nil:
		h.logger.Error("failed resetting password", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ChangePassword verifies the old password and sets a new one.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), req.Username, req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case errors.Is(err, admin.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password incorrect"})
	case err != nil:
		h.logger.Error("failed changing password", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// SendEmailOTP mails a fresh reset code.
func (h *AdminHandler) SendEmailOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username required"})
		return
	}

	err := h.svc.SendEmailOTP(c.Request.Context(), req.Username)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
	case errors.Is(err, admin.ErrNoEmailOnFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No email on file"})
	case errors.Is(err, admin.ErrMailerDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mail delivery is not configured"})
	case err != nil:
		h.logger.Error("failed sending otp", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send otp"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// VerifyEmailOTP checks and consumes a pending reset code.
func (h *AdminHandler) VerifyEmailOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username required"})
		return
	}

	err := h.svc.VerifyEmailOTP(req.Username, req.OTP)
	switch {
	case errors.Is(err, admin.ErrOTPNotRequested):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP not requested"})
	case errors.Is(err, admin.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired"})
	case errors.Is(err, admin.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP"})
	case err != nil:
		h.logger.Error("failed verifying otp", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify otp"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
