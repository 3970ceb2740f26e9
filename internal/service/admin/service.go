package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/config"
	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/pkg/clients/mailer"
)

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid password")

// ErrNoEmailOnFile is returned when an OTP is requested for an admin
// without a stored email address.
var ErrNoEmailOnFile = errors.New("no email on file")

// ErrMailerDisabled is returned when the OTP flow is used but no mail
// provider is configured.
var ErrMailerDisabled = errors.New("mail delivery is not configured")

// ErrOTPNotRequested, ErrOTPExpired and ErrOTPInvalid cover the
// verification outcomes of the email OTP flow.
var (
	ErrOTPNotRequested = errors.New("otp not requested")
	ErrOTPExpired      = errors.New("otp expired")
	ErrOTPInvalid      = errors.New("invalid otp")
)

// Service manages operator accounts and the password-reset OTP flow.
// Passwords are compared in plaintext, faithful to the system this
// replaces; the comparison is isolated here on purpose.
type Service struct {
	admins mongodb.AdminRepository
	mail   mailer.Client
	logger *zap.Logger
	otp    *otpStore
	now    func() time.Time
}

// NewService wires the admin service. A nil mail client disables the
// OTP flow without affecting password logins.
func NewService(admins mongodb.AdminRepository, mail mailer.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		admins: admins,
		mail:   mail,
		logger: logger,
		otp:    newOTPStore(),
		now:    time.Now,
	}
}

// Bootstrap seeds a default admin account when the collection is
// empty, so a fresh deployment has a way in.
func (s *Service) Bootstrap(ctx context.Context, cfg config.BootstrapConfig) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.Admin{
		ID:                 uuid.NewString(),
		Username:           cfg.AdminUsername,
		Password:           cfg.AdminPassword,
		PhoneNo:            cfg.AdminPhone,
		LastPasswordChange: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.admins.Insert(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("default admin created", zap.String("username", cfg.AdminUsername))
	return nil
}

// Login checks a username/password pair and returns the account.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin.Password != password {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// PhoneNumber returns the phone number on file for an admin.
func (s *Service) PhoneNumber(ctx context.Context, username string) (string, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return admin.PhoneNo, nil
}

// Email returns the email on file for an admin.
func (s *Service) Email(ctx context.Context, username string) (string, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(admin.Mail) == "" {
		return "", ErrNoEmailOnFile
	}
	return admin.Mail, nil
}

// ResetPassword sets a new password without checking the old one; the
// caller is expected to have passed OTP verification first.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.admins.UpdatePassword(ctx, admin.ID, newPassword, s.now().UTC().Format(time.RFC3339))
}

// ChangePassword verifies the old password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if admin.Password != oldPassword {
		return ErrInvalidCredentials
	}
	return s.admins.UpdatePassword(ctx, admin.ID, newPassword, s.now().UTC().Format(time.RFC3339))
}

// SendEmailOTP issues a fresh code and mails it to the admin's stored
// address.
func (s *Service) SendEmailOTP(ctx context.Context, username string) error {
	if s.mail == nil {
		return ErrMailerDisabled
	}

	email, err := s.Email(ctx, username)
	if err != nil {
		return err
	}

	code, err := s.otp.issue(username)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	msg := mailer.Message{
		To:      email,
		Subject: "Your Password Reset OTP",
		Body:    fmt.Sprintf("Your OTP is %s. It expires in 5 minutes.", code),
	}
	if err := s.mail.SendMail(ctx, msg); err != nil {
		return err
	}

	s.logger.Info("password reset otp sent", zap.String("username", username))
	return nil
}

// VerifyEmailOTP checks and consumes a pending code.
func (s *Service) VerifyEmailOTP(username, code string) error {
	return s.otp.verify(username, code)
}
