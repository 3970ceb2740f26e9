package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/internal/service/inventory"
)

// ErrProjectNameRequired is returned when a customer is created
// without a project name to derive its id from.
var ErrProjectNameRequired = errors.New("project name is required")

// ErrPaymentFieldsRequired is returned when a payment is missing
// amount, method or admin name.
var ErrPaymentFieldsRequired = errors.New("amount, method, and admin name required")

// ErrCommentFieldsRequired is returned when a comment is missing
// project id, text or admin.
var ErrCommentFieldsRequired = errors.New("projectId, text and admin required")

// UpsertInput carries the fields of a customer create-or-merge call.
// Empty fields leave the stored document untouched.
type UpsertInput struct {
	ProjectID    string
	ProjectName  string
	CustomerName string
	Phone        string
	Email        string
	Address      string
	Notes        string
}

// PaymentInput is one payment to record against a customer.
type PaymentInput struct {
	Amount    float64
	Method    string
	AdminName string
}

// CommentInput is one comment to attach to a project.
type CommentInput struct {
	ProjectID string
	Text      string
	Admin     string
	Date      string
}

// Service manages customers/projects, their payments and comments.
type Service struct {
	customers  mongodb.CustomerRepository
	quotations mongodb.QuotationRepository
	comments   mongodb.CommentRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the customer service.
func NewService(customers mongodb.CustomerRepository, quotations mongodb.QuotationRepository, comments mongodb.CommentRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		customers:  customers,
		quotations: quotations,
		comments:   comments,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateOrMerge writes a customer document, creating it when absent.
// The id is the supplied project id or, failing that, derived from the
// project name with the same normalization the ledger uses.
func (s *Service) CreateOrMerge(ctx context.Context, input UpsertInput) (string, error) {
	if strings.TrimSpace(input.ProjectName) == "" {
		return "", ErrProjectNameRequired
	}

	id := input.ProjectID
	if id == "" {
		id = inventory.Normalize(input.ProjectName)
	}

	fields := bson.M{"projectName": input.ProjectName}
	setIfPresent(fields, "customerName", input.CustomerName)
	setIfPresent(fields, "phone", input.Phone)
	setIfPresent(fields, "email", input.Email)
	setIfPresent(fields, "address", input.Address)
	setIfPresent(fields, "notes", input.Notes)

	if err := s.customers.Merge(ctx, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns one customer document.
func (s *Service) Get(ctx context.Context, id string) (*models.Customer, error) {
	return s.customers.Get(ctx, id)
}

// Patch applies a partial update; nil fields are untouched.
func (s *Service) Patch(ctx context.Context, id string, patch models.CustomerPatch) error {
	fields := bson.M{}
	setIfSet(fields, "projectName", patch.ProjectName)
	setIfSet(fields, "customerName", patch.CustomerName)
	setIfSet(fields, "phone", patch.Phone)
	setIfSet(fields, "email", patch.Email)
	setIfSet(fields, "address", patch.Address)
	setIfSet(fields, "notes", patch.Notes)

	if len(fields) == 0 {
		return nil
	}
	return s.customers.Patch(ctx, id, fields)
}

// ListProjects returns all customer/project documents.
func (s *Service) ListProjects(ctx context.Context) ([]models.Customer, error) {
	return s.customers.List(ctx)
}

// ProjectHistory returns a customer together with its quotations,
// newest quotation first.
func (s *Service) ProjectHistory(ctx context.Context, id string) (*models.Customer, []models.Quotation, error) {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	quotations, err := s.quotations.ListByProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return customer, quotations, nil
}

// AddPayment records one payment against a customer. The append is
// atomic on the storage side.
func (s *Service) AddPayment(ctx context.Context, id string, input PaymentInput) (models.Payment, error) {
	if input.Amount <= 0 || strings.TrimSpace(input.Method) == "" || strings.TrimSpace(input.AdminName) == "" {
		return models.Payment{}, ErrPaymentFieldsRequired
	}

	payment := models.Payment{
		ID:     uuid.NewString(),
		Amount: input.Amount,
		Method: input.Method,
		Admin:  input.AdminName,
		Date:   s.now().UTC().Format(time.RFC3339),
	}

	if err := s.customers.AppendPayment(ctx, id, payment); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

// ClearPayments empties a customer's payment history and flags the
// document so the UI can tell "cleared" from "never paid".
func (s *Service) ClearPayments(ctx context.Context, id string) error {
	return s.customers.ClearPayments(ctx, id)
}

// AddComment attaches a comment to a project.
func (s *Service) AddComment(ctx context.Context, input CommentInput) (models.Comment, error) {
	if strings.TrimSpace(input.ProjectID) == "" || strings.TrimSpace(input.Text) == "" || strings.TrimSpace(input.Admin) == "" {
		return models.Comment{}, ErrCommentFieldsRequired
	}

	date := input.Date
	if date == "" {
		date = s.now().UTC().Format(time.RFC3339)
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		ProjectID: input.ProjectID,
		Text:      input.Text,
		Admin:     input.Admin,
		Date:      date,
	}

	if err := s.comments.Insert(ctx, comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// Comments returns a project's comments, oldest first.
func (s *Service) Comments(ctx context.Context, projectID string) ([]models.Comment, error) {
	return s.comments.ListByProject(ctx, projectID)
}

// DeleteComments removes all comments for a project and reports how
// many went away.
func (s *Service) DeleteComments(ctx context.Context, projectID string) (int64, error) {
	return s.comments.DeleteByProject(ctx, projectID)
}

func setIfPresent(fields bson.M, key string, value string) {
	if strings.TrimSpace(value) != "" {
		fields[key] = value
	}
}

func setIfSet(fields bson.M, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}
