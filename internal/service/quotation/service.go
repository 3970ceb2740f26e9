package quotation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
)

// ErrProjectRequired is returned when a quotation has no project id.
var ErrProjectRequired = errors.New("projectId is required")

// ItemInput is one quotation line as sent by the client. The line
// total is always computed server-side.
type ItemInput struct {
	Name     string
	Quantity int
	Price    float64
}

// CreateInput carries the fields of a quotation create call.
type CreateInput struct {
	ProjectID  string
	Date       string
	Items      []ItemInput
	PreparedBy string
}

// Service creates and lists quotations.
type Service struct {
	quotations mongodb.QuotationRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the quotation service.
func NewService(quotations mongodb.QuotationRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{quotations: quotations, logger: logger, now: time.Now}
}

// Create stores a quotation with decimal-exact line totals. Float
// arithmetic on money drifts; quantities times unit prices go through
// decimals and only the rounded results are persisted.
func (s *Service) Create(ctx context.Context, input CreateInput) (models.Quotation, error) {
	if strings.TrimSpace(input.ProjectID) == "" {
		return models.Quotation{}, ErrProjectRequired
	}

	date := input.Date
	if date == "" {
		date = s.now().UTC().Format(time.RFC3339)
	}

	items := make([]models.QuotationItem, 0, len(input.Items))
	grandTotal := decimal.Zero
	for _, item := range input.Items {
		lineTotal := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		grandTotal = grandTotal.Add(lineTotal)
		items = append(items, models.QuotationItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    lineTotal.InexactFloat64(),
		})
	}

	quotation := models.Quotation{
		ID:         uuid.NewString(),
		ProjectID:  input.ProjectID,
		Date:       date,
		Items:      items,
		Total:      grandTotal.Round(2).InexactFloat64(),
		PreparedBy: input.PreparedBy,
	}

	if err := s.quotations.Insert(ctx, quotation); err != nil {
		return models.Quotation{}, err
	}
	return quotation, nil
}

// ListByProject returns a project's quotations, newest first.
func (s *Service) ListByProject(ctx context.Context, projectID string) ([]models.Quotation, error) {
	return s.quotations.ListByProject(ctx, projectID)
}
