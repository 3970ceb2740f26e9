package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/internal/repository/sheets"
)

const (
	dateLayout    = "2006-01-02"
	snapshotRange = "Inventory!A:E"
)

// Service exposes lightweight analytics over the component ledger and
// exports daily snapshots to a spreadsheet.
type Service struct {
	components mongodb.ComponentRepository
	sheets     sheets.Repository
	logger     *zap.Logger
}

// NewService wires a new reporting service instance. A nil sheets
// repository disables the snapshot export but keeps the summaries.
func NewService(components mongodb.ComponentRepository, sheetsRepo sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{components: components, sheets: sheetsRepo, logger: logger}
}

// LowStockSummary lists components at or below the threshold as a
// human-readable line, for logs and scheduled notifications.
func (s *Service) LowStockSummary(ctx context.Context, threshold int) (string, error) {
	components, err := s.components.List(ctx)
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	var low []string
	for _, c := range components {
		if c.Quantity <= threshold {
			low = append(low, fmt.Sprintf("%s (%d)", c.Name, c.Quantity))
		}
	}

	if len(low) == 0 {
		return fmt.Sprintf("Low stock: none at or below %d units.", threshold), nil
	}
	return fmt.Sprintf("Low stock (<=%d units): %s.", threshold, strings.Join(low, ", ")), nil
}

// InventoryValuation sums price times quantity across the ledger.
func (s *Service) InventoryValuation(ctx context.Context) (decimal.Decimal, error) {
	components, err := s.components.List(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load ledger: %w", err)
	}

	total := decimal.Zero
	for _, c := range components {
		value := decimal.NewFromFloat(c.Price).Mul(decimal.NewFromInt(int64(c.Quantity)))
		total = total.Add(value)
	}
	return total.Round(2), nil
}

// ExportSnapshot appends one row per ledger entry to the snapshot
// sheet: date, name, quantity, unit price, stock value.
func (s *Service) ExportSnapshot(ctx context.Context, at time.Time) error {
	if s.sheets == nil {
		s.logger.Warn("snapshot export skipped: sheets not configured")
		return nil
	}

	components, err := s.components.List(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	date := at.UTC().Format(dateLayout)
	rows := make([][]interface{}, 0, len(components))
	for _, c := range components {
		value := decimal.NewFromFloat(c.Price).Mul(decimal.NewFromInt(int64(c.Quantity))).Round(2)
		rows = append(rows, []interface{}{date, c.Name, c.Quantity, c.Price, value.InexactFloat64()})
	}

	if err := s.sheets.AppendRows(ctx, snapshotRange, rows); err != nil {
		return err
	}

	s.logger.Info("inventory snapshot exported", zap.Int("components", len(rows)), zap.String("date", date))
	return nil
}
