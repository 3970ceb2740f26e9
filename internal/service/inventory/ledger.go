package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
)

// Mode states whether a delta adjusts the stored quantity or replaces
// it. The batch upsert endpoint sends delta mode; the single-row edit
// endpoint sends absolute mode.
type Mode string

const (
	ModeDelta    Mode = "delta"
	ModeAbsolute Mode = "absolute"
)

// casAttempts bounds the read-merge-write retry loop when a write
// loses its version check to a concurrent writer.
const casAttempts = 3

// ErrContended is returned when a ledger write kept losing its version
// check and ran out of retries.
var ErrContended = errors.New("component update contended")

// ErrNameMismatch is returned when a patch tries to rename an entry to
// a name that no longer derives the entry's id.
var ErrNameMismatch = errors.New("new name does not match component id")

// Delta is one incoming change for a component. A nil Price means
// "keep the stored price"; it is never treated as zero.
type Delta struct {
	Name         string
	Price        *float64
	Quantity     int
	Contributors []models.Contributor
	Mode         Mode
}

// Patch is a partial absolute update for an existing entry.
type Patch struct {
	Name         *string
	Price        *float64
	Quantity     *int
	Contributors []models.Contributor
}

// UpsertResult reports the outcome for one delta in a batch.
type UpsertResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Merged  bool   `json:"merged"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Ledger describes the inventory operations the HTTP layer performs.
type Ledger interface {
	UpsertBatch(ctx context.Context, deltas []Delta) ([]UpsertResult, error)
	PatchComponent(ctx context.Context, id string, patch Patch) error
	DeductStock(ctx context.Context, items []models.UsedItem) error
	ListComponents(ctx context.Context) ([]models.Component, error)
	DeleteComponent(ctx context.Context, id string) error
	History(ctx context.Context) ([]models.HistoryRecord, error)
}

// Service maintains the component ledger and its audit trail.
type Service struct {
	components mongodb.ComponentRepository
	history    mongodb.HistoryRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the ledger service.
func NewService(components mongodb.ComponentRepository, history mongodb.HistoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		components: components,
		history:    history,
		logger:     logger,
		now:        time.Now,
	}
}

// UpsertBatch applies deltas in list order. A delta without a name is
// skipped and reported, never fatal to the rest of the batch. Each
// delta runs its own read-merge-write cycle, so two deltas for the
// same entry within one batch observe each other's effect.
func (s *Service) UpsertBatch(ctx context.Context, deltas []Delta) ([]UpsertResult, error) {
	results := make([]UpsertResult, 0, len(deltas))

	for _, delta := range deltas {
		if strings.TrimSpace(delta.Name) == "" {
			s.logger.Warn("upsert delta skipped: missing component name")
			results = append(results, UpsertResult{ID: UnnamedID, Skipped: true})
			continue
		}

		result, err := s.applyDelta(ctx, delta)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *Service) applyDelta(ctx context.Context, delta Delta) (UpsertResult, error) {
	id := Normalize(delta.Name)

	for attempt := 0; attempt < casAttempts; attempt++ {
		existing, err := s.components.Get(ctx, id)
		if errors.Is(err, mongodb.ErrNotFound) {
			created := models.Component{
				ID:           id,
				Name:         strings.TrimSpace(delta.Name),
				Price:        priceOrDefault(delta.Price, 0),
				Quantity:     clampQuantity(delta.Quantity),
				Contributors: MergeContributors(nil, delta.Contributors, s.logger),
				Version:      1,
			}

			if err := s.components.Insert(ctx, created); err != nil {
				if errors.Is(err, mongodb.ErrConflict) {
					continue // lost the create race, merge instead
				}
				return UpsertResult{}, err
			}

			if err := s.appendHistory(ctx, created.Name, strconv.Itoa(created.Quantity), created.Price, delta.Contributors, false); err != nil {
				return UpsertResult{}, err
			}
			return UpsertResult{ID: id, Name: created.Name, Merged: false}, nil
		}
		if err != nil {
			return UpsertResult{}, err
		}

		updated := *existing
		switch delta.Mode {
		case ModeAbsolute:
			updated.Quantity = clampQuantity(delta.Quantity)
		default:
			updated.Quantity = clampQuantity(existing.Quantity + delta.Quantity)
		}
		updated.Price = priceOrDefault(delta.Price, existing.Price)
		updated.Contributors = MergeContributors(existing.Contributors, delta.Contributors, s.logger)

		if err := s.components.Update(ctx, updated, existing.Version); err != nil {
			if errors.Is(err, mongodb.ErrConflict) {
				continue
			}
			return UpsertResult{}, err
		}

		quantity, edit := historyQuantity(delta.Mode, existing.Quantity, updated.Quantity)
		if err := s.appendHistory(ctx, updated.Name, quantity, updated.Price, delta.Contributors, edit); err != nil {
			return UpsertResult{}, err
		}
		return UpsertResult{ID: id, Name: updated.Name, Merged: true}, nil
	}

	return UpsertResult{ID: id, Name: delta.Name}, fmt.Errorf("upsert %s: %w", id, ErrContended)
}

// PatchComponent applies an absolute partial update to one entry.
// Renames are only allowed when the new name still derives the same
// id, otherwise every lookup for this entry would break.
func (s *Service) PatchComponent(ctx context.Context, id string, patch Patch) error {
	if patch.Name != nil && Normalize(*patch.Name) != id {
		return ErrNameMismatch
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		existing, err := s.components.Get(ctx, id)
		if err != nil {
			return err
		}

		updated := *existing
		if patch.Name != nil {
			updated.Name = strings.TrimSpace(*patch.Name)
		}
		updated.Price = priceOrDefault(patch.Price, existing.Price)
		if patch.Quantity != nil {
			updated.Quantity = clampQuantity(*patch.Quantity)
		}
		if patch.Contributors != nil {
			updated.Contributors = MergeContributors(existing.Contributors, patch.Contributors, s.logger)
		}

		if err := s.components.Update(ctx, updated, existing.Version); err != nil {
			if errors.Is(err, mongodb.ErrConflict) {
				continue
			}
			return err
		}

		// Only quantity edits leave a trace, matching the restock path:
		// price and contributor touch-ups are not stock movements.
		if patch.Quantity != nil {
			quantity, edit := historyQuantity(ModeAbsolute, existing.Quantity, updated.Quantity)
			if err := s.appendHistory(ctx, updated.Name, quantity, updated.Price, patch.Contributors, edit); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("patch %s: %w", id, ErrContended)
}

// DeductStock decrements on-hand quantity for each consumed item,
// clamped at zero. Unknown components are skipped silently: the
// inventory may lag real-world usage and a quotation must not fail
// because of an untracked part. Deductions write no history; the
// quotation itself is the record of consumption.
func (s *Service) DeductStock(ctx context.Context, items []models.UsedItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if err := s.deductItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) deductItem(ctx context.Context, item models.UsedItem) error {
	id := Normalize(item.Name)

	for attempt := 0; attempt < casAttempts; attempt++ {
		existing, err := s.components.Get(ctx, id)
		if errors.Is(err, mongodb.ErrNotFound) {
			s.logger.Debug("deduction skipped: component not tracked", zap.String("id", id))
			return nil
		}
		if err != nil {
			return err
		}

		updated := *existing
		updated.Quantity = clampQuantity(existing.Quantity - item.Quantity)

		if err := s.components.Update(ctx, updated, existing.Version); err != nil {
			if errors.Is(err, mongodb.ErrConflict) {
				continue
			}
			return err
		}
		return nil
	}

	return fmt.Errorf("deduct %s: %w", id, ErrContended)
}

// ListComponents returns the full ledger.
func (s *Service) ListComponents(ctx context.Context) ([]models.Component, error) {
	return s.components.List(ctx)
}

// DeleteComponent removes a ledger entry. Its history records stay.
func (s *Service) DeleteComponent(ctx context.Context, id string) error {
	return s.components.Delete(ctx, id)
}

// History returns the audit trail, newest first.
func (s *Service) History(ctx context.Context) ([]models.HistoryRecord, error) {
	return s.history.List(ctx)
}

func (s *Service) appendHistory(ctx context.Context, name string, quantity string, price float64, contributors []models.Contributor, edit bool) error {
	addedBy := "Admin"
	date := s.now().UTC().Format(time.RFC3339)
	if len(contributors) > 0 && strings.TrimSpace(contributors[0].Name) != "" {
		addedBy = strings.TrimSpace(contributors[0].Name)
		if contributors[0].Date != "" {
			date = contributors[0].Date
		}
	}

	return s.history.Append(ctx, models.HistoryRecord{
		ID:       uuid.NewString(),
		Name:     name,
		Quantity: quantity,
		Price:    price,
		AddedBy:  addedBy,
		Date:     date,
		Edit:     edit,
	})
}

// historyQuantity formats the audit quantity field. Absolute writes
// that change a saved value record the transition "old > new (E)" and
// flag the record as an edit; everything else records the new total.
func historyQuantity(mode Mode, oldQuantity, newQuantity int) (string, bool) {
	if mode == ModeAbsolute && oldQuantity != newQuantity {
		return fmt.Sprintf("%d > %d (E)", oldQuantity, newQuantity), true
	}
	return strconv.Itoa(newQuantity), false
}

func priceOrDefault(price *float64, fallback float64) float64 {
	if price != nil {
		return *price
	}
	return fallback
}

func clampQuantity(quantity int) int {
	if quantity < 0 {
		return 0
	}
	return quantity
}
