package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
)

type fakeComponentRepo struct {
	components []models.Component
}

func (f *fakeComponentRepo) Get(_ context.Context, id string) (*models.Component, error) {
	for _, c := range f.components {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (f *fakeComponentRepo) List(_ context.Context) ([]models.Component, error) {
	return append([]models.Component(nil), f.components...), nil
}

func (f *fakeComponentRepo) Insert(_ context.Context, component models.Component) error {
	f.components = append(f.components, component)
	return nil
}

func (f *fakeComponentRepo) Update(_ context.Context, _ models.Component, _ int64) error {
	return nil
}

func (f *fakeComponentRepo) Delete(_ context.Context, _ string) error {
	return nil
}

type fakeSheetsRepo struct {
	ranges []string
	rows   [][][]interface{}
}

func (f *fakeSheetsRepo) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.ranges = append(f.ranges, sheetRange)
	f.rows = append(f.rows, rows)
	return nil
}

func testLedger() *fakeComponentRepo {
	return &fakeComponentRepo{components: []models.Component{
		{ID: "led", Name: "LED", Price: 2.5, Quantity: 100},
		{ID: "relay", Name: "Relay", Price: 45, Quantity: 3},
		{ID: "fuse", Name: "Fuse", Price: 1, Quantity: 0},
	}}
}

func TestLowStockSummary(t *testing.T) {
	svc := NewService(testLedger(), nil, nil)

	summary, err := svc.LowStockSummary(context.Background(), 5)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	want := "Low stock (<=5 units): Relay (3), Fuse (0)."
	if summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}
}

func TestLowStockSummary_NoneLow(t *testing.T) {
	svc := NewService(testLedger(), nil, nil)

	summary, err := svc.LowStockSummary(context.Background(), -1)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary != "Low stock: none at or below -1 units." {
		t.Errorf("summary = %q", summary)
	}
}

func TestInventoryValuation(t *testing.T) {
	svc := NewService(testLedger(), nil, nil)

	total, err := svc.InventoryValuation(context.Background())
	if err != nil {
		t.Fatalf("valuation failed: %v", err)
	}
	// 2.5*100 + 45*3 + 1*0 = 385
	if got := total.InexactFloat64(); got != 385 {
		t.Errorf("valuation = %v, want 385", got)
	}
}

func TestExportSnapshot(t *testing.T) {
	sheetsRepo := &fakeSheetsRepo{}
	svc := NewService(testLedger(), sheetsRepo, nil)

	at := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	if err := svc.ExportSnapshot(context.Background(), at); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if len(sheetsRepo.rows) != 1 {
		t.Fatalf("expected one append, got %d", len(sheetsRepo.rows))
	}
	if sheetsRepo.ranges[0] != "Inventory!A:E" {
		t.Errorf("range = %q", sheetsRepo.ranges[0])
	}

	rows := sheetsRepo.rows[0]
	if len(rows) != 3 {
		t.Fatalf("expected three rows, got %d", len(rows))
	}
	first := rows[0]
	if first[0] != "2024-06-01" || first[1] != "LED" || first[2] != 100 || first[3] != 2.5 || first[4] != 250.0 {
		t.Errorf("unexpected first row: %v", first)
	}
}

func TestExportSnapshot_NoSheets(t *testing.T) {
	svc := NewService(testLedger(), nil, nil)

	if err := svc.ExportSnapshot(context.Background(), time.Now()); err != nil {
		t.Errorf("export without sheets should be a no-op, got %v", err)
	}
}
