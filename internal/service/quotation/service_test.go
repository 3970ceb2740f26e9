package quotation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

type fakeQuotationRepo struct {
	saved []models.Quotation
}

func (f *fakeQuotationRepo) Insert(_ context.Context, quotation models.Quotation) error {
	f.saved = append(f.saved, quotation)
	return nil
}

func (f *fakeQuotationRepo) ListByProject(_ context.Context, projectID string) ([]models.Quotation, error) {
	out := make([]models.Quotation, 0)
	for _, q := range f.saved {
		if q.ProjectID == projectID {
			out = append(out, q)
		}
	}
	return out, nil
}

func TestCreate_ComputesTotals(t *testing.T) {
	repo := &fakeQuotationRepo{}
	svc := NewService(repo, nil)

	saved, err := svc.Create(context.Background(), CreateInput{
		ProjectID: "smart-lamp",
		Date:      "2024-03-01T00:00:00Z",
		Items: []ItemInput{
			{Name: "LED", Quantity: 3, Price: 2.1},
			{Name: "Resistor", Quantity: 100, Price: 0.015},
		},
		PreparedBy: "Sam",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(saved.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(saved.Items))
	}
	// 3 * 2.1 in float64 is 6.300000000000001; the stored total must be
	// the rounded decimal product.
	if saved.Items[0].Total != 6.3 {
		t.Errorf("first line total = %v, want 6.3", saved.Items[0].Total)
	}
	if saved.Items[1].Total != 1.5 {
		t.Errorf("second line total = %v, want 1.5", saved.Items[1].Total)
	}
	if saved.Total != 7.8 {
		t.Errorf("grand total = %v, want 7.8", saved.Total)
	}
	if saved.ID == "" {
		t.Error("expected generated id")
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected one persisted quotation, got %d", len(repo.saved))
	}
}

func TestCreate_DefaultsDate(t *testing.T) {
	repo := &fakeQuotationRepo{}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC) }

	saved, err := svc.Create(context.Background(), CreateInput{ProjectID: "p1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if saved.Date != "2024-05-20T09:30:00Z" {
		t.Errorf("date = %q, want clock default", saved.Date)
	}
}

func TestCreate_RequiresProject(t *testing.T) {
	svc := NewService(&fakeQuotationRepo{}, nil)

	testCases := []string{"", "   "}
	for _, projectID := range testCases {
		if _, err := svc.Create(context.Background(), CreateInput{ProjectID: projectID}); !errors.Is(err, ErrProjectRequired) {
			t.Errorf("Create(%q) error = %v, want ErrProjectRequired", projectID, err)
		}
	}
}

func TestListByProject(t *testing.T) {
	repo := &fakeQuotationRepo{saved: []models.Quotation{
		{ID: "a", ProjectID: "p1"},
		{ID: "b", ProjectID: "p2"},
		{ID: "c", ProjectID: "p1"},
	}}
	svc := NewService(repo, nil)

	got, err := svc.ListByProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected two quotations, got %d", len(got))
	}
}
