package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
)

type fakeCustomerRepo struct {
	docs map[string]models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{docs: make(map[string]models.Customer)}
}

func (f *fakeCustomerRepo) Get(_ context.Context, id string) (*models.Customer, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	copied := doc
	return &copied, nil
}

func (f *fakeCustomerRepo) List(_ context.Context) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeCustomerRepo) Merge(_ context.Context, id string, fields bson.M) error {
	doc, exists := f.docs[id]
	if !exists {
		doc = models.Customer{ID: id, Payments: []models.Payment{}}
	}
	applyFields(&doc, fields)
	f.docs[id] = doc
	return nil
}

func (f *fakeCustomerRepo) Patch(_ context.Context, id string, fields bson.M) error {
	doc, exists := f.docs[id]
	if !exists {
		return mongodb.ErrNotFound
	}
	applyFields(&doc, fields)
	f.docs[id] = doc
	return nil
}

func (f *fakeCustomerRepo) AppendPayment(_ context.Context, id string, payment models.Payment) error {
	doc, exists := f.docs[id]
	if !exists {
		return mongodb.ErrNotFound
	}
	doc.Payments = append(doc.Payments, payment)
	f.docs[id] = doc
	return nil
}

func (f *fakeCustomerRepo) ClearPayments(_ context.Context, id string) error {
	doc, exists := f.docs[id]
	if !exists {
		return mongodb.ErrNotFound
	}
	doc.Payments = []models.Payment{}
	doc.PaymentsDeleted = true
	f.docs[id] = doc
	return nil
}

func applyFields(doc *models.Customer, fields bson.M) {
	for key, value := range fields {
		s, _ := value.(string)
		switch key {
		case "projectName":
			doc.ProjectName = s
		case "customerName":
			doc.CustomerName = s
		case "phone":
			doc.Phone = s
		case "email":
			doc.Email = s
		case "address":
			doc.Address = s
		case "notes":
			doc.Notes = s
		}
	}
}

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

type fakeCommentRepo struct {
	comments []models.Comment
}

func (f *fakeCommentRepo) Insert(_ context.Context, comment models.Comment) error {
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentRepo) ListByProject(_ context.Context, projectID string) ([]models.Comment, error) {
	out := make([]models.Comment, 0)
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	kept := f.comments[:0]
	var deleted int64
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	f.comments = kept
	return deleted, nil
}

func newTestService() (*Service, *fakeCustomerRepo, *fakeQuotationRepo, *fakeCommentRepo) {
	customers := newFakeCustomerRepo()
	quotations := &fakeQuotationRepo{}
	comments := &fakeCommentRepo{}
	svc := NewService(customers, quotations, comments, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, customers, quotations, comments
}

func TestCreateOrMerge(t *testing.T) {
	svc, customers, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.CreateOrMerge(ctx, UpsertInput{
		ProjectName:  "Smart Lamp",
		CustomerName: "Acme",
		Phone:        "+100",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id != "smart-lamp" {
		t.Errorf("id = %q, want smart-lamp", id)
	}

	doc := customers.docs["smart-lamp"]
	if doc.CustomerName != "Acme" || doc.Phone != "+100" {
		t.Errorf("unexpected document: %+v", doc)
	}

	// A later merge with sparse fields leaves the rest intact.
	if _, err := svc.CreateOrMerge(ctx, UpsertInput{ProjectName: "Smart Lamp", Email: "acme@example.com"}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	doc = customers.docs["smart-lamp"]
	if doc.CustomerName != "Acme" || doc.Email != "acme@example.com" {
		t.Errorf("merge clobbered fields: %+v", doc)
	}
}

func TestCreateOrMerge_RequiresProjectName(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.CreateOrMerge(context.Background(), UpsertInput{ProjectName: "  "}); !errors.Is(err, ErrProjectNameRequired) {
		t.Errorf("error = %v, want ErrProjectNameRequired", err)
	}
}

func TestCreateOrMerge_ExplicitIDWins(t *testing.T) {
	svc, customers, _, _ := newTestService()

	id, err := svc.CreateOrMerge(context.Background(), UpsertInput{ProjectID: "custom-id", ProjectName: "Smart Lamp"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id != "custom-id" {
		t.Errorf("id = %q, want custom-id", id)
	}
	if _, exists := customers.docs["custom-id"]; !exists {
		t.Error("document not stored under explicit id")
	}
}

func TestPatch(t *testing.T) {
	svc, customers, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOrMerge(ctx, UpsertInput{ProjectName: "Smart Lamp", Phone: "+100"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	phone := "+200"
	if err := svc.Patch(ctx, "smart-lamp", models.CustomerPatch{Phone: &phone}); err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if customers.docs["smart-lamp"].Phone != "+200" {
		t.Errorf("phone not updated: %+v", customers.docs["smart-lamp"])
	}

	// An empty patch never reaches storage, so unknown ids pass.
	if err := svc.Patch(ctx, "missing", models.CustomerPatch{}); err != nil {
		t.Errorf("empty patch should be a no-op, got %v", err)
	}
	if err := svc.Patch(ctx, "missing", models.CustomerPatch{Phone: &phone}); !errors.Is(err, mongodb.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAddPayment(t *testing.T) {
	svc, customers, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOrMerge(ctx, UpsertInput{ProjectName: "Smart Lamp"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	payment, err := svc.AddPayment(ctx, "smart-lamp", PaymentInput{Amount: 500, Method: "cash", AdminName: "alice"})
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if payment.ID == "" || payment.Date != "2024-06-01T12:00:00Z" {
		t.Errorf("unexpected payment: %+v", payment)
	}
	if got := customers.docs["smart-lamp"].Payments; len(got) != 1 || got[0].Amount != 500 {
		t.Errorf("payment not recorded: %+v", got)
	}

	testCases := []struct {
		name  string
		input PaymentInput
	}{
		{"zero amount", PaymentInput{Amount: 0, Method: "cash", AdminName: "alice"}},
		{"negative amount", PaymentInput{Amount: -5, Method: "cash", AdminName: "alice"}},
		{"missing method", PaymentInput{Amount: 10, AdminName: "alice"}},
		{"missing admin", PaymentInput{Amount: 10, Method: "cash"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.AddPayment(ctx, "smart-lamp", tc.input); !errors.Is(err, ErrPaymentFieldsRequired) {
				t.Errorf("error = %v, want ErrPaymentFieldsRequired", err)
			}
		})
	}
}

func TestClearPayments(t *testing.T) {
	svc, customers, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOrMerge(ctx, UpsertInput{ProjectName: "Smart Lamp"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.AddPayment(ctx, "smart-lamp", PaymentInput{Amount: 500, Method: "cash", AdminName: "alice"}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	if err := svc.ClearPayments(ctx, "smart-lamp"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	doc := customers.docs["smart-lamp"]
	if len(doc.Payments) != 0 || !doc.PaymentsDeleted {
		t.Errorf("payments not cleared: %+v", doc)
	}
}

func TestProjectHistory(t *testing.T) {
	svc, _, quotations, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateOrMerge(ctx, UpsertInput{ProjectName: "Smart Lamp"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	quotations.saved = []models.Quotation{
		{ID: "q1", ProjectID: "smart-lamp"},
		{ID: "q2", ProjectID: "other"},
	}

	customer, quotes, err := svc.ProjectHistory(ctx, "smart-lamp")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if customer.ID != "smart-lamp" {
		t.Errorf("unexpected customer: %+v", customer)
	}
	if len(quotes) != 1 || quotes[0].ID != "q1" {
		t.Errorf("unexpected quotations: %+v", quotes)
	}

	if _, _, err := svc.ProjectHistory(ctx, "missing"); !errors.Is(err, mongodb.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestComments(t *testing.T) {
	svc, _, _, comments := newTestService()
	ctx := context.Background()

	saved, err := svc.AddComment(ctx, CommentInput{ProjectID: "p1", Text: "waiting on parts", Admin: "alice"})
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	if saved.Date != "2024-06-01T12:00:00Z" {
		t.Errorf("expected clock default date, got %q", saved.Date)
	}

	if _, err := svc.AddComment(ctx, CommentInput{ProjectID: "p1", Admin: "alice"}); !errors.Is(err, ErrCommentFieldsRequired) {
		t.Errorf("error = %v, want ErrCommentFieldsRequired", err)
	}

	got, err := svc.Comments(ctx, "p1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one comment, got %d", len(got))
	}

	deleted, err := svc.DeleteComments(ctx, "p1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if len(comments.comments) != 0 {
		t.Errorf("comments not removed: %+v", comments.comments)
	}
}
