package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

// QuotationRepository stores saved quotations.
type QuotationRepository interface {
	Insert(ctx context.Context, quotation models.Quotation) error
	ListByProject(ctx context.Context, projectID string) ([]models.Quotation, error)
}

type quotationRepository struct {
	coll *mongo.Collection
}

// NewQuotationRepository builds the quotations collection adapter.
func NewQuotationRepository(store *Store) QuotationRepository {
	return &quotationRepository{coll: store.Database().Collection("quotations")}
}

func (r *quotationRepository) Insert(ctx context.Context, quotation models.Quotation) error {
	if _, err := r.coll.InsertOne(ctx, quotation); err != nil {
		return fmt.Errorf("insert quotation %s: %w", quotation.ID, err)
	}
	return nil
}

// ListByProject returns a project's quotations, newest first.
func (r *quotationRepository) ListByProject(ctx context.Context, projectID string) ([]models.Quotation, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"projectId": projectID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list quotations for project %s: %w", projectID, err)
	}

	quotations := make([]models.Quotation, 0)
	if err := cursor.All(ctx, &quotations); err != nil {
		return nil, fmt.Errorf("decode quotations: %w", err)
	}
	return quotations, nil
}
