package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

// HistoryRepository is the append-only audit trail of ledger changes.
// Nothing edits or removes records; concurrent appends need no
// coordination.
type HistoryRepository interface {
	Append(ctx context.Context, record models.HistoryRecord) error
	List(ctx context.Context) ([]models.HistoryRecord, error)
}

type historyRepository struct {
	coll *mongo.Collection
}

// NewHistoryRepository builds the component history collection adapter.
func NewHistoryRepository(store *Store) HistoryRepository {
	return &historyRepository{coll: store.Database().Collection("component_history")}
}

func (r *historyRepository) Append(ctx context.Context, record models.HistoryRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("append history record for %s: %w", record.Name, err)
	}
	return nil
}

// List returns all records ordered by date descending, newest first.
func (r *historyRepository) List(ctx context.Context) ([]models.HistoryRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	records := make([]models.HistoryRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}
