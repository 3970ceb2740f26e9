package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

// ComponentRepository defines storage for ledger entries. Update is
// version-checked: the write only lands when the document still holds
// the version the caller read, otherwise ErrConflict is returned and
// the caller must redo its read-merge-write cycle.
type ComponentRepository interface {
	Get(ctx context.Context, id string) (*models.Component, error)
	List(ctx context.Context) ([]models.Component, error)
	Insert(ctx context.Context, component models.Component) error
	Update(ctx context.Context, component models.Component, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

type componentRepository struct {
	coll *mongo.Collection
}

// NewComponentRepository builds the components collection adapter.
func NewComponentRepository(store *Store) ComponentRepository {
	return &componentRepository{coll: store.Database().Collection("components")}
}

func (r *componentRepository) Get(ctx context.Context, id string) (*models.Component, error) {
	var component models.Component
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&component)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get component %s: %w", id, err)
	}
	return &component, nil
}

func (r *componentRepository) List(ctx context.Context) ([]models.Component, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}

	components := make([]models.Component, 0)
	if err := cursor.All(ctx, &components); err != nil {
		return nil, fmt.Errorf("decode components: %w", err)
	}
	return components, nil
}

func (r *componentRepository) Insert(ctx context.Context, component models.Component) error {
	if _, err := r.coll.InsertOne(ctx, component); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert component %s: %w", component.ID, err)
	}
	return nil
}

func (r *componentRepository) Update(ctx context.Context, component models.Component, expectedVersion int64) error {
	filter := bson.M{"_id": component.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"name":         component.Name,
			"price":        component.Price,
			"quantity":     component.Quantity,
			"contributors": component.Contributors,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update component %s: %w", component.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *componentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete component %s: %w", id, err)
	}
	return nil
}
