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

// CustomerRepository stores customer/project documents. Merge and
// Patch write only the supplied fields, leaving the rest of the
// document untouched; AppendPayment is an atomic array push so
// concurrent payment writers cannot clobber each other.
type CustomerRepository interface {
	Get(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Merge(ctx context.Context, id string, fields bson.M) error
	Patch(ctx context.Context, id string, fields bson.M) error
	AppendPayment(ctx context.Context, id string, payment models.Payment) error
	ClearPayments(ctx context.Context, id string) error
}

type customerRepository struct {
	coll *mongo.Collection
}

// NewCustomerRepository builds the customers collection adapter.
func NewCustomerRepository(store *Store) CustomerRepository {
	return &customerRepository{coll: store.Database().Collection("customers")}
}

func (r *customerRepository) Get(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]models.Customer, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "projectName", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]models.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}

// Merge upserts: fields are written into the document, creating it
// when absent. A fresh document starts with an empty payments array.
func (r *customerRepository) Merge(ctx context.Context, id string, fields bson.M) error {
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"payments": []models.Payment{}},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("merge customer %s: %w", id, err)
	}
	return nil
}

func (r *customerRepository) Patch(ctx context.Context, id string, fields bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("patch customer %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) AppendPayment(ctx context.Context, id string, payment models.Payment) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"payments": payment}})
	if err != nil {
		return fmt.Errorf("append payment for customer %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) ClearPayments(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"payments": []models.Payment{}, "paymentsDeleted": true}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("clear payments for customer %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
