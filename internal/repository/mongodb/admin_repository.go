package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

// AdminRepository stores operator accounts.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, admin models.Admin) error
	UpdatePassword(ctx context.Context, id string, password string, changedAt string) error
}

type adminRepository struct {
	coll *mongo.Collection
}

// NewAdminRepository builds the admins collection adapter.
func NewAdminRepository(store *Store) AdminRepository {
	return &adminRepository{coll: store.Database().Collection("admins")}
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin %s: %w", username, err)
	}
	return &admin, nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

func (r *adminRepository) Insert(ctx context.Context, admin models.Admin) error {
	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("insert admin %s: %w", admin.Username, err)
	}
	return nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id string, password string, changedAt string) error {
	update := bson.M{"$set": bson.M{"password": password, "lastPasswordChange": changedAt}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update password for admin %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
