package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

// CommentRepository stores per-project comments.
type CommentRepository interface {
	Insert(ctx context.Context, comment models.Comment) error
	ListByProject(ctx context.Context, projectID string) ([]models.Comment, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository builds the comments collection adapter.
func NewCommentRepository(store *Store) CommentRepository {
	return &commentRepository{coll: store.Database().Collection("comments")}
}

func (r *commentRepository) Insert(ctx context.Context, comment models.Comment) error {
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("insert comment for project %s: %w", comment.ProjectID, err)
	}
	return nil
}

// ListByProject returns a project's comments, oldest first.
func (r *commentRepository) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"projectId": projectID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list comments for project %s: %w", projectID, err)
	}

	comments := make([]models.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("delete comments for project %s: %w", projectID, err)
	}
	return res.DeletedCount, nil
}
