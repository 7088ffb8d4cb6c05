package repositories

import (
	"context"
	"fmt"

	"task-manager/tasks-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusRepo is the append-only store of status-check pings.
type StatusRepo struct {
	collection *mongo.Collection
}

func NewStatusRepo(collection *mongo.Collection) *StatusRepo {
	return &StatusRepo{collection: collection}
}

func (r *StatusRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("status_check_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create status check index: %w", err)
	}
	return nil
}

func (r *StatusRepo) Insert(ctx context.Context, check *models.StatusCheck) error {
	if _, err := r.collection.InsertOne(ctx, check); err != nil {
		return fmt.Errorf("%w: failed to create status check: %w", models.ErrPersistence, err)
	}
	return nil
}

// List returns up to limit records in natural storage order.
func (r *StatusRepo) List(ctx context.Context, limit int64) ([]models.StatusCheck, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve status checks: %w", err)
	}
	defer cursor.Close(ctx)

	checks := make([]models.StatusCheck, 0)
	if err := cursor.All(ctx, &checks); err != nil {
		return nil, fmt.Errorf("failed to decode status checks: %w", err)
	}
	return checks, nil
}
