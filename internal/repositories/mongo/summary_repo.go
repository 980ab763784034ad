package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/repositories"
	"github.com/yoockh/ayuda/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type summaryRepo struct {
	col *mongo.Collection
}

func NewSummaryRepo(db *mongo.Database) repositories.SummaryRepository {
	return &summaryRepo{col: db.Collection("summaries")}
}

func (r *summaryRepo) Insert(ctx context.Context, s *models.Summary) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *summaryRepo) GetByID(ctx context.Context, id string) (*models.Summary, error) {
	var s models.Summary
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *summaryRepo) List(ctx context.Context, limit int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
