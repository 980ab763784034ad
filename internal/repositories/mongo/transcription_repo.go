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
)

type transcriptionRepo struct {
	col *mongo.Collection
}

func NewTranscriptionRepo(db *mongo.Database) repositories.TranscriptionRepository {
	return &transcriptionRepo{col: db.Collection("transcriptions")}
}

func (r *transcriptionRepo) Insert(ctx context.Context, t *models.Transcription) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *transcriptionRepo) GetByID(ctx context.Context, id string) (*models.Transcription, error) {
	var t models.Transcription
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &t, err
}
