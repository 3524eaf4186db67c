package repository

import (
	"context"
	"errors"
	"fmt"
	feedbackerrors "roomly/internal/feedback/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Feedback"

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	FindByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Feedback, error)
	CountByRoom(ctx context.Context, roomID string) (int64, error)
	Resolve(ctx context.Context, id string, status model.FeedbackStatus, resolverID, comment string) error
}

type mongoFeedbackRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFeedbackRepository(cfg *config.Config) FeedbackRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFeedbackRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, feedback); err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *mongoFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, feedbackerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}

	return &feedback, nil
}

func (r *mongoFeedbackRepository) FindByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Feedback, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback by room: %w", err)
	}
	defer cursor.Close(ctx)

	var feedback []*model.Feedback
	if err = cursor.All(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	return feedback, nil
}

func (r *mongoFeedbackRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

// Resolve closes a report. The status filter makes the write a
// compare-and-swap: only OPEN feedback can be closed, and two racing
// resolvers cannot both win.
func (r *mongoFeedbackRepository) Resolve(ctx context.Context, id string, status model.FeedbackStatus, resolverID, comment string) error {
	update := bson.M{
		"$set": bson.M{
			"status":             status,
			"resolver_id":        resolverID,
			"resolution_comment": comment,
			"updated_at":         time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":    id,
		"status": model.FeedbackOpen,
	}, update)
	if err != nil {
		return fmt.Errorf("failed to resolve feedback: %w", err)
	}
	if result.MatchedCount == 0 {
		return feedbackerrors.ErrNotOpen
	}

	return nil
}
