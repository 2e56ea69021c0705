package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hiddenspots/internal/errors"
	"hiddenspots/internal/model"
)

// SpotRepository defines spot persistence operations.
type SpotRepository interface {
	Create(ctx context.Context, spot *model.Spot) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Spot, error)
	Search(ctx context.Context, params SearchParams) ([]model.Spot, error)
	ListAll(ctx context.Context) ([]model.Spot, error)
	ListFlagged(ctx context.Context) ([]model.Spot, error)
	Replace(ctx context.Context, spot *model.Spot) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type spotRepository struct {
	col *mongo.Collection
}

// NewSpotRepository creates a MongoDB-backed spot repository.
func NewSpotRepository(database *mongo.Database) SpotRepository {
	return &spotRepository{col: database.Collection(model.SpotCollection)}
}

// Create inserts a new spot document and records the generated ID.
func (r *spotRepository) Create(ctx context.Context, spot *model.Spot) error {
	res, err := r.col.InsertOne(ctx, spot)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		spot.ID = oid
	}
	return nil
}

// FindByID finds a spot by ID.
func (r *spotRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Spot, error) {
	var spot model.Spot
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&spot)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrSpotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

// Search runs the compound proximity query. Result order is the $near
// distance ranking, nearest first.
func (r *spotRepository) Search(ctx context.Context, params SearchParams) ([]model.Spot, error) {
	cursor, err := r.col.Find(ctx, buildSearchFilter(params))
	if err != nil {
		return nil, err
	}
	return decodeSpots(ctx, cursor)
}

// ListAll returns every spot in natural order.
func (r *spotRepository) ListAll(ctx context.Context) ([]model.Spot, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeSpots(ctx, cursor)
}

// ListFlagged returns spots awaiting moderation.
func (r *spotRepository) ListFlagged(ctx context.Context) ([]model.Spot, error) {
	cursor, err := r.col.Find(ctx, bson.M{"flagged": true})
	if err != nil {
		return nil, err
	}
	return decodeSpots(ctx, cursor)
}

// Replace saves the whole document back. Last write wins on concurrent
// updates to the same spot.
func (r *spotRepository) Replace(ctx context.Context, spot *model.Spot) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": spot.ID}, spot)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrSpotNotFound
	}
	return nil
}

// Delete removes a spot permanently.
func (r *spotRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.ErrSpotNotFound
	}
	return nil
}

func decodeSpots(ctx context.Context, cursor *mongo.Cursor) ([]model.Spot, error) {
	spots := []model.Spot{}
	if err := cursor.All(ctx, &spots); err != nil {
		return nil, err
	}
	return spots, nil
}
