package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reminderly/reminders-api/internal/model"
)

type MongoListRepository struct {
	coll *mongo.Collection
}

func NewMongoList(db *mongo.Database) *MongoListRepository {
	return &MongoListRepository{coll: db.Collection("lists")}
}

func (r *MongoListRepository) Create(ctx context.Context, list model.List) (model.List, error) {
	list.ID = primitive.NewObjectID()
	list.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, list); err != nil {
		return model.List{}, fmt.Errorf("failed to insert list: %w", err)
	}
	return list, nil
}

func (r *MongoListRepository) GetByID(ctx context.Context, userID, listID string) (model.List, error) {
	oid, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to get list: %w", mongo.ErrNoDocuments)
	}

	var l model.List
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&l); err != nil {
		return model.List{}, fmt.Errorf("failed to get list: %w", err)
	}
	return l, nil
}

func (r *MongoListRepository) ListByOwner(ctx context.Context, userID string) ([]model.List, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}

	var lists []model.List
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode lists: %w", err)
	}
	if lists == nil {
		lists = []model.List{}
	}
	return lists, nil
}

func (r *MongoListRepository) Update(ctx context.Context, list model.List) (model.List, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": list.ID, "user_id": list.UserID}, list)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to update list: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.List{}, fmt.Errorf("failed to update list: %w", mongo.ErrNoDocuments)
	}
	return list, nil
}

func (r *MongoListRepository) Delete(ctx context.Context, userID, listID string) error {
	oid, err := primitive.ObjectIDFromHex(listID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", mongo.ErrNoDocuments)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete list: %w", mongo.ErrNoDocuments)
	}
	return nil
}

var _ ListRepository = (*MongoListRepository)(nil)
