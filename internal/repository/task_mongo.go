package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/model"
)

type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewMongoTask(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection("tasks")}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	return task, nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		// A malformed id can never match a document.
		return model.Task{}, fmt.Errorf("failed to get task: %w", mongo.ErrNoDocuments)
	}

	var t model.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&t); err != nil {
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	task.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": task.ID, "user_id": task.UserID}, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.Task{}, fmt.Errorf("failed to update task: %w", mongo.ErrNoDocuments)
	}
	return task, nil
}

func (r *MongoTaskRepository) ListByOwner(ctx context.Context, userID string) ([]model.Task, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var tasks []model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", mongo.ErrNoDocuments)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete task: %w", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoTaskRepository) SoftDeleteMany(ctx context.Context, userID string, taskIDs []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(taskIDs))
	for _, id := range taskIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}, "user_id": userID},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete tasks: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoTaskRepository) TrashCompleted(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_completed": true, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to trash completed tasks: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoTaskRepository) PurgeDeleted(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID, "is_deleted": true})
	if err != nil {
		return 0, fmt.Errorf("failed to purge deleted tasks: %w", err)
	}
	return res.DeletedCount, nil
}

// ensure compile-time interface compliance
var _ TaskRepository = (*MongoTaskRepository)(nil)
