package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/model"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUser(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, userID string) (model.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", mongo.ErrNoDocuments)
	}

	var u model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	if err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepository) GetByEmailOrUsername(ctx context.Context, value string) (model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(value)},
		bson.M{"username": value},
	}}

	var u model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return model.User{}, fmt.Errorf("failed to get user by email or username: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepository) FindConflict(ctx context.Context, email, username string) (model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(email)},
		bson.M{"username": username},
	}}

	var u model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return model.User{}, fmt.Errorf("failed to check user conflict: %w", err)
	}
	return u, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.User{}, fmt.Errorf("failed to update user: %w", mongo.ErrNoDocuments)
	}
	return user, nil
}

var _ UserRepository = (*MongoUserRepository)(nil)
