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

type MongoOTPRepository struct {
	coll *mongo.Collection
}

func NewMongoOTP(db *mongo.Database) *MongoOTPRepository {
	return &MongoOTPRepository{coll: db.Collection("otps")}
}

func (r *MongoOTPRepository) Create(ctx context.Context, otp model.OTP) (model.OTP, error) {
	now := time.Now().UTC()
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = now
	otp.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, otp); err != nil {
		return model.OTP{}, fmt.Errorf("failed to insert otp: %w", err)
	}
	return otp, nil
}

// Consume relies on FindOneAndUpdate matching and marking in one step, so a
// code observed unused by two concurrent verifications is consumed exactly
// once. Expired documents never match regardless of TTL sweep timing.
func (r *MongoOTPRepository) Consume(ctx context.Context, email, code string, purpose model.OTPPurpose, now time.Time) error {
	filter := bson.M{
		"email":      email,
		"code":       code,
		"type":       purpose,
		"is_used":    false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"is_used": true, "updated_at": now}}

	if err := r.coll.FindOneAndUpdate(ctx, filter, update).Err(); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	return nil
}

var _ OTPRepository = (*MongoOTPRepository)(nil)
