package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

func (p OTPPurpose) IsValid() bool {
	return p == OTPPurposeRegistration || p == OTPPurposePasswordReset
}

// OTPTTL is the validity window of a code, measured from issuance.
const OTPTTL = 10 * time.Minute

type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	Type      OTPPurpose         `bson:"type" json:"type"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	IsUsed    bool               `bson:"is_used" json:"is_used"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
