package repository

import (
	"context"
	"time"

	"github.com/reminderly/reminders-api/internal/model"
)

type OTPRepository interface {
	Create(ctx context.Context, otp model.OTP) (model.OTP, error)
	// Consume atomically finds an unused, unexpired code matching email, code
	// and purpose, and marks it used. Two concurrent calls for the same code
	// must not both succeed.
	Consume(ctx context.Context, email, code string, purpose model.OTPPurpose, now time.Time) error
}
