package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/mail"
	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/repository"
)

// OTPService issues, delivers and consumes one-time codes.
type OTPService struct {
	repo   repository.OTPRepository
	mailer mail.Mailer
	logger *slog.Logger
}

func NewOTPService(repo repository.OTPRepository, mailer mail.Mailer, logger *slog.Logger) *OTPService {
	return &OTPService{repo: repo, mailer: mailer, logger: logger}
}

// GenerateCode returns a uniformly random 6-digit decimal code in
// [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// Issue stores a fresh code valid for ten minutes and attempts delivery.
// Outstanding codes for the same email and purpose stay valid. The code
// counts as issued once stored: delivery failure is logged and reported only
// through the returned flag.
func (s *OTPService) Issue(ctx context.Context, email string, purpose model.OTPPurpose) (bool, error) {
	if !purpose.IsValid() {
		return false, fmt.Errorf("%w: unknown otp purpose %q", ErrInvalidInput, purpose)
	}

	code, err := GenerateCode()
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	otp := model.OTP{
		Email:     strings.ToLower(email),
		Code:      code,
		Type:      purpose,
		ExpiresAt: now.Add(model.OTPTTL),
	}
	if _, err := s.repo.Create(ctx, otp); err != nil {
		return false, fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code, purpose); err != nil {
		s.logger.Error("otp delivery failed", "email", email, "purpose", string(purpose), "error", err)
		return false, nil
	}
	return true, nil
}

// Verify consumes a matching code. A false result covers wrong, expired and
// already-used codes alike; it is not an error.
func (s *OTPService) Verify(ctx context.Context, email, code string, purpose model.OTPPurpose) (bool, error) {
	if !purpose.IsValid() {
		return false, fmt.Errorf("%w: unknown otp purpose %q", ErrInvalidInput, purpose)
	}

	err := s.repo.Consume(ctx, strings.ToLower(email), code, purpose, time.Now().UTC())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify otp: %w", err)
	}
	return true, nil
}
