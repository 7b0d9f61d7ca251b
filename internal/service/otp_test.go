package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/service"
)

// mockOTPRepo implements repository.OTPRepository for testing
type mockOTPRepo struct {
	createFn  func(ctx context.Context, otp model.OTP) (model.OTP, error)
	consumeFn func(ctx context.Context, email, code string, purpose model.OTPPurpose, now time.Time) error
}

func (m *mockOTPRepo) Create(ctx context.Context, otp model.OTP) (model.OTP, error) {
	return m.createFn(ctx, otp)
}
func (m *mockOTPRepo) Consume(ctx context.Context, email, code string, purpose model.OTPPurpose, now time.Time) error {
	return m.consumeFn(ctx, email, code, purpose, now)
}

// flakyMailer fails delivery on demand.
type flakyMailer struct {
	fail  bool
	sends int
}

func (m *flakyMailer) SendOTP(ctx context.Context, to, code string, purpose model.OTPPurpose) error {
	if m.fail {
		return fmt.Errorf("smtp down")
	}
	m.sends++
	return nil
}
func (m *flakyMailer) SendWelcome(ctx context.Context, to, name string) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := service.GenerateCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestOTPIssue(t *testing.T) {
	t.Run("stores and delivers", func(t *testing.T) {
		var stored model.OTP
		repo := &mockOTPRepo{
			createFn: func(ctx context.Context, otp model.OTP) (model.OTP, error) {
				stored = otp
				return otp, nil
			},
		}
		mailer := &flakyMailer{}
		svc := service.NewOTPService(repo, mailer, discardLogger())

		delivered, err := svc.Issue(context.Background(), "Danny@Example.com", model.OTPPurposeRegistration)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !delivered {
			t.Error("expected delivered=true")
		}
		if stored.Email != "danny@example.com" {
			t.Errorf("expected lowercased email, got %q", stored.Email)
		}
		if len(stored.Code) != 6 {
			t.Errorf("expected 6-digit code, got %q", stored.Code)
		}
		if !stored.ExpiresAt.After(time.Now()) {
			t.Error("expected a future expiry")
		}
		if mailer.sends != 1 {
			t.Errorf("expected 1 send, got %d", mailer.sends)
		}
	})

	t.Run("delivery failure is not an error", func(t *testing.T) {
		repo := &mockOTPRepo{
			createFn: func(ctx context.Context, otp model.OTP) (model.OTP, error) {
				return otp, nil
			},
		}
		svc := service.NewOTPService(repo, &flakyMailer{fail: true}, discardLogger())

		delivered, err := svc.Issue(context.Background(), "danny@example.com", model.OTPPurposeRegistration)
		if err != nil {
			t.Fatalf("expected nil error on delivery failure, got %v", err)
		}
		if delivered {
			t.Error("expected delivered=false")
		}
	})

	t.Run("store failure is an error", func(t *testing.T) {
		repo := &mockOTPRepo{
			createFn: func(ctx context.Context, otp model.OTP) (model.OTP, error) {
				return model.OTP{}, fmt.Errorf("db error")
			},
		}
		svc := service.NewOTPService(repo, &flakyMailer{}, discardLogger())

		if _, err := svc.Issue(context.Background(), "danny@example.com", model.OTPPurposeRegistration); err == nil {
			t.Error("expected error when storing fails")
		}
	})

	t.Run("unknown purpose rejected", func(t *testing.T) {
		svc := service.NewOTPService(&mockOTPRepo{}, &flakyMailer{}, discardLogger())

		if _, err := svc.Issue(context.Background(), "danny@example.com", "2fa"); err == nil {
			t.Error("expected error for unknown purpose")
		}
	})
}

func TestOTPVerify(t *testing.T) {
	tests := []struct {
		name       string
		consumeErr error
		wantOK     bool
		wantErr    bool
	}{
		{"match consumed", nil, true, false},
		{"no match", mongo.ErrNoDocuments, false, false},
		{"wrapped no match", fmt.Errorf("consume: %w", mongo.ErrNoDocuments), false, false},
		{"store error", fmt.Errorf("db error"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockOTPRepo{
				consumeFn: func(ctx context.Context, email, code string, purpose model.OTPPurpose, now time.Time) error {
					if email != "danny@example.com" {
						t.Errorf("expected lowercased email, got %q", email)
					}
					return tt.consumeErr
				},
			}
			svc := service.NewOTPService(repo, &flakyMailer{}, discardLogger())

			ok, err := svc.Verify(context.Background(), "Danny@Example.com", "123456", model.OTPPurposePasswordReset)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
		})
	}
}
