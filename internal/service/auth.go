package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	appmail "github.com/reminderly/reminders-api/internal/mail"
	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/repository"
)

const (
	tokenTTL          = 7 * 24 * time.Hour
	minPasswordLength = 6
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// AuthService handles registration, login and password reset. Registration
// and reset are gated by email OTP codes issued through OTPService.
type AuthService struct {
	users     repository.UserRepository
	otp       *OTPService
	mailer    appmail.Mailer
	logger    *slog.Logger
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepository, otp *OTPService, mailer appmail.Mailer, logger *slog.Logger, jwtSecret []byte) *AuthService {
	return &AuthService{
		users:     users,
		otp:       otp,
		mailer:    mailer,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

// --- Input/Output types ---

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type RegisterOutput struct {
	Email     string `json:"email"`
	Delivered bool   `json:"delivered"`
}

type VerifyRegistrationInput struct {
	Email    string
	Code     string
	Name     string
	Username string
	Password string
}

type LoginInput struct {
	EmailOrUsername string
	Password        string
}

type AuthOutput struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type ForgotPasswordInput struct {
	Email string
}

type VerifyOTPInput struct {
	Email   string
	Code    string
	Purpose string
}

type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

// --- Service methods ---

// Register validates the sign-up data, rejects duplicate accounts, and issues
// a registration code. The user document is only created once the code is
// verified.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterOutput, error) {
	if err := validateSignUp(input.Name, input.Username, input.Email, input.Password); err != nil {
		return RegisterOutput{}, err
	}

	email := strings.ToLower(input.Email)

	existing, err := s.users.FindConflict(ctx, email, input.Username)
	if err == nil {
		if existing.Email == email {
			return RegisterOutput{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return RegisterOutput{}, fmt.Errorf("%w: username already taken", ErrConflict)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return RegisterOutput{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	delivered, err := s.otp.Issue(ctx, email, model.OTPPurposeRegistration)
	if err != nil {
		return RegisterOutput{}, err
	}

	return RegisterOutput{Email: email, Delivered: delivered}, nil
}

// VerifyRegistration consumes the registration code and creates the account.
// The welcome mail is best-effort.
func (s *AuthService) VerifyRegistration(ctx context.Context, input VerifyRegistrationInput) (AuthOutput, error) {
	if err := validateSignUp(input.Name, input.Username, input.Email, input.Password); err != nil {
		return AuthOutput{}, err
	}
	if len(input.Code) != 6 {
		return AuthOutput{}, fmt.Errorf("%w: code must be 6 digits", ErrInvalidInput)
	}

	ok, err := s.otp.Verify(ctx, input.Email, input.Code, model.OTPPurposeRegistration)
	if err != nil {
		return AuthOutput{}, err
	}
	if !ok {
		return AuthOutput{}, ErrInvalidCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthOutput{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hash),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		// Racing registrations land on the unique index.
		if mongo.IsDuplicateKeyError(err) {
			return AuthOutput{}, fmt.Errorf("%w: account already exists", ErrConflict)
		}
		return AuthOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendWelcome(ctx, created.Email, created.Name); err != nil {
		s.logger.Error("welcome mail failed", "email", created.Email, "error", err)
	}

	token, err := s.issueToken(created.ID.Hex())
	if err != nil {
		return AuthOutput{}, err
	}
	return AuthOutput{User: created, Token: token}, nil
}

// Login authenticates by email or username. Unknown account and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthOutput, error) {
	if input.EmailOrUsername == "" {
		return AuthOutput{}, fmt.Errorf("%w: email or username is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return AuthOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user, err := s.users.GetByEmailOrUsername(ctx, input.EmailOrUsername)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return AuthOutput{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return AuthOutput{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return AuthOutput{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.issueToken(user.ID.Hex())
	if err != nil {
		return AuthOutput{}, err
	}
	return AuthOutput{User: user, Token: token}, nil
}

// GetUser returns the account behind an authenticated request.
func (s *AuthService) GetUser(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ForgotPassword issues a password reset code. It requires an existing
// account and says so; this mirrors the original product behavior.
func (s *AuthService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) (RegisterOutput, error) {
	if !validEmail(input.Email) {
		return RegisterOutput{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	email := strings.ToLower(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return RegisterOutput{}, fmt.Errorf("%w: no account found with this email", ErrNotFound)
		}
		return RegisterOutput{}, fmt.Errorf("failed to get user: %w", err)
	}

	delivered, err := s.otp.Issue(ctx, email, model.OTPPurposePasswordReset)
	if err != nil {
		return RegisterOutput{}, err
	}
	return RegisterOutput{Email: email, Delivered: delivered}, nil
}

// VerifyOTP checks a code without any side effect beyond consuming it.
func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput) error {
	if !validEmail(input.Email) {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(input.Code) != 6 {
		return fmt.Errorf("%w: code must be 6 digits", ErrInvalidInput)
	}
	purpose := model.OTPPurpose(input.Purpose)
	if !purpose.IsValid() {
		return fmt.Errorf("%w: invalid purpose %q", ErrInvalidInput, input.Purpose)
	}

	ok, err := s.otp.Verify(ctx, input.Email, input.Code, purpose)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

// ResetPassword consumes a password_reset code and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if !validEmail(input.Email) {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(input.Code) != 6 {
		return fmt.Errorf("%w: code must be 6 digits", ErrInvalidInput)
	}
	if len(input.NewPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	ok, err := s.otp.Verify(ctx, input.Email, input.Code, model.OTPPurposePasswordReset)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if _, err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateProfile changes the display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (model.User, error) {
	if strings.TrimSpace(name) == "" {
		return model.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	user.Name = strings.TrimSpace(name)

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func validateSignUp(name, username, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-20 characters of letters, numbers and underscores", ErrInvalidInput)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
