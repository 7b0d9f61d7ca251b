package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/service"
)

// mockListRepo implements repository.ListRepository for testing
type mockListRepo struct {
	createFn      func(ctx context.Context, list model.List) (model.List, error)
	getByIDFn     func(ctx context.Context, userID, listID string) (model.List, error)
	listByOwnerFn func(ctx context.Context, userID string) ([]model.List, error)
	updateFn      func(ctx context.Context, list model.List) (model.List, error)
	deleteFn      func(ctx context.Context, userID, listID string) error
}

func (m *mockListRepo) Create(ctx context.Context, list model.List) (model.List, error) {
	return m.createFn(ctx, list)
}
func (m *mockListRepo) GetByID(ctx context.Context, userID, listID string) (model.List, error) {
	return m.getByIDFn(ctx, userID, listID)
}
func (m *mockListRepo) ListByOwner(ctx context.Context, userID string) ([]model.List, error) {
	return m.listByOwnerFn(ctx, userID)
}
func (m *mockListRepo) Update(ctx context.Context, list model.List) (model.List, error) {
	return m.updateFn(ctx, list)
}
func (m *mockListRepo) Delete(ctx context.Context, userID, listID string) error {
	return m.deleteFn(ctx, userID, listID)
}

func sp(s string) *string { return &s }

func TestListCreate(t *testing.T) {
	tests := []struct {
		name      string
		input     service.CreateListInput
		wantErr   error
		wantColor string
		wantEmoji string
	}{
		{
			name:      "defaults applied",
			input:     service.CreateListInput{Name: "Groceries"},
			wantColor: model.DefaultListColor,
			wantEmoji: model.DefaultListEmoji,
		},
		{
			name:      "explicit color and emoji",
			input:     service.CreateListInput{Name: "Work", Color: "#FF0000", Emoji: "💼"},
			wantColor: "#FF0000",
			wantEmoji: "💼",
		},
		{
			name:    "blank name",
			input:   service.CreateListInput{Name: "   "},
			wantErr: service.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockListRepo{
				createFn: func(ctx context.Context, list model.List) (model.List, error) {
					list.ID = primitive.NewObjectID()
					return list, nil
				},
			}
			svc := service.NewListService(repo)

			got, err := svc.Create(context.Background(), "user-1", tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.UserID != "user-1" {
				t.Errorf("expected owner user-1, got %q", got.UserID)
			}
			if got.Color != tt.wantColor {
				t.Errorf("expected color %q, got %q", tt.wantColor, got.Color)
			}
			if got.Emoji != tt.wantEmoji {
				t.Errorf("expected emoji %q, got %q", tt.wantEmoji, got.Emoji)
			}
		})
	}
}

func TestListUpdate_PartialFields(t *testing.T) {
	existing := model.List{
		ID:     primitive.NewObjectID(),
		UserID: "user-1",
		Name:   "Groceries",
		Color:  model.DefaultListColor,
		Emoji:  model.DefaultListEmoji,
	}
	repo := &mockListRepo{
		getByIDFn: func(ctx context.Context, userID, listID string) (model.List, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, list model.List) (model.List, error) {
			return list, nil
		},
	}
	svc := service.NewListService(repo)

	got, err := svc.Update(context.Background(), "user-1", existing.ID.Hex(), service.UpdateListInput{
		Name: sp("  Errands  "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Errands" {
		t.Errorf("expected trimmed rename, got %q", got.Name)
	}
	if got.Color != model.DefaultListColor {
		t.Errorf("expected color untouched, got %q", got.Color)
	}
	if got.Emoji != model.DefaultListEmoji {
		t.Errorf("expected emoji untouched, got %q", got.Emoji)
	}
}

func TestListUpdate_BlankNameRejected(t *testing.T) {
	repo := &mockListRepo{
		getByIDFn: func(ctx context.Context, userID, listID string) (model.List, error) {
			return model.List{UserID: "user-1", Name: "Groceries"}, nil
		},
	}
	svc := service.NewListService(repo)

	_, err := svc.Update(context.Background(), "user-1", "some-id", service.UpdateListInput{Name: sp("  ")})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListUpdate_NotFound(t *testing.T) {
	repo := &mockListRepo{
		getByIDFn: func(ctx context.Context, userID, listID string) (model.List, error) {
			return model.List{}, fmt.Errorf("find list: %w", mongo.ErrNoDocuments)
		},
	}
	svc := service.NewListService(repo)

	_, err := svc.Update(context.Background(), "user-1", "missing", service.UpdateListInput{Name: sp("X")})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDelete(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{"success", nil, nil},
		{"not found", mongo.ErrNoDocuments, service.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockListRepo{
				deleteFn: func(ctx context.Context, userID, listID string) error {
					return tt.repoErr
				},
			}
			svc := service.NewListService(repo)

			err := svc.Delete(context.Background(), "user-1", "list-1")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
