package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/repository"
)

type CreateListInput struct {
	Name  string
	Color string
	Emoji string
}

type UpdateListInput struct {
	Name  *string
	Color *string
	Emoji *string
}

type ListService struct {
	repo repository.ListRepository
}

func NewListService(repo repository.ListRepository) *ListService {
	return &ListService{repo: repo}
}

func (s *ListService) Create(ctx context.Context, userID string, input CreateListInput) (model.List, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.List{}, fmt.Errorf("%w: list name is required", ErrInvalidInput)
	}

	list := model.List{
		UserID: userID,
		Name:   name,
		Color:  input.Color,
		Emoji:  input.Emoji,
	}
	if list.Color == "" {
		list.Color = model.DefaultListColor
	}
	if list.Emoji == "" {
		list.Emoji = model.DefaultListEmoji
	}

	created, err := s.repo.Create(ctx, list)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to create list: %w", err)
	}
	return created, nil
}

func (s *ListService) List(ctx context.Context, userID string) ([]model.List, error) {
	lists, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

func (s *ListService) Update(ctx context.Context, userID, listID string, input UpdateListInput) (model.List, error) {
	existing, err := s.repo.GetByID(ctx, userID, listID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.List{}, ErrNotFound
		}
		return model.List{}, fmt.Errorf("failed to get list for update: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return model.List{}, fmt.Errorf("%w: list name cannot be empty", ErrInvalidInput)
		}
		// Tasks reference lists by name; renaming does not follow (see the
		// custom_list field on Task).
		existing.Name = name
	}
	if input.Color != nil {
		existing.Color = *input.Color
	}
	if input.Emoji != nil {
		existing.Emoji = *input.Emoji
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to update list: %w", err)
	}
	return updated, nil
}

// Delete removes the list. Tasks referencing it by name keep their
// custom_list value.
func (s *ListService) Delete(ctx context.Context, userID, listID string) error {
	if err := s.repo.Delete(ctx, userID, listID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}
