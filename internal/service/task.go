package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/repository"
)

// parseDueDate parses an RFC3339 string into *time.Time.
// Returns nil if input is nil or empty (empty clears the due date).
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due_date format, expected RFC3339", ErrInvalidInput)
	}
	return &t, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	Emoji       string
	Image       string
	AssignedTo  string
	Category    string
	CustomList  string
	IsFlagged   bool
	DueDate     *string // RFC3339 string, parsed in service
	DueTime     string
	Repeat      string
	Priority    string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Emoji       *string
	Image       *string
	AssignedTo  *string
	Category    *string
	CustomList  *string
	IsFlagged   *bool
	DueDate     *string
	DueTime     *string
	Repeat      *string
	Priority    *string
}

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, userID string, input CreateTaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	assignedTo := model.Assignee(input.AssignedTo)
	if input.AssignedTo == "" {
		assignedTo = model.AssigneeDanny
	} else if !assignedTo.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid assigned_to %q", ErrInvalidInput, input.AssignedTo)
	}

	category := model.Category(input.Category)
	if input.Category == "" {
		category = model.CategoryAll
	} else if !category.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid category %q", ErrInvalidInput, input.Category)
	}

	repeat := model.Repeat(input.Repeat)
	if input.Repeat == "" {
		repeat = model.RepeatNone
	} else if !repeat.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid repeat %q", ErrInvalidInput, input.Repeat)
	}

	priority := model.Priority(input.Priority)
	if input.Priority == "" {
		priority = model.PriorityMedium
	} else if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, input.Priority)
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Emoji:       input.Emoji,
		Image:       input.Image,
		AssignedTo:  assignedTo,
		Category:    category,
		// Snapshot for restoring the category when the task is un-completed.
		OriginalCategory: category,
		CustomList:       input.CustomList,
		IsFlagged:        input.IsFlagged,
		DueDate:          dueDate,
		DueTime:          input.DueTime,
		Repeat:           repeat,
		Priority:         priority,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (s *TaskService) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID string, input UpdateTaskInput) (model.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task for update: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return model.Task{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Emoji != nil {
		existing.Emoji = *input.Emoji
	}
	if input.Image != nil {
		existing.Image = *input.Image
	}
	if input.AssignedTo != nil {
		assignedTo := model.Assignee(*input.AssignedTo)
		if !assignedTo.IsValid() {
			return model.Task{}, fmt.Errorf("%w: invalid assigned_to %q", ErrInvalidInput, *input.AssignedTo)
		}
		existing.AssignedTo = assignedTo
	}
	if input.Category != nil {
		category := model.Category(*input.Category)
		if !category.IsValid() {
			return model.Task{}, fmt.Errorf("%w: invalid category %q", ErrInvalidInput, *input.Category)
		}
		existing.Category = category
	}
	if input.CustomList != nil {
		existing.CustomList = *input.CustomList
	}
	if input.IsFlagged != nil {
		existing.IsFlagged = *input.IsFlagged
	}
	if input.DueDate != nil {
		dueDate, err := parseDueDate(input.DueDate)
		if err != nil {
			return model.Task{}, err
		}
		existing.DueDate = dueDate
	}
	if input.DueTime != nil {
		existing.DueTime = *input.DueTime
	}
	if input.Repeat != nil {
		repeat := model.Repeat(*input.Repeat)
		if !repeat.IsValid() {
			return model.Task{}, fmt.Errorf("%w: invalid repeat %q", ErrInvalidInput, *input.Repeat)
		}
		existing.Repeat = repeat
	}
	if input.Priority != nil {
		priority := model.Priority(*input.Priority)
		if !priority.IsValid() {
			return model.Task{}, fmt.Errorf("%w: invalid priority %q", ErrInvalidInput, *input.Priority)
		}
		existing.Priority = priority
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// Toggle flips completion, moving the task between its category and
// "Completed". Toggling twice restores the original category.
func (s *TaskService) Toggle(ctx context.Context, userID, taskID string) (model.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task for toggle: %w", err)
	}

	existing.ToggleCompleted()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to toggle task: %w", err)
	}
	return updated, nil
}

// SoftDelete moves a task to the trash. The document stays in the store for
// restore or permanent deletion.
func (s *TaskService) SoftDelete(ctx context.Context, userID, taskID string) (model.Task, error) {
	return s.setDeleted(ctx, userID, taskID, true)
}

// Restore brings a soft-deleted task back.
func (s *TaskService) Restore(ctx context.Context, userID, taskID string) (model.Task, error) {
	return s.setDeleted(ctx, userID, taskID, false)
}

func (s *TaskService) setDeleted(ctx context.Context, userID, taskID string, deleted bool) (model.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	existing.IsDeleted = deleted

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) PermanentDelete(ctx context.Context, userID, taskID string) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// List returns the owner's tasks matching the filter, bucket-aware and newest
// first. Category and assignee filters must name known values.
func (s *TaskService) List(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, error) {
	if filter.Category != "" && !model.Category(filter.Category).IsValid() {
		return nil, fmt.Errorf("%w: invalid category %q", ErrInvalidInput, filter.Category)
	}
	if filter.AssignedTo != "" && !model.Assignee(filter.AssignedTo).IsValid() {
		return nil, fmt.Errorf("%w: invalid assigned_to %q", ErrInvalidInput, filter.AssignedTo)
	}

	tasks, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return model.FilterTasks(tasks, filter, time.Now()), nil
}

// ListDeleted returns the Recently Deleted view: soft-deleted tasks updated
// within the last 30 days, most recently updated first.
func (s *TaskService) ListDeleted(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return model.RecentlyDeleted(tasks, time.Now()), nil
}

// Counts computes the bucket→count summary over the owner's full task set.
func (s *TaskService) Counts(ctx context.Context, userID string) (map[string]int, error) {
	tasks, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return model.CountBuckets(tasks, time.Now()), nil
}

// ClearCompleted moves every completed task to the trash.
func (s *TaskService) ClearCompleted(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.TrashCompleted(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	return count, nil
}

// PurgeDeleted permanently removes every soft-deleted task.
func (s *TaskService) PurgeDeleted(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.PurgeDeleted(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deleted tasks: %w", err)
	}
	return count, nil
}

// BulkDelete soft-deletes the given tasks. Ids not owned by the user are
// ignored; the returned count covers only tasks actually moved to the trash.
func (s *TaskService) BulkDelete(ctx context.Context, userID string, taskIDs []string) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, fmt.Errorf("%w: task_ids array is required", ErrInvalidInput)
	}

	count, err := s.repo.SoftDeleteMany(ctx, userID, taskIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete tasks: %w", err)
	}
	return count, nil
}
