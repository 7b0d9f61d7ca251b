package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryToday       Category = "Today"
	CategoryScheduled   Category = "Scheduled"
	CategoryFamilyTasks Category = "Family Tasks"
	CategoryAll         Category = "All"
	CategoryFlagged     Category = "Flagged"
	CategoryCompleted   Category = "Completed"
	CategoryAssigned    Category = "Assigned"
	CategoryWork        Category = "Work"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryToday, CategoryScheduled, CategoryFamilyTasks, CategoryAll,
		CategoryFlagged, CategoryCompleted, CategoryAssigned, CategoryWork:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

func (r Repeat) IsValid() bool {
	return r == RepeatNone || r == RepeatDaily || r == RepeatWeekly || r == RepeatMonthly
}

type Assignee string

const (
	AssigneeDanny  Assignee = "Danny"
	AssigneeAshley Assignee = "Ashley"
	AssigneeOlivia Assignee = "Olivia"
)

func (a Assignee) IsValid() bool {
	return a == AssigneeDanny || a == AssigneeAshley || a == AssigneeOlivia
}

type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Emoji            string             `bson:"emoji" json:"emoji"`
	Image            string             `bson:"image" json:"image"`
	AssignedTo       Assignee           `bson:"assigned_to" json:"assigned_to"`
	Category         Category           `bson:"category" json:"category"`
	OriginalCategory Category           `bson:"original_category" json:"original_category"`
	CustomList       string             `bson:"custom_list" json:"custom_list"`
	IsCompleted      bool               `bson:"is_completed" json:"is_completed"`
	IsFlagged        bool               `bson:"is_flagged" json:"is_flagged"`
	IsDeleted        bool               `bson:"is_deleted" json:"is_deleted"`
	DueDate          *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	DueTime          string             `bson:"due_time" json:"due_time"`
	Repeat           Repeat             `bson:"repeat" json:"repeat"`
	Priority         Priority           `bson:"priority" json:"priority"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// ToggleCompleted flips completion and moves the task between its stored
// category and "Completed". Uncompleting restores the creation-time snapshot,
// falling back to "All" when no snapshot exists.
func (t *Task) ToggleCompleted() {
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		t.Category = CategoryCompleted
		return
	}
	if t.OriginalCategory != "" {
		t.Category = t.OriginalCategory
	} else {
		t.Category = CategoryAll
	}
}

// DueToday reports whether the due date falls within [start of today, start of
// tomorrow) in now's location.
func (t Task) DueToday(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	due := t.DueDate.In(now.Location())
	return !due.Before(start) && due.Before(end)
}
