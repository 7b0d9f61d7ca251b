package model

import (
	"sort"
	"strings"
	"time"
)

// Built-in bucket names. Custom lists share the same string namespace by name;
// a list named after a built-in bucket overwrites its tally (last write wins).
const (
	BucketToday           = "Today"
	BucketScheduled       = "Scheduled"
	BucketFlagged         = "Flagged"
	BucketCompleted       = "Completed"
	BucketAll             = "All"
	BucketRecentlyDeleted = "Recently Deleted"
)

// deletedRetention bounds the Recently Deleted view. Older soft-deletes stay
// in the store and remain reachable by id.
const deletedRetention = 30 * 24 * time.Hour

// InBucket reports whether a non-deleted task displays under the named bucket
// at now. Names that are not built-in buckets match on raw category equality.
func (t Task) InBucket(bucket string, now time.Time) bool {
	switch bucket {
	case BucketToday:
		return t.Category == CategoryToday || t.DueToday(now)
	case BucketScheduled:
		return t.Category == CategoryScheduled || t.Category == CategoryToday || t.DueDate != nil
	case BucketFlagged:
		return t.IsFlagged || t.Category == CategoryFlagged
	case BucketCompleted:
		return t.IsCompleted
	case BucketAll:
		return !t.IsCompleted
	default:
		return t.Category == Category(bucket)
	}
}

type TaskFilter struct {
	Category         string
	CustomList       string
	AssignedTo       string
	Search           string
	ExcludeCompleted bool
}

// FilterTasks returns the non-deleted tasks matching the filter, newest
// created first. Category filtering is bucket-aware: Today, Scheduled,
// Flagged and Completed use membership rules rather than the stored category.
// Search is a case-insensitive substring match on title or description.
func FilterTasks(tasks []Task, f TaskFilter, now time.Time) []Task {
	query := strings.ToLower(f.Search)

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDeleted {
			continue
		}
		if f.Category != "" && f.Category != BucketAll && !t.InBucket(f.Category, now) {
			continue
		}
		if f.CustomList != "" && t.CustomList != f.CustomList {
			continue
		}
		if f.AssignedTo != "" && string(t.AssignedTo) != f.AssignedTo {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		if f.ExcludeCompleted && t.IsCompleted {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// RecentlyDeleted returns soft-deleted tasks updated within the retention
// window, most recently updated first.
func RecentlyDeleted(tasks []Task, now time.Time) []Task {
	cutoff := now.Add(-deletedRetention)

	out := make([]Task, 0)
	for _, t := range tasks {
		if t.IsDeleted && !t.UpdatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// CountBuckets computes the bucket→count summary for one owner's full task
// set (deleted tasks included):
//
//  1. non-completed, non-deleted tasks tallied by raw category
//  2. non-completed, non-deleted tasks tallied by non-empty custom list name,
//     overwriting any same-named category tally
//  3. Today and Scheduled overwritten with the date-driven membership counts
//  4. All = every non-deleted, non-completed task
//  5. Completed = every non-deleted, completed task
//  6. Recently Deleted = deleted tasks updated within the retention window
func CountBuckets(tasks []Task, now time.Time) map[string]int {
	byCategory := make(map[string]int)
	byList := make(map[string]int)
	var today, scheduled, all, completed, deleted int

	cutoff := now.Add(-deletedRetention)
	for _, t := range tasks {
		if t.IsDeleted {
			if !t.UpdatedAt.Before(cutoff) {
				deleted++
			}
			continue
		}
		if t.IsCompleted {
			completed++
			continue
		}
		all++
		byCategory[string(t.Category)]++
		if t.CustomList != "" {
			byList[t.CustomList]++
		}
		if t.InBucket(BucketToday, now) {
			today++
		}
		if t.InBucket(BucketScheduled, now) {
			scheduled++
		}
	}

	counts := make(map[string]int, len(byCategory)+len(byList)+4)
	for name, n := range byCategory {
		counts[name] = n
	}
	for name, n := range byList {
		counts[name] = n
	}
	counts[BucketToday] = today
	counts[BucketScheduled] = scheduled
	counts[BucketAll] = all
	counts[BucketCompleted] = completed
	counts[BucketRecentlyDeleted] = deleted
	return counts
}
