package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/reminderly/reminders-api/internal/middleware"
	"github.com/reminderly/reminders-api/internal/model"
	"github.com/reminderly/reminders-api/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ServeHTTP routes /api/v1/tasks and everything below it.
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks")
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	head := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	// Fixed segments take priority over {id} routes.
	switch head {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	case "counts":
		h.requireMethod(w, r, http.MethodGet, h.handleCounts)
		return
	case "deleted":
		switch r.Method {
		case http.MethodGet:
			h.handleListDeleted(w, r)
		case http.MethodDelete:
			h.handlePurgeDeleted(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	case "completed":
		h.requireMethod(w, r, http.MethodDelete, h.handleClearCompleted)
		return
	case "bulk-delete":
		h.requireMethod(w, r, http.MethodPost, h.handleBulkDelete)
		return
	}

	// /api/v1/tasks/{id}/...
	taskID := head
	switch subPath {
	case "toggle":
		h.requireMethodID(w, r, http.MethodPatch, taskID, h.handleToggle)
	case "restore":
		h.requireMethodID(w, r, http.MethodPatch, taskID, h.handleRestore)
	case "permanent":
		h.requireMethodID(w, r, http.MethodDelete, taskID, h.handlePermanentDelete)
	case "":
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, taskID)
		case http.MethodPut:
			h.handleUpdate(w, r, taskID)
		case http.MethodDelete:
			h.handleSoftDelete(w, r, taskID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *TaskHandler) requireMethod(w http.ResponseWriter, r *http.Request, method string, handler func(http.ResponseWriter, *http.Request)) {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	handler(w, r)
}

func (h *TaskHandler) requireMethodID(w http.ResponseWriter, r *http.Request, method, taskID string, handler func(http.ResponseWriter, *http.Request, string)) {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	handler(w, r, taskID)
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	Image       string  `json:"image"`
	AssignedTo  string  `json:"assigned_to"`
	Category    string  `json:"category"`
	CustomList  string  `json:"custom_list"`
	IsFlagged   bool    `json:"is_flagged"`
	DueDate     *string `json:"due_date,omitempty"`
	DueTime     string  `json:"due_time"`
	Repeat      string  `json:"repeat"`
	Priority    string  `json:"priority"`
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Emoji:       req.Emoji,
		Image:       req.Image,
		AssignedTo:  req.AssignedTo,
		Category:    req.Category,
		CustomList:  req.CustomList,
		IsFlagged:   req.IsFlagged,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Repeat:      req.Repeat,
		Priority:    req.Priority,
	}

	task, err := h.svc.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleGetByID(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := getUserID(r)

	task, err := h.svc.GetByID(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Emoji       *string `json:"emoji,omitempty"`
	Image       *string `json:"image,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
	Category    *string `json:"category,omitempty"`
	CustomList  *string `json:"custom_list,omitempty"`
	IsFlagged   *bool   `json:"is_flagged,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	DueTime     *string `json:"due_time,omitempty"`
	Repeat      *string `json:"repeat,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := getUserID(r)

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Emoji:       req.Emoji,
		Image:       req.Image,
		AssignedTo:  req.AssignedTo,
		Category:    req.Category,
		CustomList:  req.CustomList,
		IsFlagged:   req.IsFlagged,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Repeat:      req.Repeat,
		Priority:    req.Priority,
	}

	task, err := h.svc.Update(r.Context(), userID, taskID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleToggle(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := getUserID(r)

	task, err := h.svc.Toggle(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleSoftDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := getUserID(r)

	task, err := h.svc.SoftDelete(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleRestore(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := getUserID(r)

	task, err := h.svc.Restore(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handlePermanentDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	userID := getUserID(r)

	if err := h.svc.PermanentDelete(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	q := r.URL.Query()

	filter := model.TaskFilter{
		Category:         q.Get("category"),
		CustomList:       q.Get("list"),
		AssignedTo:       q.Get("assigned_to"),
		Search:           q.Get("search"),
		ExcludeCompleted: q.Get("exclude_completed") == "true",
	}

	tasks, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) handleListDeleted(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	tasks, err := h.svc.ListDeleted(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) handleCounts(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	counts, err := h.svc.Counts(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (h *TaskHandler) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	count, err := h.svc.ClearCompleted(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"deleted_count": count})
}

func (h *TaskHandler) handlePurgeDeleted(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	count, err := h.svc.PurgeDeleted(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"deleted_count": count})
}

type bulkDeleteRequest struct {
	TaskIDs []string `json:"task_ids"`
}

func (h *TaskHandler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	count, err := h.svc.BulkDelete(r.Context(), userID, req.TaskIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"deleted_count": count})
}

func getUserID(r *http.Request) string {
	return middleware.GetUserID(r)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
