package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reminderly/reminders-api/internal/service"
)

type ListHandler struct {
	svc *service.ListService
}

func NewListHandler(svc *service.ListService) *ListHandler {
	return &ListHandler{svc: svc}
}

// ServeHTTP routes /api/v1/lists and /api/v1/lists/{id}.
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/lists")
	path = strings.TrimPrefix(path, "/")
	listID := strings.TrimRight(path, "/")

	if listID != "" {
		switch r.Method {
		case http.MethodPut:
			h.handleUpdate(w, r, listID)
		case http.MethodDelete:
			h.handleDelete(w, r, listID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createListRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

func (h *ListHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	list, err := h.svc.Create(r.Context(), userID, service.CreateListInput{
		Name:  req.Name,
		Color: req.Color,
		Emoji: req.Emoji,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	lists, err := h.svc.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"lists": lists})
}

type updateListRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
}

func (h *ListHandler) handleUpdate(w http.ResponseWriter, r *http.Request, listID string) {
	userID := getUserID(r)

	var req updateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	list, err := h.svc.Update(r.Context(), userID, listID, service.UpdateListInput{
		Name:  req.Name,
		Color: req.Color,
		Emoji: req.Emoji,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

func (h *ListHandler) handleDelete(w http.ResponseWriter, r *http.Request, listID string) {
	userID := getUserID(r)

	if err := h.svc.Delete(r.Context(), userID, listID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
