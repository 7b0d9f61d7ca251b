package http

import (
	"net/http"

	"github.com/reminderly/reminders-api/internal/http/handler"
	"github.com/reminderly/reminders-api/internal/service"
)

func NewRouter(taskSvc *service.TaskService, listSvc *service.ListService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for load balancer probes
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	authHandler := handler.NewAuthHandler(authSvc)
	mux.Handle("/api/v1/auth/", authHandler)

	taskHandler := handler.NewTaskHandler(taskSvc)
	mux.Handle("/api/v1/tasks", taskHandler)
	mux.Handle("/api/v1/tasks/", taskHandler)

	listHandler := handler.NewListHandler(listSvc)
	mux.Handle("/api/v1/lists", listHandler)
	mux.Handle("/api/v1/lists/", listHandler)

	return mux
}
