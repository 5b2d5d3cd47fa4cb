package handlers

import (
	"log/slog"
	"net/http"

	"github.com/taskvault/taskvault-api/internal/dto"
	"github.com/taskvault/taskvault-api/internal/services"
	"github.com/taskvault/taskvault-api/internal/utils"
)

// TasksHandler manages task endpoints. Every route sits behind the auth
// middleware, so the user is always in the request context.
type TasksHandler struct {
	tasks  *services.TaskService
	logger *slog.Logger
}

// NewTasksHandler creates a new TasksHandler
func NewTasksHandler(tasks *services.TaskService, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{tasks: tasks, logger: logger}
}

// CreateTask handles POST /tasks
// @Summary Create a new task
// @Description Status defaults to "todo" and priority to "medium"
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTaskRequest true "Task payload"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tasks [post]
func (h *TasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}

	var req dto.CreateTaskRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	task, err := h.tasks.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.NewTaskResponse(task))
}

// ListTasks handles GET /tasks
// @Summary List my tasks
// @Description Only the caller's tasks, newest first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TaskResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tasks [get]
func (h *TasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}

	tasks, err := h.tasks.List(r.Context(), user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTaskListResponse(tasks))
}

// GetTask handles GET /tasks/{id}
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Task belongs to another user"
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TasksHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), user, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTaskResponse(task))
}

// UpdateTask handles PATCH /tasks/{id}
// @Summary Partially update a task
// @Description Only keys present in the body are changed. A null description clears it.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param payload body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdateTaskRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	task, err := h.tasks.Update(r.Context(), user, id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), user, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
