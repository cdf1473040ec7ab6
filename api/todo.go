package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/malwarebo/taskhub/cache"
	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/pagination"
	"github.com/malwarebo/taskhub/services"
	"github.com/malwarebo/taskhub/stores"
)

const todoResource = "todo"

type todoService interface {
	Create(ctx context.Context, userID uint, req *models.CreateTodoRequest) (*models.Todo, error)
	GetByID(ctx context.Context, id uint) (*models.Todo, error)
	List(ctx context.Context, filter stores.TodoFilter, offset, limit int) ([]*models.Todo, int64, error)
	Update(ctx context.Context, id uint, req *models.UpdateTodoRequest) (*models.Todo, error)
	Delete(ctx context.Context, id uint) error
}

type TodoHandler struct {
	service todoService
	cache   *cache.Cache
	pageCfg pagination.Config
}

func CreateTodoHandler(service *services.TodoService, c *cache.Cache, pageCfg pagination.Config) *TodoHandler {
	return &TodoHandler{
		service: service,
		cache:   c,
		pageCfg: pageCfg,
	}
}

func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageReq := pagination.ParseRequest(r, h.pageCfg)

	data, err := h.cache.GetOrSet(ctx, cache.ListKey(todoResource, r.URL.Query()), func() (interface{}, error) {
		filter := stores.TodoFilter{
			Status:   r.URL.Query().Get("status"),
			Priority: r.URL.Query().Get("priority"),
		}

		todos, total, err := h.service.List(ctx, filter, pageReq.Offset(), pageReq.Size)
		if err != nil {
			return nil, err
		}
		if err := pageReq.Validate(total); err != nil {
			return nil, err
		}
		return pagination.BuildResult(r, pageReq, total, todos), nil
	}, 0)
	if err != nil {
		writeError(w, r, err, "Todo retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Todo retrieve request was successful")
}

func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Todo creation failed")
		return
	}

	todo, err := h.service.Create(r.Context(), UserIDFrom(r.Context()), &req)
	if err != nil {
		writeError(w, r, err, "Todo creation failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), todoResource); err != nil {
		writeError(w, r, err, "Todo creation failed")
		return
	}

	WriteSuccess(w, r, todo, http.StatusOK, "Todo created successfully")
}

func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Todo retrieve request failed")
		return
	}

	ctx := r.Context()
	data, err := h.cache.GetOrSet(ctx, cache.DetailKey(todoResource, id), func() (interface{}, error) {
		return h.service.GetByID(ctx, id)
	}, 0)
	if err != nil {
		writeError(w, r, err, "Todo retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Todo retrieve request was successful")
}

func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Todo update failed")
		return
	}

	var req models.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Todo update failed")
		return
	}

	todo, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err, "Todo update failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), todoResource, id); err != nil {
		writeError(w, r, err, "Todo update failed")
		return
	}

	WriteSuccess(w, r, todo, http.StatusOK, "Todo updated successfully")
}

func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Todo deletion failed")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Todo deletion failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), todoResource, id); err != nil {
		writeError(w, r, err, "Todo deletion failed")
		return
	}

	WriteEnvelope(w, r, nil, http.StatusNoContent, "Todo deleted successfully")
}
