package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/malwarebo/taskhub/cache"
	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/pagination"
	"github.com/malwarebo/taskhub/services"
)

const subtaskResource = "subtask"

type SubtaskHandler struct {
	service *services.SubtaskService
	cache   *cache.Cache
	pageCfg pagination.Config
}

func CreateSubtaskHandler(service *services.SubtaskService, c *cache.Cache, pageCfg pagination.Config) *SubtaskHandler {
	return &SubtaskHandler{
		service: service,
		cache:   c,
		pageCfg: pageCfg,
	}
}

func (h *SubtaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageReq := pagination.ParseRequest(r, h.pageCfg)

	var todoID uint
	if raw := r.URL.Query().Get("todo_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			WriteFailure(w, r, DetailError{Detail: "Invalid todo_id"}, http.StatusBadRequest, "Subtask retrieve request failed")
			return
		}
		todoID = uint(parsed)
	}

	data, err := h.cache.GetOrSet(ctx, cache.ListKey(subtaskResource, r.URL.Query()), func() (interface{}, error) {
		subtasks, total, err := h.service.List(ctx, todoID, pageReq.Offset(), pageReq.Size)
		if err != nil {
			return nil, err
		}
		if err := pageReq.Validate(total); err != nil {
			return nil, err
		}
		return pagination.BuildResult(r, pageReq, total, subtasks), nil
	}, 0)
	if err != nil {
		writeError(w, r, err, "Subtask retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Subtask retrieve request was successful")
}

func (h *SubtaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Subtask creation failed")
		return
	}

	subtask, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, "Subtask creation failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), subtaskResource); err != nil {
		writeError(w, r, err, "Subtask creation failed")
		return
	}

	WriteSuccess(w, r, subtask, http.StatusOK, "Subtask created successfully")
}

func (h *SubtaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Subtask retrieve request failed")
		return
	}

	ctx := r.Context()
	data, err := h.cache.GetOrSet(ctx, cache.DetailKey(subtaskResource, id), func() (interface{}, error) {
		return h.service.GetByID(ctx, id)
	}, 0)
	if err != nil {
		writeError(w, r, err, "Subtask retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Subtask retrieve request was successful")
}

func (h *SubtaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Subtask update failed")
		return
	}

	var req models.UpdateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Subtask update failed")
		return
	}

	subtask, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err, "Subtask update failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), subtaskResource, id); err != nil {
		writeError(w, r, err, "Subtask update failed")
		return
	}

	WriteSuccess(w, r, subtask, http.StatusOK, "Subtask updated successfully")
}

func (h *SubtaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Subtask deletion failed")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Subtask deletion failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), subtaskResource, id); err != nil {
		writeError(w, r, err, "Subtask deletion failed")
		return
	}

	WriteEnvelope(w, r, nil, http.StatusNoContent, "Subtask deleted successfully")
}
