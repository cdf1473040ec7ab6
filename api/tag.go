package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/malwarebo/taskhub/cache"
	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/pagination"
	"github.com/malwarebo/taskhub/services"
)

const tagResource = "tag"

type tagService interface {
	Create(ctx context.Context, userID uint, req *models.CreateTagRequest) (*models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	List(ctx context.Context, userID uint, offset, limit int) ([]*models.Tag, int64, error)
	Update(ctx context.Context, id uint, req *models.UpdateTagRequest) (*models.Tag, error)
	Delete(ctx context.Context, id uint) error
}

type TagHandler struct {
	service tagService
	cache   *cache.Cache
	pageCfg pagination.Config
}

func CreateTagHandler(service *services.TagService, c *cache.Cache, pageCfg pagination.Config) *TagHandler {
	return &TagHandler{
		service: service,
		cache:   c,
		pageCfg: pageCfg,
	}
}

func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageReq := pagination.ParseRequest(r, h.pageCfg)
	userID := UserIDFrom(ctx)

	// Tag lists are scoped to the requesting user, so the user id is
	// part of the cache key. Plain ListKey would hand one user's list
	// to another user with the same query.
	data, err := h.cache.GetOrSet(ctx, cache.OwnerListKey(tagResource, userID, r.URL.Query()), func() (interface{}, error) {
		tags, total, err := h.service.List(ctx, userID, pageReq.Offset(), pageReq.Size)
		if err != nil {
			return nil, err
		}
		if err := pageReq.Validate(total); err != nil {
			return nil, err
		}
		return pagination.BuildResult(r, pageReq, total, tags), nil
	}, 0)
	if err != nil {
		writeError(w, r, err, "Tag retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Tag retrieve request was successful")
}

func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Tag creation failed")
		return
	}

	tag, err := h.service.Create(r.Context(), UserIDFrom(r.Context()), &req)
	if err != nil {
		writeError(w, r, err, "Tag creation failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), tagResource); err != nil {
		writeError(w, r, err, "Tag creation failed")
		return
	}

	WriteSuccess(w, r, tag, http.StatusOK, "Tag created successfully")
}

func (h *TagHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Tag retrieve request failed")
		return
	}

	ctx := r.Context()
	data, err := h.cache.GetOrSet(ctx, cache.DetailKey(tagResource, id), func() (interface{}, error) {
		return h.service.GetByID(ctx, id)
	}, 0)
	if err != nil {
		writeError(w, r, err, "Tag retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Tag retrieve request was successful")
}

func (h *TagHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Tag update failed")
		return
	}

	var req models.UpdateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Tag update failed")
		return
	}

	tag, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err, "Tag update failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), tagResource, id); err != nil {
		writeError(w, r, err, "Tag update failed")
		return
	}

	WriteSuccess(w, r, tag, http.StatusOK, "Tag updated successfully")
}

func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Tag deletion failed")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Tag deletion failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), tagResource, id); err != nil {
		writeError(w, r, err, "Tag deletion failed")
		return
	}

	WriteEnvelope(w, r, nil, http.StatusNoContent, "Tag deleted successfully")
}
