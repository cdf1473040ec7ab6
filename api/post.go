package api

import (
	"encoding/json"
	"net/http"

	"github.com/malwarebo/taskhub/cache"
	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/pagination"
	"github.com/malwarebo/taskhub/services"
)

const postResource = "post"

type BlogPostHandler struct {
	service *services.BlogPostService
	cache   *cache.Cache
	pageCfg pagination.Config
}

func CreateBlogPostHandler(service *services.BlogPostService, c *cache.Cache, pageCfg pagination.Config) *BlogPostHandler {
	return &BlogPostHandler{
		service: service,
		cache:   c,
		pageCfg: pageCfg,
	}
}

func (h *BlogPostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageReq := pagination.ParseRequest(r, h.pageCfg)

	data, err := h.cache.GetOrSet(ctx, cache.ListKey(postResource, r.URL.Query()), func() (interface{}, error) {
		posts, total, err := h.service.List(ctx, pageReq.Offset(), pageReq.Size)
		if err != nil {
			return nil, err
		}
		if err := pageReq.Validate(total); err != nil {
			return nil, err
		}
		return pagination.BuildResult(r, pageReq, total, posts), nil
	}, 0)
	if err != nil {
		writeError(w, r, err, "Post retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Post retrieve request was successful")
}

func (h *BlogPostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBlogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Post creation failed")
		return
	}

	post, err := h.service.Create(r.Context(), UserIDFrom(r.Context()), &req)
	if err != nil {
		writeError(w, r, err, "Post creation failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), postResource); err != nil {
		writeError(w, r, err, "Post creation failed")
		return
	}

	WriteSuccess(w, r, post, http.StatusOK, "Post created successfully")
}

func (h *BlogPostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Post retrieve request failed")
		return
	}

	ctx := r.Context()
	data, err := h.cache.GetOrSet(ctx, cache.DetailKey(postResource, id), func() (interface{}, error) {
		return h.service.GetByID(ctx, id)
	}, 0)
	if err != nil {
		writeError(w, r, err, "Post retrieve request failed")
		return
	}

	WriteSuccess(w, r, data, http.StatusOK, "Post retrieve request was successful")
}

func (h *BlogPostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Post update failed")
		return
	}

	var req models.UpdateBlogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, r, DetailError{Detail: "Invalid request body"}, http.StatusBadRequest, "Post update failed")
		return
	}

	post, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err, "Post update failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), postResource, id); err != nil {
		writeError(w, r, err, "Post update failed")
		return
	}

	WriteSuccess(w, r, post, http.StatusOK, "Post updated successfully")
}

func (h *BlogPostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, "Post deletion failed")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Post deletion failed")
		return
	}

	if err := h.cache.Invalidate(r.Context(), postResource, id); err != nil {
		writeError(w, r, err, "Post deletion failed")
		return
	}

	WriteEnvelope(w, r, nil, http.StatusNoContent, "Post deleted successfully")
}
