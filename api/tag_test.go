package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/malwarebo/taskhub/cache"
	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/pagination"
	"github.com/malwarebo/taskhub/utils"
)

// fakeTagService keeps tags in memory so handler behavior can be
// exercised without a database.
type fakeTagService struct {
	tags   []*models.Tag
	nextID uint
	lists  int
}

func (f *fakeTagService) Create(ctx context.Context, userID uint, req *models.CreateTagRequest) (*models.Tag, error) {
	f.nextID++
	tag := &models.Tag{
		ID:     f.nextID,
		UserID: userID,
		Name:   strings.ToLower(req.Name),
	}
	f.tags = append(f.tags, tag)
	return tag, nil
}

func (f *fakeTagService) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	for _, tag := range f.tags {
		if tag.ID == id {
			return tag, nil
		}
	}
	return nil, utils.ErrTagNotFound
}

func (f *fakeTagService) List(ctx context.Context, userID uint, offset, limit int) ([]*models.Tag, int64, error) {
	f.lists++
	var owned []*models.Tag
	for _, tag := range f.tags {
		if userID == 0 || tag.UserID == userID {
			owned = append(owned, tag)
		}
	}
	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (f *fakeTagService) Update(ctx context.Context, id uint, req *models.UpdateTagRequest) (*models.Tag, error) {
	tag, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		tag.Name = strings.ToLower(*req.Name)
	}
	return tag, nil
}

func (f *fakeTagService) Delete(ctx context.Context, id uint) error {
	for i, tag := range f.tags {
		if tag.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return utils.ErrTagNotFound
}

func newTagTestRouter(service tagService) *mux.Router {
	handler := &TagHandler{
		service: service,
		cache:   cache.CreateCache(cache.CreateMemoryStore(), 0),
		pageCfg: pagination.Config{DefaultSize: 10, MaxSize: 100},
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/tags", handler.HandleList).Methods("GET")
	router.HandleFunc("/api/v1/tags", handler.HandleCreate).Methods("POST")
	router.HandleFunc("/api/v1/tags/{id}", handler.HandleGet).Methods("GET")
	router.HandleFunc("/api/v1/tags/{id}", handler.HandleUpdate).Methods("PUT")
	router.HandleFunc("/api/v1/tags/{id}", handler.HandleDelete).Methods("DELETE")
	return router
}

type tagListData struct {
	Page struct {
		Current    int   `json:"current"`
		Total      int   `json:"total"`
		Size       int   `json:"size"`
		TotalItems int64 `json:"total_items"`
	} `json:"page"`
	Results []models.Tag `json:"results"`
}

func createTagAs(t *testing.T, router *mux.Router, userID uint, name string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name})
	req := httptest.NewRequest("POST", "/api/v1/tags", bytes.NewReader(body))
	req = req.WithContext(WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /tags code = %d: %s", w.Code, w.Body.String())
	}
}

func listTagsAs(t *testing.T, router *mux.Router, userID uint) tagListData {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/tags", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /tags code = %d: %s", w.Code, w.Body.String())
	}
	var envelope todoEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	var list tagListData
	if err := json.Unmarshal(envelope.Data, &list); err != nil {
		t.Fatalf("decode list data: %v", err)
	}
	return list
}

func TestTagHandler_ListScopedPerUser(t *testing.T) {
	router := newTagTestRouter(&fakeTagService{})

	createTagAs(t, router, 1, "alpha")
	createTagAs(t, router, 2, "beta")

	// User 1 lists first, priming the cache for their own key.
	first := listTagsAs(t, router, 1)
	if len(first.Results) != 1 || first.Results[0].Name != "alpha" {
		t.Fatalf("user 1 results = %+v, want one tag named %q", first.Results, "alpha")
	}

	// User 2 issues the identical query and must see only their own
	// tags, never user 1's cached list.
	second := listTagsAs(t, router, 2)
	if len(second.Results) != 1 {
		t.Fatalf("user 2 results = %+v, want exactly one tag", second.Results)
	}
	if second.Results[0].Name != "beta" {
		t.Errorf("user 2 saw tag %q, want %q", second.Results[0].Name, "beta")
	}
	if second.Results[0].UserID != 2 {
		t.Errorf("user 2 saw a tag owned by user %d", second.Results[0].UserID)
	}
}

func TestTagHandler_ListCachedPerUser(t *testing.T) {
	service := &fakeTagService{}
	router := newTagTestRouter(service)

	createTagAs(t, router, 1, "alpha")

	listTagsAs(t, router, 1)
	listTagsAs(t, router, 1)
	if service.lists != 1 {
		t.Errorf("backend list calls = %d, want 1 (repeat read by the same user should hit cache)", service.lists)
	}

	listTagsAs(t, router, 2)
	if service.lists != 2 {
		t.Errorf("backend list calls = %d, want 2 (a different user must not reuse the entry)", service.lists)
	}
}

func TestTagHandler_CreateInvalidatesEveryUsersList(t *testing.T) {
	service := &fakeTagService{}
	router := newTagTestRouter(service)

	createTagAs(t, router, 1, "alpha")
	listTagsAs(t, router, 1)

	createTagAs(t, router, 1, "gamma")

	list := listTagsAs(t, router, 1)
	if list.Page.TotalItems != 2 {
		t.Errorf("page.total_items = %d, want 2 (create should invalidate the cached list)", list.Page.TotalItems)
	}
}

func TestTagHandler_GetNotFound(t *testing.T) {
	router := newTagTestRouter(&fakeTagService{})

	req := httptest.NewRequest("GET", "/api/v1/tags/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /tags/99 code = %d, want %d", w.Code, http.StatusNotFound)
	}
}
