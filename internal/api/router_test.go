package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentimind/sentimind/internal/emotion"
	"github.com/sentimind/sentimind/internal/feed"
	"github.com/sentimind/sentimind/internal/models"
)

type fakeFeedService struct {
	post       *models.Post
	createErr  error
	listErr    error
	posts      []models.Post
	lastFilter feed.ListFilter
}

func (f *fakeFeedService) Taxonomy() []string {
	return emotion.Taxonomy
}

func (f *fakeFeedService) CreatePost(ctx context.Context, content string, authorID *int64) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.post, nil
}

func (f *fakeFeedService) ListPosts(ctx context.Context, filter feed.ListFilter) ([]models.Post, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.posts, nil
}

func newTestEngine(svc FeedService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewRouter(svc).SetupRoutes(engine)
	return engine
}

func TestCreatePostHandler(t *testing.T) {
	svc := &fakeFeedService{
		post: &models.Post{
			ID:                1,
			Content:           "qué día tan increíble",
			PrimaryCategory:   "Alegría",
			PrimaryConfidence: 0.91,
			CreatedAt:         time.Now().UTC(),
		},
	}
	engine := newTestEngine(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"qué día tan increíble"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if payload["category"] != "Alegría" || payload["primary_category"] != "Alegría" {
		t.Errorf("Unexpected category fields: %v", payload)
	}
	if payload["author"] != nil {
		t.Errorf("Expected null author, got: %v", payload["author"])
	}
}

func TestCreatePostHandlerValidation(t *testing.T) {
	svc := &fakeFeedService{createErr: feed.ErrContentTooShort}
	engine := newTestEngine(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for short content, got %d", w.Code)
	}
}

func TestCreatePostHandlerBadAccountHeader(t *testing.T) {
	engine := newTestEngine(&fakeFeedService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"hola mundo"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-ID", "not-a-number")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed account header, got %d", w.Code)
	}
}

func TestListPostsHandler(t *testing.T) {
	svc := &fakeFeedService{
		posts: []models.Post{
			{ID: 2, Content: "hola", PrimaryCategory: "Alegría", PrimaryConfidence: 0.9},
			{ID: 1, Content: "adiós", PrimaryCategory: "Tristeza", PrimaryConfidence: 0.7},
		},
	}
	engine := newTestEngine(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?category=Alegría&limit=10", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastFilter.Category != "Alegría" {
		t.Errorf("Category filter not forwarded: %q", svc.lastFilter.Category)
	}
	if svc.lastFilter.Limit != 10 {
		t.Errorf("Limit not forwarded: %d", svc.lastFilter.Limit)
	}

	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(payload.Results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(payload.Results))
	}
}

func TestListPostsMineRequiresAccount(t *testing.T) {
	engine := newTestEngine(&fakeFeedService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?mine=true", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for mine without account, got %d", w.Code)
	}
}

func TestListPostsMine(t *testing.T) {
	svc := &fakeFeedService{}
	engine := newTestEngine(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts?mine=true", nil)
	req.Header.Set("X-Account-ID", "7")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if svc.lastFilter.AuthorID != 7 {
		t.Errorf("Expected author filter 7, got %d", svc.lastFilter.AuthorID)
	}
}

func TestListCategoriesHandler(t *testing.T) {
	engine := newTestEngine(&fakeFeedService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var payload struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(payload.Categories) != len(emotion.Taxonomy) {
		t.Errorf("Expected %d categories, got %d", len(emotion.Taxonomy), len(payload.Categories))
	}
	if payload.Categories[0] != "Alegría" {
		t.Errorf("Expected taxonomy order preserved, first = %s", payload.Categories[0])
	}
}

func TestHealthHandler(t *testing.T) {
	engine := newTestEngine(&fakeFeedService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}
