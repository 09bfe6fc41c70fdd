package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sentimind/sentimind/internal/api/objects"
	"github.com/sentimind/sentimind/internal/feed"
	"github.com/sentimind/sentimind/internal/models"
	"github.com/sentimind/sentimind/pkg/logging"
)

// accountHeader carries the authenticated account id, resolved by the auth
// layer in front of this service. Absent for anonymous requests.
const accountHeader = "X-Account-ID"

// FeedService is the surface the router needs from the feed layer
type FeedService interface {
	Taxonomy() []string
	CreatePost(ctx context.Context, content string, authorID *int64) (*models.Post, error)
	ListPosts(ctx context.Context, filter feed.ListFilter) ([]models.Post, error)
}

// Router sets up API routes
type Router struct {
	svc    FeedService
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(svc FeedService) *Router {
	return &Router{
		svc:    svc,
		logger: logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	apiGroup := engine.Group("/api")
	apiGroup.GET("/posts", r.listPosts)
	apiGroup.POST("/posts", r.createPost)
	apiGroup.GET("/categories", r.listCategories)
}

type createPostRequest struct {
	Content string `json:"content"`
}

// createPost handles POST /api/posts
func (r *Router) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	authorID, ok := r.accountID(c)
	if !ok {
		return
	}

	post, err := r.svc.CreatePost(c.Request.Context(), req.Content, authorID)
	if err != nil {
		if errors.Is(err, feed.ErrContentTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El contenido debe tener al menos 3 caracteres"})
			return
		}
		r.logger.Error("Failed to create post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, objects.NewPost(post))
}

// listPosts handles GET /api/posts
func (r *Router) listPosts(c *gin.Context) {
	filter := feed.ListFilter{
		Category: c.Query("category"),
	}

	authorID, ok := r.accountID(c)
	if !ok {
		return
	}

	// mine=true scopes the listing to the requesting account
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		if authorID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mine filter requires an account"})
			return
		}
		filter.AuthorID = *authorID
	}

	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if filter.Offset, err = intQuery(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	posts, err := r.svc.ListPosts(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, feed.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
			return
		}
		r.logger.Error("Failed to list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": objects.NewPostList(posts)})
}

// listCategories handles GET /api/categories
func (r *Router) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": r.svc.Taxonomy()})
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "sentimind-api",
	})
}

// accountID reads the optional account header. Writes a 400 response and
// returns ok=false when the header is present but malformed.
func (r *Router) accountID(c *gin.Context) (*int64, bool) {
	raw := c.GetHeader(accountHeader)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return nil, false
	}
	return &id, true
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
