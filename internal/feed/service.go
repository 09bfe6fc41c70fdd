package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sentimind/sentimind/internal/cache"
	"github.com/sentimind/sentimind/internal/classifier"
	"github.com/sentimind/sentimind/internal/db"
	"github.com/sentimind/sentimind/internal/emotion"
	"github.com/sentimind/sentimind/internal/models"
	"github.com/sentimind/sentimind/pkg/config"
	"github.com/sentimind/sentimind/pkg/logging"
	"github.com/sentimind/sentimind/pkg/telemetry"
)

const minContentRunes = 3

var (
	// ErrContentTooShort rejects posts whose trimmed content is under 3 characters
	ErrContentTooShort = errors.New("content must have at least 3 characters")
	// ErrInvalidFilter rejects malformed listing parameters
	ErrInvalidFilter = errors.New("invalid feed filter")
)

// Gateway scores a text against a label set, returning the full ranking
// sorted descending
type Gateway interface {
	Score(ctx context.Context, text string, labels []string) ([]emotion.Score, error)
}

// PostStore persists posts together with their category links
type PostStore interface {
	CreateWithCategories(ctx context.Context, post *models.Post, detected []emotion.Detection) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, filter db.PostFilter) ([]models.Post, error)
}

// Analysis is the combined gateway+selector result for one text
type Analysis struct {
	Emotions        []emotion.Detection `json:"emotions"`
	MainSentiment   string              `json:"main_sentiment"`
	ConfidenceScore float64             `json:"confidence_score"`
	AllScores       map[string]float64  `json:"all_scores"`
}

// ListFilter narrows a feed listing request
type ListFilter struct {
	Category string
	AuthorID int64
	Limit    int
	Offset   int
}

// Service composes the classifier gateway, the emotion selector and the
// feed store into the post-creation and feed-reading operations.
type Service struct {
	gateway  Gateway
	selector emotion.Selector
	store    PostStore
	cache    *cache.Cache
	cfg      *config.ClassifierConfig
	logger   *zap.Logger
}

// NewService creates a feed service
func NewService(gateway Gateway, selector emotion.Selector, store PostStore, redisCache *cache.Cache, cfg *config.ClassifierConfig) *Service {
	return &Service{
		gateway:  gateway,
		selector: selector,
		store:    store,
		cache:    redisCache,
		cfg:      cfg,
		logger:   logging.WithComponent("feed-service"),
	}
}

// Taxonomy returns the fixed category names in display order
func (s *Service) Taxonomy() []string {
	return emotion.Taxonomy
}

// Analyze scores a text against the taxonomy and reduces the ranking to the
// detected emotions. Results are cached by text hash; inference is the
// expensive step of the whole pipeline.
func (s *Service) Analyze(ctx context.Context, text string) (*Analysis, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.analyze")
	defer span.End()

	cacheKey := cache.HashKey("analyze", text)
	if s.cache != nil {
		var cached Analysis
		if err := s.cache.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	ranked, err := s.gateway.Score(ctx, text, emotion.Taxonomy)
	if err != nil {
		return nil, err
	}

	detected, err := s.selector.Select(ranked)
	if err != nil {
		return nil, err
	}

	allScores := make(map[string]float64, len(ranked))
	for _, entry := range ranked {
		allScores[entry.Label] = emotion.Round2(entry.Score)
	}

	analysis := &Analysis{
		Emotions:        detected,
		MainSentiment:   detected[0].Name,
		ConfidenceScore: detected[0].Confidence,
		AllScores:       allScores,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(cacheKey, analysis, s.cfg.CacheTTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			s.logger.Warn("Failed to cache analysis", zap.Error(err))
		}
	}

	return analysis, nil
}

// CreatePost validates the content, analyzes it and persists the post with
// its category links in one atomic write.
//
// When inference is unavailable the submission is not rejected: the post is
// stored with a single low-confidence fallback category, which keeps every
// store invariant intact. authorID is nil for anonymous posts.
func (s *Service) CreatePost(ctx context.Context, content string, authorID *int64) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.create_post")
	defer span.End()

	trimmed := strings.TrimSpace(content)
	if utf8.RuneCountInString(trimmed) < minContentRunes {
		return nil, ErrContentTooShort
	}

	var detected []emotion.Detection
	analysis, err := s.Analyze(ctx, content)
	switch {
	case err == nil:
		detected = analysis.Emotions
	case errors.Is(err, classifier.ErrInferenceUnavailable):
		s.logger.Warn("Inference unavailable, storing post with fallback category",
			zap.String("category", s.cfg.FallbackCategory),
			zap.Error(err))
		detected = []emotion.Detection{{
			Name:       s.cfg.FallbackCategory,
			Confidence: s.cfg.FallbackConfidence,
		}}
	default:
		return nil, fmt.Errorf("failed to analyze post: %w", err)
	}

	post := &models.Post{Content: content}
	if authorID != nil {
		post.AuthorID = sql.NullInt64{Int64: *authorID, Valid: true}
	}

	if err := s.store.CreateWithCategories(ctx, post, detected); err != nil {
		return nil, fmt.Errorf("failed to persist post: %w", err)
	}

	// Reload so the response carries author and ordered category links
	stored, err := s.store.GetByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created post: %w", err)
	}
	if stored == nil {
		return post, nil
	}
	return stored, nil
}

// ListPosts returns persisted posts newest-first. The category filter
// matches any linked category, including secondary ones.
func (s *Service) ListPosts(ctx context.Context, filter ListFilter) ([]models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.list_posts")
	defer span.End()

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, ErrInvalidFilter
	}
	if filter.AuthorID < 0 {
		return nil, ErrInvalidFilter
	}
	if utf8.RuneCountInString(filter.Category) > 50 {
		return nil, ErrInvalidFilter
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return s.store.List(ctx, db.PostFilter{
		Category: filter.Category,
		AuthorID: filter.AuthorID,
		Limit:    limit,
		Offset:   filter.Offset,
	})
}
