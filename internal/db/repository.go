package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sentimind/sentimind/internal/emotion"
	"github.com/sentimind/sentimind/internal/models"
)

// ErrEmptyDetections is returned when a post create is attempted without any
// detected category. The selector contract guarantees at least one, so
// hitting this indicates a caller bug.
var ErrEmptyDetections = errors.New("post must have at least one detected category")

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AccountRepository provides account-related database operations
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(repo *Repository) *AccountRepository {
	return &AccountRepository{Repository: repo}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetByUsername retrieves an account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// CategoryRepository provides category-related database operations
type CategoryRepository struct {
	*Repository
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(repo *Repository) *CategoryRepository {
	return &CategoryRepository{Repository: repo}
}

// GetByName retrieves a category by name (case-sensitive)
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// List retrieves all known categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// getOrCreate looks up a category by name, inserting it if missing. The
// insert uses ON CONFLICT DO NOTHING so two transactions introducing the
// same brand-new name cannot create duplicate rows; the loser of the race
// re-reads the winner's row.
func getOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = models.Category{Name: name}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category).Error; err != nil {
		return nil, err
	}

	if category.ID == 0 {
		// Lost the race; fetch the existing row
		if err := tx.Where("name = ?", name).First(&category).Error; err != nil {
			return nil, err
		}
	}

	return &category, nil
}

// PostFilter narrows a feed listing
type PostFilter struct {
	Category string
	AuthorID int64
	Limit    int
	Offset   int
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// CreateWithCategories persists a post together with one PostCategory row
// per detection, inside a single transaction. The post's primary fields are
// copied from the first detection, which callers supply in descending
// confidence order. Either everything is written or nothing is.
func (r *PostRepository) CreateWithCategories(ctx context.Context, post *models.Post, detected []emotion.Detection) error {
	if len(detected) == 0 {
		return ErrEmptyDetections
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post.PrimaryCategory = detected[0].Name
		post.PrimaryConfidence = detected[0].Confidence

		if err := tx.Create(post).Error; err != nil {
			return err
		}

		for _, d := range detected {
			category, err := getOrCreateCategory(tx, d.Name)
			if err != nil {
				return err
			}
			link := models.PostCategory{
				PostID:     post.ID,
				CategoryID: category.ID,
				Confidence: d.Confidence,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID retrieves a post with its author and category links, links ordered
// by descending confidence
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.preloaded(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// List retrieves posts newest-first. The category filter matches posts
// carrying the name on any linked category, not only the primary one.
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query := r.preloaded(r.db.WithContext(ctx)).Order("posts.created_at DESC")

	if filter.Category != "" {
		sub := r.db.Model(&models.PostCategory{}).
			Select("post_categories.post_id").
			Joins("JOIN categories ON categories.id = post_categories.category_id").
			Where("categories.name = ?", filter.Category)
		query = query.Where("posts.id IN (?)", sub)
	}

	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) preloaded(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Author").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_categories.confidence DESC")
		}).
		Preload("Categories.Category")
}
