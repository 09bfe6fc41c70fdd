package objects

import (
	"time"

	"github.com/sentimind/sentimind/internal/models"
)

// Author is the embedded author payload
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PostCategory is one detected category with its confidence
type PostCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Post is the wire representation of a feed post. The category/confidence
// fields duplicate primary_category/primary_confidence for compatibility
// with clients written against the original single-category payload.
type Post struct {
	ID                int64          `json:"id"`
	Content           string         `json:"content"`
	Author            *Author        `json:"author"`
	Category          string         `json:"category"`
	Confidence        float64        `json:"confidence"`
	PrimaryCategory   string         `json:"primary_category"`
	PrimaryConfidence float64        `json:"primary_confidence"`
	Categories        []PostCategory `json:"categories"`
	CreatedAt         time.Time      `json:"created_at"`
}

// NewPost builds the wire representation from a post loaded with its author
// and category links (links already ordered by descending confidence).
func NewPost(post *models.Post) *Post {
	out := &Post{
		ID:                post.ID,
		Content:           post.Content,
		Category:          post.PrimaryCategory,
		Confidence:        post.PrimaryConfidence,
		PrimaryCategory:   post.PrimaryCategory,
		PrimaryConfidence: post.PrimaryConfidence,
		Categories:        make([]PostCategory, 0, len(post.Categories)),
		CreatedAt:         post.CreatedAt,
	}

	if post.Author != nil {
		out.Author = &Author{
			ID:       post.Author.ID,
			Username: post.Author.Username,
		}
	}

	for _, link := range post.Categories {
		name := ""
		if link.Category != nil {
			name = link.Category.Name
		}
		out.Categories = append(out.Categories, PostCategory{
			Name:       name,
			Confidence: link.Confidence,
		})
	}

	return out
}

// NewPostList builds wire representations preserving order
func NewPostList(posts []models.Post) []*Post {
	out := make([]*Post, 0, len(posts))
	for i := range posts {
		out = append(out, NewPost(&posts[i]))
	}
	return out
}
