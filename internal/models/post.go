package models

import (
	"database/sql"
	"time"
)

// Post represents a publication on the shared feed. Posts are immutable
// after creation; there are no edit or delete operations.
//
// PrimaryCategory and PrimaryConfidence denormalize the top-ranked
// PostCategory row for fast filtering without a join. Every write path must
// keep them equal to the highest-confidence category link.
type Post struct {
	ID                int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Content           string        `gorm:"type:text;not null;column:content"`
	AuthorID          sql.NullInt64 `gorm:"index;column:author_id"`
	PrimaryCategory   string        `gorm:"type:varchar(50);not null;index;column:primary_category"`
	PrimaryConfidence float64       `gorm:"not null;column:primary_confidence"`
	CreatedAt         time.Time     `gorm:"not null;index;column:created_at"`

	// Relationships
	Author     *Account       `gorm:"foreignKey:AuthorID;references:ID"`
	Categories []PostCategory `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostCategory links a post to one detected category with the confidence the
// classifier assigned to that specific pair. One row exists per detected
// category per post, the primary one included. Read back ordered by
// descending confidence; the first row is the primary.
type PostCategory struct {
	PostID     int64   `gorm:"primaryKey;column:post_id"`
	CategoryID int64   `gorm:"primaryKey;column:category_id"`
	Confidence float64 `gorm:"not null;column:confidence"`

	// Relationships
	Post     *Post     `gorm:"foreignKey:PostID;references:ID"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName specifies the table name for PostCategory
func (PostCategory) TableName() string {
	return "post_categories"
}
