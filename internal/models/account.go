package models

import (
	"time"
)

// Account represents a registered user. Authentication is handled upstream;
// this service only stores the identity referenced by posts.
type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex:accounts_ux1;column:username"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Posts []Post `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
