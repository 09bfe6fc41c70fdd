package models

// Category is an emotion/topic label detected on posts. Rows are created
// lazily the first time any post is tagged with the name; they are never
// deleted by this service.
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"type:varchar(50);not null;uniqueIndex:categories_ux1;column:name"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}
