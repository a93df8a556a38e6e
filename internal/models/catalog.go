package models

import "time"

type Keyword struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Keyword   string    `gorm:"column:keyword;type:text;uniqueIndex" json:"keyword"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Keyword) TableName() string { return "keywords" }

type Tag struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TagName  string `gorm:"column:tag_name;type:text" json:"tag_name"`
	Category string `gorm:"column:category;type:text;index" json:"category"`
}

func (Tag) TableName() string { return "tags" }
