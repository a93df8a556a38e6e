package models

import (
	"time"

	"github.com/lib/pq"
)

type Position struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:position_name;type:text" json:"position_name"`
	Description string `gorm:"column:position_description;type:text" json:"position_description"`
	Category    string `gorm:"column:position_category;type:text" json:"position_category"`

	RequiredKeywords pq.StringArray `gorm:"column:required_keywords;type:text[]" json:"required_keywords"`
	MatchType        string         `gorm:"column:match_type;type:text" json:"match_type"` // any|all
	Tags             pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;<-:create" json:"created_at"`
}

func (Position) TableName() string { return "positions" }
