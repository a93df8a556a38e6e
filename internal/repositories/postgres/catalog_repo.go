package postgres

import (
	"context"
	"strings"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"gorm.io/gorm"
)

// CatalogRepository serves the keyword and tag vocabularies.
type CatalogRepository interface {
	ListKeywords(ctx context.Context, limit int) ([]models.Keyword, error)
	InsertKeyword(ctx context.Context, k *models.Keyword) error
	ListTags(ctx context.Context, category string, limit int) ([]models.Tag, error)
	Ping(ctx context.Context) error
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListKeywords(ctx context.Context, limit int) ([]models.Keyword, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Keyword
	err := r.db.WithContext(ctx).Order("keyword").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) InsertKeyword(ctx context.Context, k *models.Keyword) error {
	err := r.db.WithContext(ctx).Create(k).Error
	if isUniqueViolation(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *catalogRepo) ListTags(ctx context.Context, category string, limit int) ([]models.Tag, error) {
	if limit <= 0 {
		limit = 100
	}
	tx := r.db.WithContext(ctx).Order("tag_name")
	if category = strings.TrimSpace(category); category != "" {
		tx = tx.Where("category = ?", category)
	}
	var rows []models.Tag
	err := tx.Limit(limit).Find(&rows).Error
	return rows, err
}

// Ping probes the database with a trivial query.
func (r *catalogRepo) Ping(ctx context.Context) error {
	var one int
	return r.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}
