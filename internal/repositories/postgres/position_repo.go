package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PositionRepository interface {
	List(ctx context.Context, q string, limit, offset int) ([]models.Position, error)
	// ListAll returns every position; the matcher scans the full collection.
	ListAll(ctx context.Context) ([]models.Position, error)
	GetByID(ctx context.Context, id int64) (*models.Position, error)
	Insert(ctx context.Context, p *models.Position) error
	Update(ctx context.Context, p *models.Position) error
	Delete(ctx context.Context, id int64) (*models.Position, error)
}

type positionRepo struct {
	db *gorm.DB
}

func NewPositionRepo(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) List(ctx context.Context, q string, limit, offset int) ([]models.Position, error) {
	if limit <= 0 {
		limit = 100
	}

	tx := r.db.WithContext(ctx).Order("id DESC")
	if q != "" {
		like := "%" + escapeLike(q) + "%"
		tx = tx.Where("position_name ILIKE ? OR position_category ILIKE ?", like, like)
	}

	var rows []models.Position
	err := tx.Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *positionRepo) ListAll(ctx context.Context) ([]models.Position, error) {
	var rows []models.Position
	err := r.db.WithContext(ctx).
		Select("id", "position_name", "position_category", "required_keywords", "match_type", "tags").
		Find(&rows).Error
	return rows, err
}

func (r *positionRepo) GetByID(ctx context.Context, id int64) (*models.Position, error) {
	var row models.Position
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *positionRepo) Insert(ctx context.Context, p *models.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *positionRepo) Update(ctx context.Context, p *models.Position) error {
	res := r.db.WithContext(ctx).
		Model(&models.Position{}).
		Where("id = ?", p.ID).
		Select("position_name", "position_description", "position_category", "required_keywords", "match_type", "tags").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *positionRepo) Delete(ctx context.Context, id int64) (*models.Position, error) {
	var rows []models.Position
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}
