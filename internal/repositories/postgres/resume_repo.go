package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResumeRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Resume, error)
	// ListRecent returns the newest n résumés with every searchable column.
	ListRecent(ctx context.Context, n int) ([]models.Resume, error)
	// ListAll returns every résumé; the matcher scans the full collection.
	ListAll(ctx context.Context) ([]models.Resume, error)
	GetByID(ctx context.Context, id int64) (*models.Resume, error)
	SetFileID(ctx context.Context, id, fileID int64) error
	Delete(ctx context.Context, id int64) (*models.Resume, error)
}

// columns needed to build a blob and a match/search item
var resumeSearchColumns = []string{
	"id", "name", "contact_info", "skills", "work_experience", "internship_experience",
	"project_experience", "self_evaluation", "education_degree", "education_tiers",
	"education_school", "tag_names", "work_years", "resume_file_id", "created_at",
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) List(ctx context.Context, limit, offset int) ([]models.Resume, error) {
	if limit <= 0 {
		limit = 200
	}
	var rows []models.Resume
	err := r.db.WithContext(ctx).
		Select("id", "name", "skills", "education_degree", "education_tiers", "tag_names", "created_at").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) ListRecent(ctx context.Context, n int) ([]models.Resume, error) {
	var rows []models.Resume
	err := r.db.WithContext(ctx).
		Select(resumeSearchColumns).
		Order("id DESC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) ListAll(ctx context.Context) ([]models.Resume, error) {
	var rows []models.Resume
	err := r.db.WithContext(ctx).
		Select(resumeSearchColumns).
		Find(&rows).Error
	return rows, err
}

func (r *resumeRepo) GetByID(ctx context.Context, id int64) (*models.Resume, error) {
	var row models.Resume
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resumeRepo) SetFileID(ctx context.Context, id, fileID int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]any{"resume_file_id": fileID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *resumeRepo) Delete(ctx context.Context, id int64) (*models.Resume, error) {
	var rows []models.Resume
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
