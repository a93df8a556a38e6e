package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResumeFileRepository interface {
	Insert(ctx context.Context, f *models.ResumeFile) error
	GetByID(ctx context.Context, id int64) (*models.ResumeFile, error)
	UpdateAttachment(ctx context.Context, id int64, fileName, filePath, uploadedBy string) (*models.ResumeFile, error)
	Delete(ctx context.Context, id int64) error
	// UploadersByIDs maps file id to uploaded_by for the ids that exist.
	UploadersByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type resumeFileRepo struct {
	db *gorm.DB
}

func NewResumeFileRepo(db *gorm.DB) ResumeFileRepository {
	return &resumeFileRepo{db: db}
}

func (r *resumeFileRepo) Insert(ctx context.Context, f *models.ResumeFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *resumeFileRepo) GetByID(ctx context.Context, id int64) (*models.ResumeFile, error) {
	var row models.ResumeFile
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resumeFileRepo) UpdateAttachment(ctx context.Context, id int64, fileName, filePath, uploadedBy string) (*models.ResumeFile, error) {
	var rows []models.ResumeFile
	res := r.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"file_name":   fileName,
			"file_path":   filePath,
			"uploaded_by": uploadedBy,
			"status":      models.FileStatusUploaded,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}

func (r *resumeFileRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ResumeFile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *resumeFileRepo) UploadersByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.ResumeFile
	err := r.db.WithContext(ctx).
		Select("id", "uploaded_by").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, f := range rows {
		out[f.ID] = f.UploadedBy
	}
	return out, nil
}
