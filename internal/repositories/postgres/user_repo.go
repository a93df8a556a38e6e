package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	List(ctx context.Context) ([]models.AppUser, error)
	GetByID(ctx context.Context, id int64) (*models.AppUser, error)
	GetByAccount(ctx context.Context, account string) (*models.AppUser, error)
	Insert(ctx context.Context, u *models.AppUser) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.AppUser, error)
	Delete(ctx context.Context, id int64) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) List(ctx context.Context) ([]models.AppUser, error) {
	var rows []models.AppUser
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.AppUser, error) {
	var u models.AppUser
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByAccount(ctx context.Context, account string) (*models.AppUser, error) {
	var u models.AppUser
	err := r.db.WithContext(ctx).Where("account = ?", account).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Insert(ctx context.Context, u *models.AppUser) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if isUniqueViolation(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *userRepo) Update(ctx context.Context, id int64, fields map[string]any) (*models.AppUser, error) {
	var rows []models.AppUser
	res := r.db.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(fields)
	if isUniqueViolation(res.Error) {
		return nil, utils.ErrConflict
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AppUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// isUniqueViolation detects SQLSTATE 23505 without binding to a driver type.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505")
}
