package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/models"
	mongorepo "github.com/yoockh/talentmatch/internal/repositories/mongo"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/utils"
)

type CreateUserInput struct {
	Account  string `json:"account"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserInput is a partial update; nil fields are left alone.
type UpdateUserInput struct {
	Account  *string `json:"account"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}

type UserService interface {
	List(ctx context.Context) ([]models.AppUser, error)
	Create(ctx context.Context, in CreateUserInput) (*models.AppUser, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*models.AppUser, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users    pgrepo.UserRepository
	sessions mongorepo.SessionRepository
	log      *logrus.Logger
}

func NewUserService(users pgrepo.UserRepository, sessions mongorepo.SessionRepository, log *logrus.Logger) UserService {
	return &userService{users: users, sessions: sessions, log: log}
}

func (s *userService) List(ctx context.Context) ([]models.AppUser, error) {
	const op = "UserService.List"

	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to list users", err)
	}
	return rows, nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*models.AppUser, error) {
	const op = "UserService.Create"

	account := strings.TrimSpace(in.Account)
	if account == "" || in.Password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "account and password are required", nil)
	}

	hash, err := hashPassword(op, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &models.AppUser{
		Account:      account,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "account already exists", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to create user", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "is_admin": u.IsAdmin}).Info("user created")
	return u, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateUserInput) (*models.AppUser, error) {
	const op = "UserService.Update"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid user id", nil)
	}

	fields := map[string]any{}
	if in.Account != nil {
		a := strings.TrimSpace(*in.Account)
		if a == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "account cannot be empty", nil)
		}
		fields["account"] = a
	}
	if in.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "password cannot be empty", nil)
		}
		hash, err := hashPassword(op, *in.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	if in.IsAdmin != nil {
		fields["is_admin"] = *in.IsAdmin
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if len(fields) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "nothing to update", nil)
	}
	fields["updated_at"] = time.Now().UTC()

	u, err := s.users.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		case errors.Is(err, utils.ErrConflict):
			return nil, utils.E(utils.CodeConflict, op, "account already exists", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to update user", err)
	}

	// role, password or status changes invalidate issued tokens
	if in.IsActive != nil || in.IsAdmin != nil || in.Password != nil {
		s.revokeSessions(ctx, id)
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	const op = "UserService.Delete"

	if id <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "invalid user id", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return utils.StoreUnavailable(op, "failed to delete user", err)
	}

	s.revokeSessions(ctx, id)
	s.log.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *userService) revokeSessions(ctx context.Context, userID int64) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.EndAllForUser(ctx, userID, time.Now()); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to revoke sessions")
	}
}

func hashPassword(op, password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", utils.E(utils.CodeInvalidArgument, op, "password is too long", err)
	}
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	return hash, nil
}
