package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/matching"
	"github.com/yoockh/talentmatch/internal/models"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/utils"
)

type PositionInput struct {
	Name             string   `json:"position_name"`
	Description      string   `json:"position_description"`
	Category         string   `json:"position_category"`
	RequiredKeywords []string `json:"required_keywords"`
	MatchType        string   `json:"match_type"`
	Tags             []string `json:"tags"`
}

type PositionService interface {
	List(ctx context.Context, q string, limit, offset int) ([]models.Position, error)
	Get(ctx context.Context, id int64) (*models.Position, error)
	Create(ctx context.Context, in PositionInput) (*models.Position, error)
	Update(ctx context.Context, id int64, in PositionInput) (*models.Position, error)
	Delete(ctx context.Context, id int64) (*models.Position, error)
}

type positionService struct {
	positions pgrepo.PositionRepository
	log       *logrus.Logger
}

func NewPositionService(positions pgrepo.PositionRepository, log *logrus.Logger) PositionService {
	return &positionService{positions: positions, log: log}
}

// normalize trims text, drops blank keywords and pins match_type to any|all.
// Only the exact string "all" is stored as all.
func (in PositionInput) normalize() models.Position {
	mode := matching.ModeAny
	if in.MatchType == string(matching.ModeAll) {
		mode = matching.ModeAll
	}
	return models.Position{
		Name:             strings.TrimSpace(in.Name),
		Description:      strings.TrimSpace(in.Description),
		Category:         strings.TrimSpace(in.Category),
		RequiredKeywords: pq.StringArray(cleanList(in.RequiredKeywords)),
		MatchType:        string(mode),
		Tags:             pq.StringArray(cleanList(in.Tags)),
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *positionService) List(ctx context.Context, q string, limit, offset int) ([]models.Position, error) {
	const op = "PositionService.List"

	rows, err := s.positions.List(ctx, strings.TrimSpace(q), limit, offset)
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to list positions", err)
	}
	return rows, nil
}

func (s *positionService) Get(ctx context.Context, id int64) (*models.Position, error) {
	const op = "PositionService.Get"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid position id", nil)
	}
	p, err := s.positions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "position not found", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to get position", err)
	}
	return p, nil
}

func (s *positionService) Create(ctx context.Context, in PositionInput) (*models.Position, error) {
	const op = "PositionService.Create"

	p := in.normalize()
	if p.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position_name is required", nil)
	}
	if err := s.positions.Insert(ctx, &p); err != nil {
		return nil, utils.StoreUnavailable(op, "failed to create position", err)
	}

	s.log.WithFields(logrus.Fields{"position_id": p.ID, "keywords": len(p.RequiredKeywords)}).Info("position created")
	return &p, nil
}

func (s *positionService) Update(ctx context.Context, id int64, in PositionInput) (*models.Position, error) {
	const op = "PositionService.Update"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid position id", nil)
	}
	p := in.normalize()
	if p.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position_name is required", nil)
	}
	p.ID = id

	if err := s.positions.Update(ctx, &p); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "position not found", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to update position", err)
	}
	return s.Get(ctx, id)
}

func (s *positionService) Delete(ctx context.Context, id int64) (*models.Position, error) {
	const op = "PositionService.Delete"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid position id", nil)
	}
	p, err := s.positions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "position not found", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to delete position", err)
	}

	s.log.WithField("position_id", id).Info("position deleted")
	return p, nil
}
