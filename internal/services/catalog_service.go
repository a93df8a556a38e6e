package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/cache"
	"github.com/yoockh/talentmatch/internal/models"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/utils"
)

const catalogListLimit = 1000

type CatalogService interface {
	Keywords(ctx context.Context) ([]models.Keyword, error)
	AddKeyword(ctx context.Context, keyword string) (*models.Keyword, error)
	Tags(ctx context.Context, category string) ([]models.Tag, error)
}

type catalogService struct {
	repo  pgrepo.CatalogRepository
	cache cache.Cache
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCatalogService(repo pgrepo.CatalogRepository, c cache.Cache, ttl time.Duration, log *logrus.Logger) CatalogService {
	return &catalogService{repo: repo, cache: c, ttl: ttl, log: log}
}

func (s *catalogService) Keywords(ctx context.Context) ([]models.Keyword, error) {
	const op = "CatalogService.Keywords"

	rows, err := cache.Remember(ctx, s.cache, cache.KeyKeywords, s.ttl, func(ctx context.Context) ([]models.Keyword, error) {
		return s.repo.ListKeywords(ctx, catalogListLimit)
	})
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to list keywords", err)
	}
	return rows, nil
}

func (s *catalogService) AddKeyword(ctx context.Context, keyword string) (*models.Keyword, error) {
	const op = "CatalogService.AddKeyword"

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "keyword is required", nil)
	}

	k := &models.Keyword{Keyword: keyword, CreatedAt: time.Now().UTC()}
	if err := s.repo.InsertKeyword(ctx, k); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "keyword already exists", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to add keyword", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cache.KeyKeywords); err != nil {
			s.log.WithError(err).Warn("keyword cache invalidation failed")
		}
	}
	return k, nil
}

func (s *catalogService) Tags(ctx context.Context, category string) ([]models.Tag, error) {
	const op = "CatalogService.Tags"

	category = strings.TrimSpace(category)
	rows, err := cache.Remember(ctx, s.cache, cache.KeyTagsPrefix+category, s.ttl, func(ctx context.Context) ([]models.Tag, error) {
		return s.repo.ListTags(ctx, category, catalogListLimit)
	})
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to list tags", err)
	}
	return rows, nil
}
