package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/matching"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"golang.org/x/sync/errgroup"
)

// ResumeSource yields the résumés a position is matched against. The
// postgres repository scans the whole table; an index can replace it.
type ResumeSource interface {
	GetByID(ctx context.Context, id int64) (*models.Resume, error)
	ListAll(ctx context.Context) ([]models.Resume, error)
}

type PositionSource interface {
	GetByID(ctx context.Context, id int64) (*models.Position, error)
	ListAll(ctx context.Context) ([]models.Position, error)
}

type UploaderLookup interface {
	UploadersByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// UnknownName is shown for candidates whose résumé has no name.
const UnknownName = "未知"

// CandidateMatch is one résumé that satisfies a position.
type CandidateMatch struct {
	matching.Hit

	Name            string     `json:"name"`
	EducationDegree *string    `json:"education_degree"`
	EducationTiers  []string   `json:"education_tiers"`
	EducationSchool []string   `json:"education_school"`
	Skills          []string   `json:"skills"`
	TagNames        []string   `json:"tag_names"`
	WorkYears       *int       `json:"work_years"`
	CreatedAt       *time.Time `json:"created_at"`
	WorkExperience  []string   `json:"work_experience"`
	UploadedBy      *string    `json:"uploaded_by"`
}

// PositionMatch is one position a résumé satisfies.
type PositionMatch struct {
	matching.Hit

	PositionName     string   `json:"position_name"`
	PositionCategory string   `json:"position_category"`
	Tags             []string `json:"tags"`
	MatchType        string   `json:"match_type"`
}

type MatchService interface {
	MatchPosition(ctx context.Context, positionID int64) ([]CandidateMatch, error)
	MatchResume(ctx context.Context, resumeID int64) ([]PositionMatch, error)
}

type matchService struct {
	positions PositionSource
	resumes   ResumeSource
	files     UploaderLookup
	timeout   time.Duration
	log       *logrus.Logger
}

func NewMatchService(positions PositionSource, resumes ResumeSource, files UploaderLookup, timeout time.Duration, log *logrus.Logger) MatchService {
	return &matchService{positions: positions, resumes: resumes, files: files, timeout: timeout, log: log}
}

func (s *matchService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *matchService) MatchPosition(ctx context.Context, positionID int64) ([]CandidateMatch, error) {
	const op = "MatchService.MatchPosition"

	if positionID <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid position id", nil)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	var (
		pos  *models.Position
		rows []models.Resume
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.positions.GetByID(gctx, positionID)
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "position not found", err)
		}
		if err != nil {
			return utils.StoreUnavailable(op, "failed to load position", err)
		}
		pos = p
		return nil
	})
	g.Go(func() error {
		rs, err := s.resumes.ListAll(gctx)
		if err != nil {
			return utils.StoreUnavailable(op, "failed to load resumes", err)
		}
		rows = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logFailure(op, err, logrus.Fields{"position_id": positionID})
		return nil, err
	}

	mode := matching.ParseMode(pos.MatchType)
	keywords := []string(pos.RequiredKeywords)

	out := make([]CandidateMatch, 0)
	for i := range rows {
		r := &rows[i]
		hit, ok := matching.Evaluate(r.ID, r.Blob(), keywords, mode)
		if !ok {
			continue
		}
		out = append(out, CandidateMatch{
			Hit:             hit,
			Name:            displayName(r.Name),
			EducationDegree: r.EducationDegree,
			EducationTiers:  nonNil(r.EducationTiers),
			EducationSchool: nonNil(r.EducationSchool),
			Skills:          nonNil(r.Skills),
			TagNames:        nonNil(r.TagNames),
			WorkYears:       r.WorkYears,
			CreatedAt:       r.CreatedAt,
			WorkExperience:  r.WorkHistory(),
		})
	}

	s.attachUploaders(ctx, rows, out)

	return matching.Rank(out), nil
}

// attachUploaders resolves uploaded_by for the survivors in one batch read.
// A failed lookup leaves uploaded_by null rather than failing the match.
func (s *matchService) attachUploaders(ctx context.Context, rows []models.Resume, out []CandidateMatch) {
	if s.files == nil || len(out) == 0 {
		return
	}

	fileOf := make(map[int64]int64, len(out))
	for _, r := range rows {
		if r.ResumeFileID != nil {
			fileOf[r.ID] = *r.ResumeFileID
		}
	}

	ids := make([]int64, 0, len(out))
	seen := make(map[int64]struct{}, len(out))
	for _, m := range out {
		fid, ok := fileOf[m.ID]
		if !ok {
			continue
		}
		if _, dup := seen[fid]; dup {
			continue
		}
		seen[fid] = struct{}{}
		ids = append(ids, fid)
	}
	if len(ids) == 0 {
		return
	}

	uploaders, err := s.files.UploadersByIDs(ctx, ids)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("files", len(ids)).Warn("uploader lookup failed")
		}
		return
	}

	for i := range out {
		fid, ok := fileOf[out[i].ID]
		if !ok {
			continue
		}
		if by, ok := uploaders[fid]; ok && by != "" {
			out[i].UploadedBy = &by
		}
	}
}

func (s *matchService) MatchResume(ctx context.Context, resumeID int64) ([]PositionMatch, error) {
	const op = "MatchService.MatchResume"

	if resumeID <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid resume id", nil)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	var (
		res       *models.Resume
		positions []models.Position
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.resumes.GetByID(gctx, resumeID)
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		if err != nil {
			return utils.StoreUnavailable(op, "failed to load resume", err)
		}
		res = r
		return nil
	})
	g.Go(func() error {
		ps, err := s.positions.ListAll(gctx)
		if err != nil {
			return utils.StoreUnavailable(op, "failed to load positions", err)
		}
		positions = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logFailure(op, err, logrus.Fields{"resume_id": resumeID})
		return nil, err
	}

	blob := res.Blob()

	out := make([]PositionMatch, 0)
	for _, p := range positions {
		keywords := []string(p.RequiredKeywords)
		// a position without keywords never matches from this direction
		if matching.RequiredCount(keywords) == 0 {
			continue
		}
		hit, ok := matching.Evaluate(p.ID, blob, keywords, matching.ParseMode(p.MatchType))
		if !ok {
			continue
		}
		out = append(out, PositionMatch{
			Hit:              hit,
			PositionName:     p.Name,
			PositionCategory: p.Category,
			Tags:             nonNil(p.Tags),
			MatchType:        string(matching.ParseMode(p.MatchType)),
		})
	}

	return matching.Rank(out), nil
}

func (s *matchService) logFailure(op string, err error, fields logrus.Fields) {
	if s.log == nil || utils.IsCode(err, utils.CodeNotFound) {
		return
	}
	s.log.WithError(err).WithFields(fields).WithField("op", op).Error("match query failed")
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return UnknownName
	}
	return *name
}
