package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/models"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/storage"
	"github.com/yoockh/talentmatch/internal/utils"
)

// SearchScanLimit caps how many of the newest résumés a text search reads.
const SearchScanLimit = 5000

// DownloadURLTTL is the lifetime of signed download links in résumé detail.
const DownloadURLTTL = 15 * time.Minute

// ResumeItem is the list/search projection of a résumé.
type ResumeItem struct {
	ID              int64      `json:"id"`
	Name            *string    `json:"name"`
	EducationDegree *string    `json:"education_degree"`
	EducationTiers  []string   `json:"education_tiers"`
	Skills          []string   `json:"skills"`
	TagNames        []string   `json:"tag_names"`
	WorkYears       *int       `json:"work_years"`
	CreatedAt       *time.Time `json:"created_at"`
	WorkExperience  []string   `json:"work_experience,omitempty"`
}

// ResumeDetail is a full résumé plus its attached file. WorkExperience
// shadows the raw column with the effective history.
type ResumeDetail struct {
	*models.Resume

	WorkExperience []string `json:"work_experience"`
	FileURL        *string  `json:"file_url"`
	UploadedBy     *string  `json:"uploaded_by"`
	// DownloadURL is a short-lived signed link, set when the store signs.
	DownloadURL *string `json:"download_url,omitempty"`
}

type AttachFileInput struct {
	Path       string `json:"path"`
	FileName   string `json:"file_name"`
	UploadedBy string `json:"uploaded_by"`
}

type ResumeService interface {
	List(ctx context.Context, limit, offset int) ([]ResumeItem, error)
	// Search returns résumés whose blob contains q, plus the number found.
	Search(ctx context.Context, q string, limit, offset int) ([]ResumeItem, int, error)
	Get(ctx context.Context, id int64) (*ResumeDetail, error)
	Delete(ctx context.Context, id int64) error
	AttachFile(ctx context.Context, id int64, in AttachFileInput) (*models.ResumeFile, error)
}

type resumeService struct {
	resumes pgrepo.ResumeRepository
	files   pgrepo.ResumeFileRepository
	blobs   storage.Uploader
	log     *logrus.Logger
}

func NewResumeService(resumes pgrepo.ResumeRepository, files pgrepo.ResumeFileRepository, blobs storage.Uploader, log *logrus.Logger) ResumeService {
	return &resumeService{resumes: resumes, files: files, blobs: blobs, log: log}
}

func toItem(r *models.Resume, withHistory bool) ResumeItem {
	it := ResumeItem{
		ID:              r.ID,
		Name:            r.Name,
		EducationDegree: r.EducationDegree,
		EducationTiers:  nonNil(r.EducationTiers),
		Skills:          nonNil(r.Skills),
		TagNames:        nonNil(r.TagNames),
		WorkYears:       r.WorkYears,
		CreatedAt:       r.CreatedAt,
	}
	if withHistory {
		it.WorkExperience = r.WorkHistory()
	}
	return it
}

func (s *resumeService) List(ctx context.Context, limit, offset int) ([]ResumeItem, error) {
	const op = "ResumeService.List"

	rows, err := s.resumes.List(ctx, limit, offset)
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to list resumes", err)
	}
	out := make([]ResumeItem, 0, len(rows))
	for i := range rows {
		out = append(out, toItem(&rows[i], false))
	}
	return out, nil
}

func (s *resumeService) Search(ctx context.Context, q string, limit, offset int) ([]ResumeItem, int, error) {
	const op = "ResumeService.Search"

	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return nil, 0, utils.E(utils.CodeInvalidArgument, op, "q is required", nil)
	}

	rows, err := s.resumes.ListRecent(ctx, SearchScanLimit)
	if err != nil {
		return nil, 0, utils.StoreUnavailable(op, "failed to load resumes", err)
	}

	found := make([]ResumeItem, 0)
	for i := range rows {
		if strings.Contains(rows[i].Blob(), needle) {
			found = append(found, toItem(&rows[i], true))
		}
	}
	return Page(found, limit, offset), len(found), nil
}

func (s *resumeService) Get(ctx context.Context, id int64) (*ResumeDetail, error) {
	const op = "ResumeService.Get"

	if id <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid resume id", nil)
	}
	r, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to get resume", err)
	}

	out := &ResumeDetail{Resume: r, WorkExperience: r.WorkHistory()}
	if r.ResumeFileID == nil {
		return out, nil
	}

	f, err := s.files.GetByID(ctx, *r.ResumeFileID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
	case err != nil:
		// the résumé is still useful without its file link
		s.log.WithError(err).WithField("resume_id", id).Warn("resume file lookup failed")
	default:
		if f.FilePath != "" {
			out.FileURL = &f.FilePath
			out.DownloadURL = s.signedDownload(ctx, f.FilePath)
		}
		if f.UploadedBy != "" {
			out.UploadedBy = &f.UploadedBy
		}
	}
	return out, nil
}

// signedDownload signs a GET for a file stored under this store's public
// base. Foreign URLs and signing failures yield nil.
func (s *resumeService) signedDownload(ctx context.Context, fileURL string) *string {
	signer, ok := s.blobs.(storage.Signer)
	if !ok {
		return nil
	}
	base := s.blobs.PublicURL("")
	if !strings.HasPrefix(fileURL, base) || len(fileURL) == len(base) {
		return nil
	}

	url, err := signer.SignedGetURL(ctx, strings.TrimPrefix(fileURL, base), DownloadURLTTL)
	if err != nil {
		s.log.WithError(err).Warn("signing download url failed")
		return nil
	}
	return &url
}

func (s *resumeService) Delete(ctx context.Context, id int64) error {
	const op = "ResumeService.Delete"

	if id <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "invalid resume id", nil)
	}
	if _, err := s.resumes.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return utils.StoreUnavailable(op, "failed to delete resume", err)
	}

	s.log.WithField("resume_id", id).Info("resume deleted")
	return nil
}

// AttachFile points a résumé at an object already in the blob store. The
// existing file record is rewritten, or a new one is created and linked.
func (s *resumeService) AttachFile(ctx context.Context, id int64, in AttachFileInput) (*models.ResumeFile, error) {
	const op = "ResumeService.AttachFile"

	path := strings.TrimLeft(strings.TrimSpace(in.Path), "/")
	if id <= 0 || path == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume id and path are required", nil)
	}
	if !storage.CleanKey(path) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid path", nil)
	}

	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		fileName = path[strings.LastIndex(path, "/")+1:]
	}
	uploadedBy := strings.TrimSpace(in.UploadedBy)
	url := s.blobs.PublicURL(path)

	r, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to get resume", err)
	}

	if r.ResumeFileID != nil {
		f, err := s.files.UpdateAttachment(ctx, *r.ResumeFileID, fileName, url, uploadedBy)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.StoreUnavailable(op, "failed to update resume file", err)
		}
		// dangling reference: fall through and create a fresh record
	}

	f := &models.ResumeFile{
		FileName:    fileName,
		FilePath:    url,
		UploadedBy:  uploadedBy,
		Status:      models.FileStatusUploaded,
		ParseStatus: models.ParseStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, f); err != nil {
		return nil, utils.StoreUnavailable(op, "failed to create resume file", err)
	}
	if err := s.resumes.SetFileID(ctx, id, f.ID); err != nil {
		s.dropUnlinkedFile(ctx, id, f.ID)
		return nil, utils.StoreUnavailable(op, "failed to link resume file", err)
	}

	s.log.WithFields(logrus.Fields{"resume_id": id, "file_id": f.ID}).Info("resume file attached")
	return f, nil
}

// dropUnlinkedFile removes a file record whose résumé link failed. If that
// fails too the orphan id is logged for manual cleanup.
func (s *resumeService) dropUnlinkedFile(ctx context.Context, resumeID, fileID int64) {
	if err := s.files.Delete(ctx, fileID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"resume_id": resumeID, "file_id": fileID}).
			Error("orphan resume file left behind")
		return
	}
	s.log.WithFields(logrus.Fields{"resume_id": resumeID, "file_id": fileID}).Warn("unlinked resume file removed")
}
