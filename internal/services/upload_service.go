package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/queue"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/storage"
	"github.com/yoockh/talentmatch/internal/utils"
)

const PresignTTL = 10 * time.Minute

// ParseRequest is published for every recorded original so the résumé
// parser can pick it up.
type ParseRequest struct {
	FileID     int64  `json:"file_id"`
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path"`
	UploadedBy string `json:"uploaded_by"`
}

type Presigned struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
}

type UploadService interface {
	// Upload streams one original to the blob store and records it.
	Upload(ctx context.Context, uploadedBy, fileName, contentType string, r io.Reader) (*models.ResumeFile, error)
	Presign(ctx context.Context, fileName, contentType string) (*Presigned, error)
	// Complete records a file the client PUT directly with a presigned URL.
	Complete(ctx context.Context, uploadedBy, fileName, objectKey string) (*models.ResumeFile, error)
}

type uploadService struct {
	files pgrepo.ResumeFileRepository
	blobs storage.BlobStore
	// parse is optional; without it files wait in parse_status=pending.
	parse      queue.Publisher
	parseQueue string
	log        *logrus.Logger
	now        func() time.Time
}

func NewUploadService(files pgrepo.ResumeFileRepository, blobs storage.BlobStore, parse queue.Publisher, parseQueue string, log *logrus.Logger) UploadService {
	return &uploadService{files: files, blobs: blobs, parse: parse, parseQueue: parseQueue, log: log, now: time.Now}
}

func (s *uploadService) Upload(ctx context.Context, uploadedBy, fileName, contentType string, r io.Reader) (*models.ResumeFile, error) {
	const op = "UploadService.Upload"

	if strings.TrimSpace(fileName) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file name is required", nil)
	}
	if s.blobs == nil {
		return nil, utils.E(utils.CodeInternal, op, "blob store is not configured", nil)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storage.OriginalObjectKey(fileName, s.now())
	url, err := s.blobs.Upload(ctx, key, contentType, r)
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to upload file", err)
	}

	return s.record(ctx, op, uploadedBy, fileName, url)
}

func (s *uploadService) Presign(ctx context.Context, fileName, contentType string) (*Presigned, error) {
	const op = "UploadService.Presign"

	if strings.TrimSpace(fileName) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file_name is required", nil)
	}
	if s.blobs == nil {
		return nil, utils.E(utils.CodeInternal, op, "blob store is not configured", nil)
	}

	key := storage.OriginalObjectKey(fileName, s.now())
	url, err := s.blobs.PresignPut(ctx, key, contentType, PresignTTL)
	if err != nil {
		return nil, utils.StoreUnavailable(op, "failed to presign upload", err)
	}
	return &Presigned{URL: url, ObjectKey: key, PublicURL: s.blobs.PublicURL(key)}, nil
}

func (s *uploadService) Complete(ctx context.Context, uploadedBy, fileName, objectKey string) (*models.ResumeFile, error) {
	const op = "UploadService.Complete"

	if s.blobs == nil {
		return nil, utils.E(utils.CodeInternal, op, "blob store is not configured", nil)
	}
	objectKey = strings.TrimSpace(objectKey)
	if !storage.IsOriginalKey(objectKey) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "object_key is not an upload key", nil)
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = objectKey[strings.LastIndex(objectKey, "/")+1:]
	}

	return s.record(ctx, op, uploadedBy, fileName, s.blobs.PublicURL(objectKey))
}

func (s *uploadService) record(ctx context.Context, op, uploadedBy, fileName, url string) (*models.ResumeFile, error) {
	f := &models.ResumeFile{
		FileName:    strings.TrimSpace(fileName),
		FilePath:    url,
		UploadedBy:  strings.TrimSpace(uploadedBy),
		Status:      models.FileStatusUploaded,
		ParseStatus: models.ParseStatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.files.Insert(ctx, f); err != nil {
		return nil, utils.StoreUnavailable(op, "failed to persist file metadata", err)
	}

	s.log.WithFields(logrus.Fields{"file_id": f.ID, "uploaded_by": f.UploadedBy}).Info("resume file stored")
	s.enqueueParse(ctx, f)
	return f, nil
}

// enqueueParse is best effort: the row is already stored as pending.
func (s *uploadService) enqueueParse(ctx context.Context, f *models.ResumeFile) {
	if s.parse == nil {
		return
	}
	err := s.parse.PublishJSON(ctx, s.parseQueue, ParseRequest{
		FileID:     f.ID,
		FileName:   f.FileName,
		FilePath:   f.FilePath,
		UploadedBy: f.UploadedBy,
	})
	if err != nil {
		s.log.WithError(err).WithField("file_id", f.ID).Warn("parse request not queued")
	}
}
