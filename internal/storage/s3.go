package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config covers any S3 compatible store (MinIO, Cloudflare R2, AWS).
type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
}

type S3Uploader struct {
	client *minio.Client
	cfg    S3Config
}

var _ BlobStore = (*S3Uploader)(nil)
var _ BlobStore = (*GCSUploader)(nil)

func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 endpoint and bucket are required")
	}
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return &S3Uploader{client: c, cfg: cfg}, nil
}

// EnsureBucket creates the bucket when missing (local MinIO setups).
func (u *S3Uploader) EnsureBucket(ctx context.Context) error {
	ok, err := u.client.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return u.client.MakeBucket(ctx, u.cfg.Bucket, minio.MakeBucketOptions{Region: u.cfg.Region})
}

func (u *S3Uploader) PublicURL(objectName string) string {
	if u.cfg.PublicBaseURL != "" {
		return joinURL(u.cfg.PublicBaseURL, objectName)
	}
	scheme := "http"
	if u.cfg.UseSSL {
		scheme = "https"
	}
	return joinURL(fmt.Sprintf("%s://%s/%s", scheme, u.cfg.Endpoint, u.cfg.Bucket), objectName)
}

func (u *S3Uploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, u.cfg.Bucket, objectName, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return u.PublicURL(objectName), nil
}

func (u *S3Uploader) SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	url, err := u.client.PresignedGetObject(ctx, u.cfg.Bucket, objectName, ttl, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (u *S3Uploader) PresignPut(ctx context.Context, objectName, _ string, ttl time.Duration) (string, error) {
	url, err := u.client.PresignedPutObject(ctx, u.cfg.Bucket, objectName, ttl)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}
