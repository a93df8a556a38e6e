package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
	// PublicBaseURL overrides https://storage.googleapis.com/<bucket>. When set,
	// objects are assumed public through bucket policy and no ACL is written.
	PublicBaseURL string
	// SignerEmail/SignerKeyFile sign URLs explicitly; otherwise the client's
	// credentials are used.
	SignerEmail   string
	SignerKeyFile string
}

type GCSUploader struct {
	client *gcs.Client
	cfg    GCSConfig
	key    []byte
}

func NewGCSUploader(ctx context.Context, cfg GCSConfig) (*GCSUploader, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	u := &GCSUploader{client: c, cfg: cfg}
	if cfg.SignerKeyFile != "" {
		key, err := os.ReadFile(cfg.SignerKeyFile)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("read signer key: %w", err)
		}
		u.key = key
	}
	return u, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) PublicURL(objectName string) string {
	if u.cfg.PublicBaseURL != "" {
		return joinURL(u.cfg.PublicBaseURL, objectName)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.cfg.Bucket, objectName)
}

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := u.client.Bucket(u.cfg.Bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	if u.cfg.PublicBaseURL == "" {
		if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
			return "", err
		}
	}

	return u.PublicURL(objectName), nil
}

func (u *GCSUploader) SignedGetURL(_ context.Context, objectName string, ttl time.Duration) (string, error) {
	return u.client.Bucket(u.cfg.Bucket).SignedURL(objectName, u.signOpts(http.MethodGet, "", ttl))
}

func (u *GCSUploader) PresignPut(_ context.Context, objectName, contentType string, ttl time.Duration) (string, error) {
	return u.client.Bucket(u.cfg.Bucket).SignedURL(objectName, u.signOpts(http.MethodPut, contentType, ttl))
}

func (u *GCSUploader) signOpts(method, contentType string, ttl time.Duration) *gcs.SignedURLOptions {
	opts := &gcs.SignedURLOptions{
		Scheme:      gcs.SigningSchemeV4,
		Method:      method,
		ContentType: contentType,
		Expires:     time.Now().Add(ttl),
	}
	if u.cfg.SignerEmail != "" && len(u.key) > 0 {
		opts.GoogleAccessID = u.cfg.SignerEmail
		opts.PrivateKey = u.key
	}
	return opts
}
