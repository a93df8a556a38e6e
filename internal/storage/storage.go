package storage

import (
	"context"
	"io"
	"time"
)

type Uploader interface {
	// Upload stores r under objectName and returns the object's public URL.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
	// PublicURL is the URL an object is (or will be) reachable at.
	PublicURL(objectName string) string
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

// Presigner issues URLs that let a browser PUT an object directly.
type Presigner interface {
	PresignPut(ctx context.Context, objectName, contentType string, ttl time.Duration) (string, error)
}

// BlobStore is what the upload relay needs from object storage.
type BlobStore interface {
	Uploader
	Presigner
}
