package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrStoreUnavailable = errors.New("object store unavailable")
)

// ObjectRef locates a stored object. URI is the provider-native form
// (s3://bucket/key, gs://bucket/key) that remote services accept.
type ObjectRef struct {
	Bucket string
	Key    string
	URI    string
}

func (r ObjectRef) Valid() bool {
	return r.Bucket != "" && r.Key != "" && r.URI != ""
}

// BlobStore is safe for concurrent use on distinct keys.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (ObjectRef, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Bucket() string
	Close() error
}

// NewObjectKey returns "<uuid>-<filename>", unique across concurrent uploads.
func NewObjectKey(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "audio"
	}
	return uuid.NewString() + "-" + name
}
