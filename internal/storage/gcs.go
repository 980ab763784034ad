package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: c, bucket: bucket}, nil
}

func (s *GCSStore) Close() error   { return s.client.Close() }
func (s *GCSStore) Bucket() string { return s.bucket }

func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) (ObjectRef, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return ObjectRef{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := w.Close(); err != nil {
		return ObjectRef{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return ObjectRef{
		Bucket: s.bucket,
		Key:    key,
		URI:    fmt.Sprintf("gs://%s/%s", s.bucket, key),
	}, nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrObjectNotFound, s.bucket, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return b, nil
}
