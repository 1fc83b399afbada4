package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig locates the bucket PDFs are read from
type ObjectStoreConfig struct {
	Endpoint  string // host[:port], no scheme
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ObjectStoreHost reads PDFs from an S3 compatible bucket, paths are object keys
type ObjectStoreHost struct {
	client *minio.Client
	bucket string
	Store  PathStore
}

// NewObjectStoreHost connects to the object store and checks the bucket exists.
// A nil store falls back to a MemoryStore.
func NewObjectStoreHost(ctx context.Context, cfg ObjectStoreConfig, store PathStore) (*ObjectStoreHost, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store needs an endpoint and a bucket")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	if store == nil {
		store = NewMemoryStore()
	}
	Logger.Info("Reading PDFs from object store", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return &ObjectStoreHost{client: client, bucket: cfg.Bucket, Store: store}, nil
}

// LoadPDFBytes downloads the object named by path
func (h *ObjectStoreHost) LoadPDFBytes(ctx context.Context, path string) ([]byte, error) {
	key, err := objectKey(path)
	if err != nil {
		return nil, err
	}

	Logger.Debug("Loading PDF object", "bucket", h.bucket, "key", key)
	obj, err := h.client.GetObject(ctx, h.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError(path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, objectError(path, err)
	}
	return data, nil
}

// CurrentPDFPath returns the key stored by SetCurrentPDFPath
func (h *ObjectStoreHost) CurrentPDFPath(_ context.Context) (string, bool, error) {
	return h.Store.GetCurrentPDFPath()
}

// SetCurrentPDFPath stores path once the object is known to exist
func (h *ObjectStoreHost) SetCurrentPDFPath(ctx context.Context, path string) error {
	key, err := objectKey(path)
	if err != nil {
		return err
	}
	if _, err := h.client.StatObject(ctx, h.bucket, key, minio.StatObjectOptions{}); err != nil {
		return objectError(path, err)
	}
	Logger.Info("Current PDF changed", "bucket", h.bucket, "key", key)
	return h.Store.SetCurrentPDFPath(path)
}

// objectKey turns a path into a key, keys can't climb out of the bucket
func objectKey(path string) (string, error) {
	key := strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty object key", os.ErrNotExist)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
		}
	}
	return key, nil
}

// objectError maps missing objects onto os.ErrNotExist like the other hosts
func objectError(path string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return fmt.Errorf("object store: %s: %w", path, err)
}
