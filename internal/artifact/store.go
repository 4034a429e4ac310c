// Package artifact uploads the paths a run declared for publication to an
// S3-compatible object store. Uploads happen after the run is finalized and
// are best-effort: a failed upload is reported but never alters the run
// outcome.
package artifact

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stageflow/stageflow/internal/ctxlog"
)

// Config describes the object store endpoint and target bucket.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Validate checks the fields required to reach the store.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("artifact store endpoint is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("artifact store bucket is required")
	}
	return nil
}

// Store uploads artifacts to one bucket of an S3-compatible store.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore connects a store client for the given config.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the target bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Upload stores one local file under the run's key prefix and returns the
// object key.
func (s *Store) Upload(ctx context.Context, runID, localPath string) (string, error) {
	key := ObjectKey(runID, localPath)
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Artifact uploaded.", "key", key, "size", info.Size)
	return key, nil
}

// ObjectKey maps a local artifact path to its object key: runs/<run-id>/<base name>.
func ObjectKey(runID, localPath string) string {
	return path.Join("runs", runID, filepath.Base(localPath))
}
