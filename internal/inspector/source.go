package inspector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/repository"
)

const s3Scheme = "s3://"

// Source opens an image path for reading.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileSource reads from the local file system. A non-empty Root confines
// every path to that directory: paths are cleaned as if rooted there, so
// ".." segments stop at Root.
type FileSource struct {
	Root string
}

func NewFileSource(root string) *FileSource {
	return &FileSource{Root: root}
}

func (s *FileSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(resolved)
}

func (s *FileSource) resolve(path string) (string, error) {
	if s.Root == "" {
		return path, nil
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.Clean("/"+path)), nil
}

// S3Source reads s3://<bucket>/<key> objects from the repository's bucket.
type S3Source struct {
	repo repository.S3Repository
}

func NewS3Source(repo repository.S3Repository) *S3Source {
	return &S3Source{repo: repo}
}

func (s *S3Source) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key, err := parseS3Path(path)
	if err != nil {
		return nil, err
	}
	if bucket != s.repo.Bucket() {
		return nil, fmt.Errorf("bucket %q is not configured, expected %q", bucket, s.repo.Bucket())
	}
	return s.repo.DownloadFile(ctx, key)
}

func parseS3Path(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %s", path)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 path must be s3://<bucket>/<key>: %s", path)
	}
	return bucket, key, nil
}

// Router sends s3:// paths to S3 and everything else to Files.
// S3 may be nil, in which case s3:// paths fail.
type Router struct {
	Files Source
	S3    Source
}

// NewSource builds the source used by every host: local files under root,
// plus the S3 bucket when repo is non-nil.
func NewSource(root string, repo repository.S3Repository) *Router {
	r := &Router{Files: NewFileSource(root)}
	if repo != nil {
		r.S3 = NewS3Source(repo)
	}
	return r
}

// IsS3Path reports whether path names an S3 object.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

func (r *Router) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if IsS3Path(path) {
		if r.S3 == nil {
			return nil, fmt.Errorf("s3 storage is not enabled: %s", path)
		}
		return r.S3.Open(ctx, path)
	}
	return r.Files.Open(ctx, path)
}
