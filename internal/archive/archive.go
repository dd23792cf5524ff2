package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/desertthunder/galx/internal/shared"
)

// ContentType is the MIME type of batch download archives.
const ContentType = "application/zip"

// Sink persists an archive under name and returns where it was written.
type Sink interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

var (
	_ Sink = (*LocalSink)(nil)
	_ Sink = (*GCSSink)(nil)
)

// cleanName rejects names that would escape the destination.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: archive name", shared.ErrMissingArgument)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: archive name %q", shared.ErrInvalidArgument, name)
	}
	return name, nil
}

// LocalSink writes archives into Dir.
type LocalSink struct {
	Dir string
}

// NewLocalSink creates a sink rooted at dir. An empty dir means the working directory.
func NewLocalSink(dir string) *LocalSink {
	if dir == "" {
		dir = "."
	}
	return &LocalSink{Dir: shared.ExpandPath(dir)}
}

// Save writes r to Dir/name through a temporary file, so a failed copy never leaves a partial archive behind.
func (s *LocalSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	dest := filepath.Join(s.Dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}
	return dest, nil
}

// GCSSink uploads archives to a Cloud Storage bucket under Prefix.
type GCSSink struct {
	Client *storage.Client
	Bucket string
	Prefix string
	// ChunkSize is passed to the object writer. Zero uploads the archive in a single request.
	ChunkSize int
}

// NewGCSSink creates a sink for bucket. A trailing slash is added to a non-empty prefix.
func NewGCSSink(client *storage.Client, bucket, prefix string) *GCSSink {
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &GCSSink{Client: client, Bucket: strings.TrimSpace(bucket), Prefix: prefix, ChunkSize: 8 << 20}
}

// ObjectName returns the object path an archive called name is stored at.
func (s *GCSSink) ObjectName(name string) string {
	return path.Join(s.Prefix, name)
}

// Save streams r into gs://Bucket/Prefix+name and returns the gs:// URL.
func (s *GCSSink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if s.Client == nil {
		return "", fmt.Errorf("%w: cloud storage client is nil", shared.ErrInvalidConfig)
	}
	if s.Bucket == "" {
		return "", fmt.Errorf("%w: archive bucket is empty", shared.ErrInvalidConfig)
	}
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}

	// Canceling wctx aborts the upload. Closing the writer would finalize whatever was written so far.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objName := s.ObjectName(name)
	w := s.Client.Bucket(s.Bucket).Object(objName).NewWriter(wctx)
	w.ContentType = ContentType
	w.ChunkSize = s.ChunkSize
	w.Metadata = map[string]string{"source": "galx"}

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.Bucket, objName), nil
}

// Open builds the sink selected by cfg. The returned close function releases the storage client, if any.
func Open(ctx context.Context, cfg shared.ArchiveConfig) (Sink, func() error, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return NewLocalSink(cfg.Dir), func() error { return nil }, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create cloud storage client: %v", shared.ErrServiceUnavailable, err)
	}
	return NewGCSSink(client, cfg.Bucket, cfg.Prefix), client.Close, nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
