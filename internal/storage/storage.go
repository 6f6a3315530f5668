// Package storage opens input and output artifacts by URI. Plain paths are
// local files, s3://bucket/key URIs are S3 objects.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

var (
	ErrInvalidURI    = fmt.Errorf("invalid storage uri")
	ErrS3Unavailable = fmt.Errorf("s3 is not configured")
)

// S3Config holds the settings used to reach S3 or an S3 compatible
// endpoint. Empty fields fall back to the default AWS configuration chain.
type S3Config struct {
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// Location is a parsed storage URI.
type Location struct {
	Bucket string
	Key    string
	Path   string
}

func (l Location) IsS3() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsS3() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// ParseURI splits uri into a bucket and key for s3:// URIs, or keeps it as a
// local path otherwise.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidURI)
	}

	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return Location{Path: uri}, nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidURI, uri)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

type getFunc func(ctx context.Context, bucket, key string) (io.ReadCloser, error)
type uploadFunc func(ctx context.Context, bucket, key string, body io.Reader) error

// Store opens local files and, when built with New, S3 objects.
type Store struct {
	get    getFunc
	upload uploadFunc
	log    logger.Logger
}

// NewLocal returns a Store that only handles local paths.
func NewLocal(log logger.Logger) *Store {
	return &Store{log: log}
}

// New loads the AWS configuration and returns a Store that handles both
// local paths and s3:// URIs.
func New(ctx context.Context, cfg S3Config, log logger.Logger) (*Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	uploader := transfermanager.New(client)

	return &Store{
		get: func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
			out, err := client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return nil, err
			}
			return out.Body, nil
		},
		upload: func(ctx context.Context, bucket, key string, body io.Reader) error {
			_, err := uploader.UploadObject(ctx, &transfermanager.UploadObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
				Body:   body,
			})
			return err
		},
		log: log,
	}, nil
}

// Open opens uri for reading.
func (s *Store) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if !loc.IsS3() {
		return os.Open(loc.Path)
	}
	if s.get == nil {
		return nil, fmt.Errorf("%w: cannot read %s", ErrS3Unavailable, loc)
	}

	s.log.Infof("Downloading %s", loc)
	body, err := s.get(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	return body, nil
}

// ReadAll reads the whole object at uri.
func (s *Store) ReadAll(ctx context.Context, uri string) ([]byte, error) {
	r, err := s.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// Create opens uri for writing, creating parent directories of local paths.
// S3 objects are streamed to the uploader and the upload completes when the
// returned writer is closed.
func (s *Store) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if !loc.IsS3() {
		if dir := filepath.Dir(loc.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return os.Create(loc.Path)
	}
	if s.upload == nil {
		return nil, fmt.Errorf("%w: cannot write %s", ErrS3Unavailable, loc)
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := s.upload(ctx, loc.Bucket, loc.Key, pr)
		// Unblock the writer if the upload gave up early
		pr.CloseWithError(err)
		done <- err
	}()

	s.log.Infof("Uploading %s", loc)
	return &objectWriter{pw: pw, done: done, loc: loc}, nil
}

type objectWriter struct {
	pw   *io.PipeWriter
	done chan error
	loc  Location
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *objectWriter) Close() error {
	w.pw.Close()
	if err := <-w.done; err != nil {
		return fmt.Errorf("upload %s: %w", w.loc, err)
	}
	return nil
}
