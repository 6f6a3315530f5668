package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri      string
		expected Location
		wantErr  bool
	}{
		{uri: "input.txt", expected: Location{Path: "input.txt"}},
		{uri: "/tmp/out/encoded.bin", expected: Location{Path: "/tmp/out/encoded.bin"}},
		{uri: "s3://corpus/books/moby.txt", expected: Location{Bucket: "corpus", Key: "books/moby.txt"}},
		{uri: "s3://corpus/", wantErr: true},
		{uri: "s3://corpus", wantErr: true},
		{uri: "s3:///key", wantErr: true},
		{uri: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			loc, err := ParseURI(tc.uri)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidURI) {
					t.Fatalf("Expected ErrInvalidURI, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if loc != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, loc)
			}
			if loc.String() != tc.uri {
				t.Errorf("Expected String() to give back %q, got %q", tc.uri, loc.String())
			}
		})
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(logger.Nop())
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.bin")

	w, err := store.Create(ctx, path)
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	if _, err := w.Write([]byte("packed bits")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	data, err := store.ReadAll(ctx, path)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(data) != "packed bits" {
		t.Fatalf("Expected %q, got %q", "packed bits", data)
	}

	if _, err := store.Open(ctx, "s3://bucket/key"); !errors.Is(err, ErrS3Unavailable) {
		t.Errorf("Expected ErrS3Unavailable, got %v", err)
	}
	if _, err := store.Create(ctx, "s3://bucket/key"); !errors.Is(err, ErrS3Unavailable) {
		t.Errorf("Expected ErrS3Unavailable, got %v", err)
	}
}

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
}

func (b *fakeBucket) store() *Store {
	return &Store{
		get: func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			data, ok := b.objects[bucket+"/"+key]
			if !ok {
				return nil, errors.New("NoSuchKey")
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		upload: func(ctx context.Context, bucket, key string, body io.Reader) error {
			if b.failPut != nil {
				return b.failPut
			}
			data, err := io.ReadAll(body)
			if err != nil {
				return err
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			b.objects[bucket+"/"+key] = data
			return nil
		},
		log: logger.Nop(),
	}
}

func TestS3(t *testing.T) {
	ctx := context.Background()
	bucket := &fakeBucket{objects: map[string][]byte{}}
	store := bucket.store()

	w, err := store.Create(ctx, "s3://corpus/out/encoded.bin")
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	payload := bytes.Repeat([]byte{0xA5}, 1<<16)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	data, err := store.ReadAll(ctx, "s3://corpus/out/encoded.bin")
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("Round trip mismatch: %d bytes", len(data))
	}

	if _, err := store.Open(ctx, "s3://corpus/missing"); err == nil {
		t.Errorf("Expected an error for a missing object")
	}
}

func TestS3_UploadFailure(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}, failPut: errors.New("AccessDenied")}
	store := bucket.store()

	w, err := store.Create(context.Background(), "s3://corpus/out.bin")
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	// The write may or may not fail depending on when the upload gives up
	w.Write([]byte("data"))
	if err := w.Close(); err == nil {
		t.Fatalf("Expected the upload error on Close")
	}
}
