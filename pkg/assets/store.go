// Package assets loads static resources referenced by markup: images,
// fonts, and stylesheets. Stores abstract where the bytes live; the
// Resolver in front of them caches so a document can reference the same
// asset from every frame without refetching.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotFound is returned when a store has no asset under the key.
var ErrNotFound = errors.New("asset not found")

// Asset is a fetched resource.
type Asset struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store fetches assets by key.
type Store interface {
	Fetch(ctx context.Context, key string) (*Asset, error)
}

// contentTypeFor guesses a content type from the key's extension.
func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// MemStore holds assets in memory. It backs tests and embedded resources.
type MemStore struct {
	mu     sync.RWMutex
	assets map[string]*Asset
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{assets: make(map[string]*Asset)}
}

// Put stores data under key. The content type is derived from the key's
// extension.
func (s *MemStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[key] = &Asset{
		Key:         key,
		ContentType: contentTypeFor(key),
		Data:        data,
	}
}

// Fetch returns the asset under key.
func (s *MemStore) Fetch(_ context.Context, key string) (*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return asset, nil
}

// DirStore serves assets from a directory on disk. Keys are slash paths
// relative to the root; traversal outside the root is rejected.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir}
}

// Fetch reads the file under key.
func (s *DirStore) Fetch(_ context.Context, key string) (*Asset, error) {
	clean := path.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("read asset %s: %w", key, err)
	}
	return &Asset{
		Key:         key,
		ContentType: contentTypeFor(key),
		Data:        data,
	}, nil
}

// s3API is the slice of the S3 client the store uses.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store fetches assets from an S3 bucket.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := assets.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "assets/")
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store creates a store over an S3 client. prefix is prepended to
// every key.
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Fetch downloads the object under prefix+key.
func (s *S3Store) Fetch(ctx context.Context, key string) (*Asset, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", key, err)
	}

	contentType := contentTypeFor(key)
	if out.ContentType != nil && *out.ContentType != "" {
		contentType = *out.ContentType
	}
	return &Asset{Key: key, ContentType: contentType, Data: data}, nil
}
