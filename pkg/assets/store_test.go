package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestMemStoreFetch(t *testing.T) {
	s := NewMemStore()
	s.Put("icons/close.svg", []byte("<svg/>"))

	asset, err := s.Fetch(context.Background(), "icons/close.svg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(asset.Data) != "<svg/>" {
		t.Errorf("data = %q", asset.Data)
	}
	if !strings.Contains(asset.ContentType, "svg") {
		t.Errorf("content type = %q, want an svg type", asset.ContentType)
	}
}

func TestMemStoreMissing(t *testing.T) {
	s := NewMemStore()
	_, err := s.Fetch(context.Background(), "nope.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDirStoreFetch(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "fonts")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "inter.ttf"), []byte("font-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewDirStore(dir)
	asset, err := s.Fetch(context.Background(), "fonts/inter.ttf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(asset.Data) != "font-bytes" {
		t.Errorf("data = %q", asset.Data)
	}
}

func TestDirStoreMissing(t *testing.T) {
	s := NewDirStore(t.TempDir())
	_, err := s.Fetch(context.Background(), "missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDirStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("ok"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewDirStore(filepath.Join(dir, "assets"))
	if _, err := s.Fetch(context.Background(), "../ok.txt"); err == nil {
		t.Error("traversal outside the root succeeded")
	}
}

type fakeS3 struct {
	objects map[string][]byte
	calls   int
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: aws.String("image/png"),
	}, nil
}

func TestS3StoreFetch(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{
		"assets/logo.png": []byte("png-bytes"),
	}}
	s := &S3Store{client: api, bucket: "b", prefix: "assets/"}

	asset, err := s.Fetch(context.Background(), "logo.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(asset.Data) != "png-bytes" {
		t.Errorf("data = %q", asset.Data)
	}
	if asset.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", asset.ContentType)
	}
}

func TestS3StoreMissing(t *testing.T) {
	s := &S3Store{client: &fakeS3{objects: map[string][]byte{}}, bucket: "b"}
	_, err := s.Fetch(context.Background(), "missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
