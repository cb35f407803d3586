package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resume-analyzer/internal/shared/storage/object"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []*s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "outbox/a.json", want: "outbox/a.json"},
		{name: "simple prefix", prefix: "root", key: "outbox/a.json", want: "root/outbox/a.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "outbox/a.json", want: "root/outbox/a.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/outbox/a.json", want: "root/outbox/a.json"},
		{name: "nested prefix", prefix: "root/sub", key: "outbox/a.json", want: "root/sub/outbox/a.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestStoreRoundTripWithPrefix(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "/analyzer/", "kms-key")

	if _, err := store.Put(ctx, "outbox/a.json", "application/json", strings.NewReader(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["analyzer/outbox/a.json"]; !ok {
		t.Fatalf("expected prefixed object key, have %v", fake.objects)
	}
	if fake.puts[0].ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected KMS encryption, got %q", fake.puts[0].ServerSideEncryption)
	}

	keys, err := store.List(ctx, "outbox/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 || keys[0] != "outbox/a.json" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	rc, err := store.Open(ctx, "outbox/a.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != `{"a":1}` {
		t.Fatalf("unexpected body %s", data)
	}

	if err := store.Delete(ctx, "outbox/a.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "outbox/a.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDefaultsToAES256(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, "bucket", "", "")
	if _, err := store.Put(context.Background(), "k.json", "application/json", strings.NewReader("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.puts[0].ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256, got %q", fake.puts[0].ServerSideEncryption)
	}
}
