package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	// Setup
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocal(dir)
	require.NoError(t, err)

	// Missing key
	_, err = s.Read(ctx, "backup.csv")
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err := s.Exists(ctx, "backup.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	// Write and read back
	require.NoError(t, s.Write(ctx, "backup.csv", []byte("v1")))
	require.NoError(t, s.Write(ctx, "backup.csv", []byte("v2")))
	data, err := s.Read(ctx, "backup.csv")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	ok, err = s.Exists(ctx, "backup.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	// Nested keys
	require.NoError(t, s.Write(ctx, "snapshots/b.csv", []byte("b")))
	require.NoError(t, s.Write(ctx, "snapshots/a.csv", []byte("a")))
	keys, err := s.List(ctx, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/a.csv", "snapshots/b.csv"}, keys)

	// No temp files left behind
	_, err = os.Stat(filepath.Join(dir, "backup.csv.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_KeysStayInsideBase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocal(filepath.Join(dir, "root"))
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../escape.csv", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "escape.csv"))
	assert.True(t, os.IsNotExist(err))
	data, err := s.Read(ctx, "escape.csv")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestLocal_ListMissingPrefix(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	keys, err := s.List(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Empty(t, keys)
}

// fakeS3 is an in-memory S3API.
type fakeS3 struct {
	objects map[string][]byte
	mu      sync.Mutex
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := aws.ToString(in.Prefix)
	var keys []string
	for k := range f.objects {
		rest, ok := strings.CutPrefix(k, prefix)
		if ok && !strings.Contains(rest, "/") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3(t *testing.T) {
	// Setup
	ctx := context.Background()
	fake := newFakeS3()
	s := NewS3WithClient(fake, "bucket", "/kanban/")

	// Missing key
	_, err := s.Read(ctx, "backup.csv")
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err := s.Exists(ctx, "backup.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	// Write and read back
	require.NoError(t, s.Write(ctx, "backup.csv", []byte("data")))
	assert.Contains(t, fake.objects, "kanban/backup.csv")
	data, err := s.Read(ctx, "backup.csv")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	ok, err = s.Exists(ctx, "backup.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	// List strips the prefix
	require.NoError(t, s.Write(ctx, "snapshots/2.csv", []byte("2")))
	require.NoError(t, s.Write(ctx, "snapshots/1.csv", []byte("1")))
	keys, err := s.List(ctx, "snapshots")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/1.csv", "snapshots/2.csv"}, keys)
}
