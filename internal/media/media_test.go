package media

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nawsaafa/talents-acting-sub000/internal/testutil"
)

// Compile-time checks.
var (
	_ Backend = (*LocalBackend)(nil)
	_ Backend = (*S3Backend)(nil)
	_ Backend = (*DryRunBackend)(nil)
)

func TestValidateName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		objName string
		wantErr string
	}{
		{"valid simple", "profile-1-0.jpg", ""},
		{"valid nested", "2024/01/photo.png", ""},
		{"empty", "", "object name is required"},
		{"dot dot", "a/../b", "must not contain"},
		{"leading slash", "/a/b", "must not start with"},
		{"too long", strings.Repeat("a", 1025), "too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateName(tt.objName)
			if tt.wantErr != "" {
				testutil.ErrorContains(t, err, tt.wantErr)
				testutil.True(t, errors.Is(err, ErrInvalidName))
			} else {
				testutil.NoError(t, err)
			}
		})
	}
}

func TestLocalBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	b := NewLocalBackendFS(fs, "/dest/photos")

	names, err := b.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names, "missing root lists as empty")

	ok, err := b.Exists(ctx, "profile-7-0.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Put(ctx, "profile-7-0.jpg", strings.NewReader("jpeg"), 4))
	require.NoError(t, b.Put(ctx, "profile-7-1.png", strings.NewReader("png"), 3))
	require.NoError(t, b.Put(ctx, "profile-70-0.jpg", strings.NewReader("other"), 5))

	ok, err = b.Exists(ctx, "profile-7-0.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := afero.ReadFile(fs, "/dest/photos/profile-7-0.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	names, err = b.List(ctx, "profile-7-")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile-7-0.jpg", "profile-7-1.png"}, names)

	require.NoError(t, b.Delete(ctx, "profile-7-0.jpg"))
	require.NoError(t, b.Delete(ctx, "profile-7-0.jpg"), "deleting a missing file is a no-op")
	ok, err = b.Exists(ctx, "profile-7-0.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	err = b.Put(ctx, "../escape.jpg", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLocalBackendPutCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewLocalBackendFS(afero.NewMemMapFs(), "/dest")
	err := b.Put(ctx, "a.jpg", strings.NewReader("x"), 1)
	testutil.True(t, errors.Is(err, context.Canceled))
}

func TestDryRunBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	inner := NewLocalBackendFS(fs, "/dest")
	require.NoError(t, inner.Put(ctx, "profile-1-0.jpg", strings.NewReader("x"), 1))

	b := DryRun(inner, testutil.DiscardLogger())
	require.NoError(t, b.Put(ctx, "profile-2-0.jpg", strings.NewReader("y"), 1))

	ok, err := b.Exists(ctx, "profile-2-0.jpg")
	require.NoError(t, err)
	assert.True(t, ok, "dry-run put is visible to later checks")

	ok, err = inner.Exists(ctx, "profile-2-0.jpg")
	require.NoError(t, err)
	assert.False(t, ok, "nothing written to the real backend")

	require.NoError(t, b.Delete(ctx, "profile-1-0.jpg"))
	ok, err = inner.Exists(ctx, "profile-1-0.jpg")
	require.NoError(t, err)
	assert.True(t, ok, "delete suppressed")
}

func TestS3BackendKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", "profile-1-0.jpg", "profile-1-0.jpg"},
		{"talents", "profile-1-0.jpg", "talents/profile-1-0.jpg"},
		{"talents/photos", "a/b.png", "talents/photos/a/b.png"},
	}
	for _, tt := range tests {
		b := &S3Backend{prefix: tt.prefix}
		testutil.Equal(t, tt.want, b.key(tt.name))
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()
	testutil.Equal(t, "image/jpeg", contentType("a.jpg"))
	testutil.Equal(t, "image/png", contentType("a.png"))
	testutil.Equal(t, "application/octet-stream", contentType("noext"))
}

// newTestS3 points an S3Backend at a fake endpoint answering every request
// with handler.
func newTestS3(t *testing.T, prefix string, handler http.HandlerFunc) *S3Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &S3Backend{client: client, bucket: "talents", prefix: prefix}
}

func TestS3BackendList(t *testing.T) {
	t.Parallel()
	b := newTestS3(t, "photos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>talents</Name><Prefix>photos/profile-1-</Prefix><KeyCount>2</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>
<Contents><Key>photos/profile-1-1.png</Key><Size>3</Size></Contents>
<Contents><Key>photos/profile-1-0.jpg</Key><Size>3</Size></Contents>
</ListBucketResult>`))
	})

	names, err := b.List(context.Background(), "profile-1-")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile-1-0.jpg", "profile-1-1.png"}, names)
}

func TestS3BackendListError(t *testing.T) {
	t.Parallel()
	b := newTestS3(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message><BucketName>talents</BucketName><RequestId>1</RequestId></Error>`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	names, err := b.List(ctx, "profile-1-")
	testutil.ErrorContains(t, err, "listing profile-1-")
	assert.Nil(t, names)
	// The caller's context stays usable after an early return.
	require.NoError(t, ctx.Err())
}
