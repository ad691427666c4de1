package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/m2m-server/internal/model"
)

// fakeObjects implements objectAPI for testing without network.
type fakeObjects struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr     error
	putKey     string
	putSize    int64
	putOptions minioLib.PutObjectOptions
	putData    []byte

	getRC  io.ReadCloser
	getErr error

	removeErr error
	removed   string

	statErr error
}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeObjects) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.putKey, f.putSize, f.putOptions, f.putData = key, size, opts, data
	return minioLib.UploadInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}

func (f *fakeObjects) RemoveObject(_ context.Context, _ string, key string, _ minioLib.RemoveObjectOptions) error {
	f.removed = key
	return f.removeErr
}

func (f *fakeObjects) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{}, f.statErr
}

func TestNewClient_Bucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket", func(t *testing.T) {
		api := &fakeObjects{bucketExists: true}
		c, err := newClient(ctx, api, "m2m-files")
		require.NoError(t, err)
		assert.Equal(t, "m2m-files", c.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("creates missing bucket", func(t *testing.T) {
		api := &fakeObjects{}
		_, err := newClient(ctx, api, "m2m-files")
		require.NoError(t, err)
		assert.Equal(t, "m2m-files", api.madeBucket)
	})

	t.Run("check fails", func(t *testing.T) {
		c, err := newClient(ctx, &fakeObjects{bucketExistsErr: errors.New("boom")}, "b")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})

	t.Run("create fails", func(t *testing.T) {
		c, err := newClient(ctx, &fakeObjects{makeBucketErr: errors.New("fail")}, "b")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create bucket")
	})
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("passes size and content type", func(t *testing.T) {
		api := &fakeObjects{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "profiles/p/1.png", bytes.NewReader([]byte("data")), 4, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "profiles/p/1.png", api.putKey)
		assert.Equal(t, int64(4), api.putSize)
		assert.Equal(t, "image/png", api.putOptions.ContentType)
		assert.Equal(t, []byte("data"), api.putData)
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeObjects{putErr: errors.New("put-fail")}, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader(nil), 0, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeObjects{getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}
		c := &Client{api: api, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("missing object", func(t *testing.T) {
		c := &Client{api: &fakeObjects{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "b"}
		rc, err := c.Download(ctx, "absent")
		assert.Nil(t, rc)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("get error", func(t *testing.T) {
		c := &Client{api: &fakeObjects{getErr: errors.New("get-fail")}, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	api := &fakeObjects{}
	c := &Client{api: api, bucket: "b"}
	require.NoError(t, c.Delete(ctx, "k"))
	assert.Equal(t, "k", api.removed)

	c = &Client{api: &fakeObjects{removeErr: errors.New("remove-fail")}, bucket: "b"}
	err := c.Delete(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		statErr error
		want    bool
		wantErr bool
	}{
		{name: "exists", want: true},
		{name: "not found", statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}},
		{name: "other error", statErr: errors.New("stat-fail"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{api: &fakeObjects{statErr: tt.statErr}, bucket: "b"}
			ok, err := c.Exists(ctx, "k")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to stat object")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
		})
	}
}
