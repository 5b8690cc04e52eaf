package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path-style Head/Get/Put/Delete requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	fail    bool
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	respond := func(code int, body []byte) *http.Response {
		return &http.Response{
			StatusCode: code,
			Body:       io.NopCloser(bytes.NewReader(body)),
			Header:     http.Header{"Content-Length": {fmt.Sprintf("%d", len(body))}},
			Request:    req,
		}
	}
	if f.fail {
		return respond(http.StatusServiceUnavailable, nil), nil
	}

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	if parts[0] != f.bucket {
		return respond(http.StatusNotFound, nil), nil
	}
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch req.Method {
	case http.MethodHead:
		if key == "" {
			return respond(http.StatusOK, nil), nil
		}
		if _, ok := f.objects[key]; ok {
			return respond(http.StatusOK, nil), nil
		}
		return respond(http.StatusNotFound, nil), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[key] = body
		return respond(http.StatusOK, nil), nil
	case http.MethodGet:
		if body, ok := f.objects[key]; ok {
			return respond(http.StatusOK, body), nil
		}
		return respond(http.StatusNotFound, []byte(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code></Error>`)), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil), nil
	}
	return respond(http.StatusNotImplemented, nil), nil
}

// decodeChunked unwraps a single-chunk aws-chunked body: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	var size int
	if _, err := fmt.Sscanf(parts[0], "%x", &size); err != nil || size != len(parts[1]) {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newTestS3Store(t *testing.T) (*fakeS3, *S3Store) {
	t.Helper()
	fake := &fakeS3{bucket: "saves-bucket", objects: make(map[string][]byte)}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RetryMaxAttempts = 1
	})
	return fake, NewS3StoreFromClient(client, fake.bucket)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "saves/abc.json", objectKey("save:abc"))
	assert.Equal(t, "other.json", objectKey("other"))
}

func TestS3StoreSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	fake, store := newTestS3Store(t)

	require.NoError(t, store.Ping(ctx))

	blob, err := store.Load(ctx, "save:p1")
	require.NoError(t, err)
	assert.Nil(t, blob)

	require.NoError(t, store.Save(ctx, "save:p1", []byte(`{"day":4}`)))
	require.NoError(t, store.Save(ctx, "save:p1", []byte(`{"day":5}`)))
	assert.Contains(t, fake.objects, "saves/p1.json")

	blob, err = store.Load(ctx, "save:p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":5}`, string(blob))

	require.NoError(t, store.Clear(ctx, "save:p1"))
	assert.NotContains(t, fake.objects, "saves/p1.json")
}

func TestS3StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	fake, store := newTestS3Store(t)
	fake.fail = true

	assert.Error(t, store.Save(ctx, "save:p1", []byte(`{}`)))
	_, err := store.Load(ctx, "save:p1")
	assert.Error(t, err)
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}
