package imagesource

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// countingTransport fails the test if any request reaches it.
type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, errors.New("unexpected network access")
}

func TestEncodeLocalFile(t *testing.T) {
	path := writeTempFile(t, "sample.jpg", jpegHeader)

	encoded, err := New().Encode(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/9j/", encoded)
	assert.Len(t, encoded, 4)
}

func TestEncodeRoundTrip(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i * 7)
	}
	path := writeTempFile(t, "blob.bin", data)

	encoded, err := New().Encode(context.Background(), path)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncodeIdempotent(t *testing.T) {
	path := writeTempFile(t, "same.jpg", []byte("not really a jpeg"))
	r := New()

	first, err := r.Encode(context.Background(), path)
	require.NoError(t, err)
	second, err := r.Encode(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.jpg", nil)

	encoded, err := New().Encode(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", encoded)
}

func TestEncodeInvalidInputKind(t *testing.T) {
	transport := &countingTransport{}
	r := New(WithHTTPClient(&http.Client{Transport: transport}))

	for _, input := range []any{42, nil, []byte("https://example.com/a.jpg"), 3.14} {
		_, err := r.Encode(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidInputKind, "input %v", input)
	}
	assert.Zero(t, transport.calls.Load())
}

func TestEncodeFileNotFound(t *testing.T) {
	transport := &countingTransport{}
	r := New(WithHTTPClient(&http.Client{Transport: transport}))

	missing := filepath.Join(t.TempDir(), "missing.jpg")
	_, err := r.Encode(context.Background(), missing)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), missing)

	_, err = r.Encode(context.Background(), "not a url or existing path")
	assert.ErrorIs(t, err, ErrFileNotFound)

	assert.Zero(t, transport.calls.Load())
}

func TestEncodeDirectoryIsReadError(t *testing.T) {
	_, err := New().Encode(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrFileRead)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestEncodeRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "groqcli-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpegHeader)
	}))
	defer server.Close()

	r := New(WithUserAgent("groqcli-test"))
	encoded, err := r.Encode(context.Background(), server.URL+"/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/9j/", encoded)
}

func TestEncodeRemoteNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New().Encode(context.Background(), server.URL+"/img.jpg")
	require.ErrorIs(t, err, ErrRemoteFetch)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load(), "no retry expected")
}

func TestEncodeRemoteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New().Encode(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrRemoteFetch)
}

func TestEncodeRemoteConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL + "/img.jpg"
	server.Close()

	_, err := New().Encode(context.Background(), url)
	require.ErrorIs(t, err, ErrRemoteFetch)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Err)
}

func TestEncodeRemoteTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	r := New(WithTimeout(50 * time.Millisecond))
	_, err := r.Encode(context.Background(), server.URL+"/slow.jpg")
	assert.ErrorIs(t, err, ErrRemoteFetch)
}

func TestDataURI(t *testing.T) {
	path := writeTempFile(t, "sample.jpg", jpegHeader)

	uri, err := New().DataURI(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,/9j/", uri)
}

func TestDetectMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "image/png", DetectMIME(png))
	assert.Equal(t, "image/jpeg", DetectMIME(jpegHeader))
	assert.Equal(t, "image/jpeg", DetectMIME([]byte("plain text")))
	assert.Equal(t, "data:image/jpeg;base64,abc", DataURI("", "abc"))
}

func TestResolverConcurrentUse(t *testing.T) {
	path := writeTempFile(t, "sample.jpg", jpegHeader)
	r := New()

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			encoded, err := r.Encode(context.Background(), path)
			if err == nil && encoded != "/9j/" {
				err = errors.New("unexpected encoding " + encoded)
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}
