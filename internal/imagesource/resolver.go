// Package imagesource turns an image reference (a local path or an http(s)
// URL) into base64 text ready to embed in a chat request as a data URI.
package imagesource

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds a single remote download.
const DefaultFetchTimeout = 30 * time.Second

const defaultMIME = "image/jpeg"

// Resolver fetches and encodes image sources. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	client    *http.Client
	userAgent string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithTimeout sets the remote download timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		c := *r.client
		c.Timeout = d
		r.client = &c
	}
}

// WithUserAgent sets the User-Agent header sent with remote requests.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// New creates a Resolver with a 30 second download timeout.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		client:    &http.Client{Timeout: DefaultFetchTimeout},
		userAgent: "groqcli/1.0",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch returns the raw bytes behind source. Only strings are accepted; any
// other type fails with ErrInvalidInputKind before any I/O happens.
func (r *Resolver) Fetch(ctx context.Context, source any) ([]byte, error) {
	s, ok := source.(string)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidInputKind, source)
	}
	if Classify(s) == KindRemote {
		return r.fetchRemote(ctx, s)
	}
	return readLocal(s)
}

// Encode returns the standard base64 encoding of the image behind source.
func (r *Resolver) Encode(ctx context.Context, source any) (string, error) {
	data, err := r.Fetch(ctx, source)
	if err != nil {
		return "", err
	}
	return EncodeBytes(data), nil
}

// DataURI fetches source and returns it as a data URI. The MIME type is
// sniffed from the content and falls back to image/jpeg.
func (r *Resolver) DataURI(ctx context.Context, source any) (string, error) {
	data, err := r.Fetch(ctx, source)
	if err != nil {
		return "", err
	}
	return DataURI(DetectMIME(data), EncodeBytes(data)), nil
}

func (r *Resolver) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func readLocal(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileRead, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
	}
	return data, nil
}

// EncodeBytes applies standard, unwrapped base64 encoding.
func EncodeBytes(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DataURI formats encoded content as data:<mime>;base64,<encoded>.
func DataURI(mime, encoded string) string {
	if mime == "" {
		mime = defaultMIME
	}
	return "data:" + mime + ";base64," + encoded
}

// DetectMIME sniffs an image content type, returning image/jpeg for anything
// that is not recognised as an image.
func DetectMIME(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return defaultMIME
}
