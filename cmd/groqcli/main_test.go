package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/groqcli/internal/imagesource"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--env", filepath.Join(t.TempDir(), ".env")}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func fakeGroq(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/models":
			w.Write([]byte(`{"data":[{"id":"llama3-70b-8192","owned_by":"Meta","context_window":8192,"active":true}]}`))
		case "/chat/completions":
			body, _ := io.ReadAll(r.Body)
			content := "Hello there!"
			if strings.Contains(string(body), "image_url") {
				content = "*Product Name*"
			}
			w.Write([]byte(`{"id":"c1","model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"` + content + `"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GROQ_API_URL", server.URL)
	t.Setenv("LOG_LEVEL", "error")
	return server
}

func TestEncodeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF}, 0644))

	out, err := runCLI(t, "encode", "--data-uri=false", path)
	require.NoError(t, err)
	assert.Equal(t, "/9j/\n", out)

	out, err = runCLI(t, "encode", "--data-uri", path)
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,/9j/\n", out)
}

func TestEncodeCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "encode", "--data-uri=false", "not a url or existing path")
	assert.ErrorIs(t, err, imagesource.ErrFileNotFound)
}

func TestChatCommandWithArgs(t *testing.T) {
	fakeGroq(t)

	out, err := runCLI(t, "chat", "Hello,", "world!")
	require.NoError(t, err)
	assert.Equal(t, "Generating response. Please wait...\nResponse:\nHello there!\n", out)
}

func TestVisionCommand(t *testing.T) {
	fakeGroq(t)
	path := filepath.Join(t.TempDir(), "mug.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF}, 0644))

	out, err := runCLI(t, "vision", "--prompt", "Describe it.", path)
	require.NoError(t, err)
	assert.Equal(t, "Model: test-model\nChoices: 1\n\n*Product Name*\n", out)
}

func TestModelsCommand(t *testing.T) {
	fakeGroq(t)

	out, err := runCLI(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "llama3-70b-8192")
	assert.Contains(t, out, "Meta")
}

func TestCommandsRequireAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")

	_, err := runCLI(t, "models")
	assert.ErrorContains(t, err, "GROQ_API_KEY")
}

func TestConfigListMasksSecrets(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-secret-9876")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCLI(t, "config", "list", "--show-secrets=false")
	require.NoError(t, err)
	assert.Contains(t, out, "groq.api_key = ***9876\n")
	assert.NotContains(t, out, "gsk-secret-9876")
}
