package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xctasks/internal/types"
)

type receivedUpload struct {
	fields map[string]string
	files  map[string]string
	names  map[string]string
}

func uploadServer(t *testing.T, status int, got *receivedUpload) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got.fields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			got.fields[name] = values[0]
		}
		got.files = map[string]string{}
		got.names = map[string]string{}
		for name, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			if !assert.NoError(t, err) {
				continue
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			assert.NoError(t, err)
			got.files[name] = string(data)
			got.names[name] = headers[0].Filename
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"done"}`))
	}))
}

func uploadRequest(t *testing.T, url string) types.UploadRequest {
	t.Helper()
	dir := t.TempDir()
	ipa := filepath.Join(dir, "Demo-1.0.ipa")
	dsym := filepath.Join(dir, "Demo.app.dSYM.zip")
	require.NoError(t, os.WriteFile(ipa, []byte("ipa-bytes"), 0o644))
	require.NoError(t, os.WriteFile(dsym, []byte("zip-bytes"), 0o644))
	return types.UploadRequest{
		URL: url,
		Files: []types.FormFile{
			{Name: "file", Path: ipa},
			{Name: "dsym", Path: dsym},
		},
		Fields: []types.FormField{
			{Name: "api_token", Value: "api"},
			{Name: "team_token", Value: "team"},
			{Name: "notes", Value: "* Fix crash\n* Faster login"},
			{Name: "notify", Value: "True"},
			{Name: "distribution_lists", Value: "QA, Beta"},
		},
	}
}

func TestMultipartUploadAdapterSendsForm(t *testing.T) {
	got := &receivedUpload{}
	server := uploadServer(t, http.StatusOK, got)
	defer server.Close()

	err := NewMultipartUploadAdapter(10*time.Second).Upload(t.Context(), uploadRequest(t, server.URL))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"api_token":          "api",
		"team_token":         "team",
		"notes":              "* Fix crash\n* Faster login",
		"notify":             "True",
		"distribution_lists": "QA, Beta",
	}, got.fields)
	assert.Equal(t, map[string]string{"file": "ipa-bytes", "dsym": "zip-bytes"}, got.files)
	assert.Equal(t, "Demo-1.0.ipa", got.names["file"])
}

func TestMultipartUploadAdapterRejectedStatus(t *testing.T) {
	server := uploadServer(t, http.StatusUnauthorized, &receivedUpload{})
	defer server.Close()

	err := NewMultipartUploadAdapter(0).Upload(t.Context(), uploadRequest(t, server.URL))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestMultipartUploadAdapterMissingFile(t *testing.T) {
	request := uploadRequest(t, "http://127.0.0.1:1/builds.json")
	request.Files[1].Path = filepath.Join(t.TempDir(), "absent.zip")

	err := NewMultipartUploadAdapter(0).Upload(t.Context(), request)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestMultipartUploadAdapterEmptyURL(t *testing.T) {
	err := NewMultipartUploadAdapter(0).Upload(t.Context(), types.UploadRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
