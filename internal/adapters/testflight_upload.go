package adapters

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"xctasks/internal/ports"
	"xctasks/internal/shared"
	"xctasks/internal/types"
)

const defaultUploadTimeout = 10 * time.Minute

// MultipartUploadAdapter streams files and fields as one multipart/form-data
// POST. There is no retry.
type MultipartUploadAdapter struct {
	Client *http.Client
}

func NewMultipartUploadAdapter(timeout time.Duration) MultipartUploadAdapter {
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return MultipartUploadAdapter{Client: &http.Client{Timeout: timeout}}
}

func (a MultipartUploadAdapter) Upload(ctx context.Context, request types.UploadRequest) error {
	if strings.TrimSpace(request.URL) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("upload url is empty")
	}
	for _, file := range request.Files {
		if _, err := os.Stat(file.Path); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("upload file %s not found", file.Path)).
				WithCause(err)
		}
	}

	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		writer.CloseWithError(writeForm(form, request))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, request.URL, body)
	if err != nil {
		_ = body.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create upload request").
			WithCause(err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: defaultUploadTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("upload failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Info().Str("url", request.URL).Int("status", resp.StatusCode).Msg("upload complete")
		return nil
	}
	message, _ := io.ReadAll(resp.Body)
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("upload failed").
		WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, request.URL, strings.TrimSpace(string(message))))
}

func writeForm(form *multipart.Writer, request types.UploadRequest) error {
	for _, file := range request.Files {
		if err := writeFormFile(form, file); err != nil {
			return err
		}
	}
	for _, field := range request.Fields {
		if err := form.WriteField(field.Name, field.Value); err != nil {
			return err
		}
	}
	return form.Close()
}

func writeFormFile(form *multipart.Writer, file types.FormFile) error {
	src, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer src.Close()
	part, err := form.CreateFormFile(file.Name, filepath.Base(file.Path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}

var _ ports.UploaderPort = MultipartUploadAdapter{}
