package ports

import (
	"context"

	"xctasks/internal/types"
)

// UploaderPort submits a multipart form.
type UploaderPort interface {
	Upload(ctx context.Context, request types.UploadRequest) error
}
