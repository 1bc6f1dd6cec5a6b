package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mediafeed/mediafeed/internal/api/models"
)

// registerUploadRoutes registers the recording upload endpoint.
func (s *Server) registerUploadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "upload-recording",
		Method:      http.MethodPost,
		Path:        "/api/uploads",
		Summary:     "Upload Recording",
		Description: "Push a local recording file or directory to S3",
		Tags:        []string{"uploads"},
		Errors:      []int{400, 401, 500, 503},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.UploadRequest) (*models.UploadResponse, error) {
		if s.options.Uploader == nil {
			return nil, huma.Error503ServiceUnavailable("uploads are not configured")
		}
		if input.Body.Path == "" || input.Body.Bucket == "" || input.Body.Key == "" {
			return nil, huma.Error400BadRequest("path, bucket and key are required")
		}

		var (
			url string
			err error
		)
		if input.Body.Recursive {
			url, err = s.options.Uploader.UploadDirectory(ctx, input.Body.Path, input.Body.Bucket, input.Body.Key)
		} else {
			url, err = s.options.Uploader.UploadFile(ctx, input.Body.Path, input.Body.Bucket, input.Body.Key)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("upload failed", err)
		}

		return &models.UploadResponse{Body: models.UploadData{URL: url}}, nil
	})
}
