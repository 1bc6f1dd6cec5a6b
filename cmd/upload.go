package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediafeed/mediafeed/internal/logging"
	"github.com/mediafeed/mediafeed/internal/upload"
)

// CreateUploadCmd creates the upload command: push a recording file or
// directory to S3 and print its public URL.
func CreateUploadCmd() *cobra.Command {
	var bucket string
	var key string
	var recursive bool
	var serverless bool
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "upload [path]",
		Short: "Upload a recording to S3",
		Long: `Uploads a local recording file, or with --recursive a whole directory ` +
			`tree, to the given S3 bucket. Credentials come from the standard AWS ` +
			`environment. In serverless mode the upload is skipped.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			path := args[0]

			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("upload")

			uploader, err := upload.New(serverless, nil, logger)
			if err != nil {
				logger.Error("Failed to initialize uploader", "error", err)
				os.Exit(1)
			}

			ctx := context.Background()
			var url string
			if recursive {
				url, err = uploader.UploadDirectory(ctx, path, bucket, key)
			} else {
				url, err = uploader.UploadFile(ctx, path, bucket, key)
			}
			if err != nil {
				logger.Error("Upload failed", "error", err, "path", path)
				os.Exit(1)
			}

			if url != "" {
				fmt.Println(url)
			}
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination S3 bucket (required)")
	cmd.Flags().StringVar(&key, "key", "", "Object key, or key prefix with --recursive (required)")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Upload a directory tree")
	cmd.Flags().BoolVar(&serverless, "serverless", false, "Skip the upload, resolving to an empty URL")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
