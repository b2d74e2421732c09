// =============================================================================
// ojsconvert - Upload Command
// =============================================================================
//
// The upload command is the lambda-style round trip: download the uploaded
// spreadsheet from the bucket, convert it, upload the resulting XML under
// the output key, and tag the source object for lifecycle management. The
// bucket comes from configuration, a .env file, or OJSCONVERT_S3_BUCKET.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openpress/ojsconvert/internal/config"
	"github.com/openpress/ojsconvert/internal/converter"
	"github.com/openpress/ojsconvert/internal/store"
)

// uploadCmd represents the 'upload' command.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Convert a spreadsheet stored in S3 and upload the XML result",
	Long: `The upload command downloads the source spreadsheet from the configured
S3 bucket, runs the conversion, and uploads the native-XML document back to
the bucket. The source object is tagged upload_type=csv so bucket lifecycle
rules can expire it.

Credentials follow the standard AWS chain; a .env file next to the binary
is loaded automatically.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.New(ctx, cfg.S3.Bucket, cfg.S3.Region)
	if err != nil {
		return err
	}

	// Work in a scratch directory so a failed run leaves nothing behind.
	workDir, err := os.MkdirTemp("", "ojsconvert-")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	cfg.Input = filepath.Join(workDir, filepath.Base(cfg.S3.SourceKey))
	cfg.Output = filepath.Join(workDir, filepath.Base(cfg.S3.OutputKey))

	if err := st.Download(ctx, cfg.S3.SourceKey, cfg.Input); err != nil {
		return err
	}

	if err := st.TagSource(ctx, cfg.S3.SourceKey); err != nil {
		return err
	}

	result := converter.New(cfg).Run(ctx)
	if !result.Success {
		return fmt.Errorf("conversion failed: %w", result.Error)
	}

	if err := st.Upload(ctx, result.OutputFile, cfg.S3.OutputKey); err != nil {
		return err
	}

	fmt.Printf("Converted s3://%s/%s -> s3://%s/%s\n",
		cfg.S3.Bucket, cfg.S3.SourceKey, cfg.S3.Bucket, cfg.S3.OutputKey)
	fmt.Printf("Issues:   %d\n", result.Stats.Issues)
	fmt.Printf("Articles: %d\n", result.Stats.Articles)
	return nil
}
