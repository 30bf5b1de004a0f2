package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	client "github.com/convertly/convertly-go"
)

// Files above this size go through the chunked uploader instead of one
// multipart request.
const directUploadLimit = 50 << 20

func newConvertCmd(opts *cliOptions) *cobra.Command {
	co := &convertOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a local file or remote URL to another format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				co.sourcePath = args[0]
			}
			return co.run(cmd)
		},
	}

	co.addFlags(cmd)

	return cmd
}

type convertOptions struct {
	sourcePath string
	sourceURL  string
	to         string
	quality    int
	resolution string
	filename   string
	chunkSize  int64
	wait       bool
	interval   time.Duration
	download   bool
	output     string
	opts       *cliOptions
}

func (o *convertOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.sourceURL, "url", "", "Convert from a remote URL instead of a local file")
	cmd.Flags().StringVar(&o.to, "to", "", "Target format, e.g. pdf|docx|mp3|webp")
	cmd.Flags().IntVar(&o.quality, "quality", 0, "Output quality 1-100 (0 leaves it to the server)")
	cmd.Flags().StringVar(&o.resolution, "resolution", "", "Output resolution, e.g. 1920x1080")
	cmd.Flags().StringVar(&o.filename, "filename", "", "Output filename override")
	cmd.Flags().Int64Var(&o.chunkSize, "chunk-size", 0, "Chunk size in bytes for large uploads (0 picks automatically)")
	cmd.Flags().BoolVar(&o.wait, "wait", true, "Wait for the conversion to finish")
	cmd.Flags().DurationVar(&o.interval, "interval", client.DefaultPollInterval, "Polling interval for job status")
	cmd.Flags().BoolVar(&o.download, "download", false, "Download the converted file when ready")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Download path (used when --download is set)")
}

func (o *convertOptions) complete() error {
	if o.sourcePath == "" && o.sourceURL == "" {
		return errors.New("a source file argument or --url is required")
	}
	if o.sourcePath != "" && o.sourceURL != "" {
		return errors.New("a source file argument and --url are mutually exclusive")
	}
	if o.to == "" {
		return errors.New("flag --to is required")
	}
	if o.interval <= 0 {
		o.interval = client.DefaultPollInterval
	}
	return nil
}

func (o *convertOptions) buildConversionOptions() *client.ConversionOptions {
	convOpts := client.NewConversionOptions()
	if o.quality > 0 {
		convOpts.Quality(o.quality)
	}
	if o.resolution != "" {
		convOpts.Resolution(o.resolution)
	}
	if o.filename != "" {
		convOpts.OutputFilename(o.filename)
	}
	return convOpts
}

func (o *convertOptions) run(cmd *cobra.Command) error {
	target := o.sourcePath
	if target == "" {
		target = o.sourceURL
	}

	fail := func(err error) error {
		if logErr := logFailure(o.opts.failLogPath, target, err); logErr != nil {
			return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
		}
		return err
	}

	if err := o.complete(); err != nil {
		return fail(err)
	}

	apiKey, err := resolveAPIKey(o.opts)
	if err != nil {
		return fail(err)
	}

	cli, err := buildClient(apiKey, o.opts)
	if err != nil {
		return fail(err)
	}
	ctx := cmd.Context()

	job, err := o.submit(cmd, cli)
	if err != nil {
		return fail(err)
	}

	if err := printOut(cmd, "Conversion submitted job=%s status=%s", job.ID, job.Status); err != nil {
		return err
	}

	if !o.wait {
		return nil
	}

	job, err = cli.WaitForCompletion(ctx, job.ID, o.interval)
	if err != nil {
		return fail(err)
	}

	if job.Status == client.JobStatusFailed {
		msg := "no detail provided"
		if job.Error != nil {
			msg = fmt.Sprintf("%s: %s", job.Error.Code, job.Error.Message)
		}
		return fail(fmt.Errorf("conversion failed for job %s: %s", job.ID, msg))
	}

	if err := printOut(cmd, "Conversion %s job=%s", job.Status, job.ID); err != nil {
		return err
	}

	if o.download {
		outPath, err := downloadJobResult(ctx, cli, job.ID, o.output)
		if err != nil {
			return fail(err)
		}
		if err := printOut(cmd, "Downloaded to %s", outPath); err != nil {
			return err
		}
	}

	return nil
}

// submit routes to the right entry point: URL conversion, direct multipart
// for small files, or the chunked uploader with a progress bar.
func (o *convertOptions) submit(cmd *cobra.Command, cli client.Client) (*client.ConversionJob, error) {
	ctx := cmd.Context()
	convOpts := o.buildConversionOptions()

	if o.sourceURL != "" {
		return cli.ConvertURL(ctx, o.sourceURL, o.to, convOpts)
	}

	info, err := os.Stat(o.sourcePath)
	if err == nil && info.Size() <= directUploadLimit && o.chunkSize == 0 {
		return cli.Convert(ctx, o.sourcePath, o.to, convOpts)
	}

	var bar *pb.ProgressBar
	params := &client.UploadParams{
		ChunkSize: o.chunkSize,
		Options:   convOpts,
		Progress: func(done, total int, _ float64) {
			if bar == nil {
				bar = pb.StartNew(total)
				bar.SetWriter(cmd.OutOrStdout())
			}
			bar.SetCurrent(int64(done))
		},
	}

	job, err := cli.UploadLargeFile(ctx, o.sourcePath, o.to, params)
	if bar != nil {
		bar.Finish()
	}
	return job, err
}
