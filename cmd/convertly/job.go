package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	client "github.com/convertly/convertly-go"
)

func newJobCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect and manage conversion jobs",
	}

	cmd.AddCommand(newJobStatusCmd(opts))
	cmd.AddCommand(newJobWaitCmd(opts))
	cmd.AddCommand(newJobCancelCmd(opts))
	cmd.AddCommand(newJobDownloadCmd(opts))
	cmd.AddCommand(newJobDestroyCmd(opts))

	return cmd
}

func jobClient(opts *cliOptions) (client.Client, error) {
	apiKey, err := resolveAPIKey(opts)
	if err != nil {
		return nil, err
	}
	return buildClient(apiKey, opts)
}

func requireJobID(args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", errors.New("a job id argument is required")
	}
	return args[0], nil
}

func newJobStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := requireJobID(args)
			if err != nil {
				return err
			}

			cli, err := jobClient(opts)
			if err != nil {
				return err
			}

			job, err := cli.GetJob(cmd.Context(), jobID)
			if err != nil {
				return err
			}

			return printJob(cmd, job)
		},
	}
}

func newJobWaitCmd(opts *cliOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "wait <job-id>",
		Short: "Block until a job reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := requireJobID(args)
			if err != nil {
				return err
			}

			cli, err := jobClient(opts)
			if err != nil {
				return err
			}

			job, err := cli.WaitForCompletion(cmd.Context(), jobID, interval)
			if err != nil {
				if logErr := logFailure(opts.failLogPath, jobID, err); logErr != nil {
					return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
				}
				return err
			}

			return printJob(cmd, job)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollInterval, "Polling interval for job status")

	return cmd
}

func newJobCancelCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a queued or processing job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := requireJobID(args)
			if err != nil {
				return err
			}

			cli, err := jobClient(opts)
			if err != nil {
				return err
			}

			if err := cli.CancelJob(cmd.Context(), jobID); err != nil {
				return err
			}

			return printOut(cmd, "Cancelled job %s", jobID)
		},
	}
}

func newJobDownloadCmd(opts *cliOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download the converted file for a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := requireJobID(args)
			if err != nil {
				return err
			}

			cli, err := jobClient(opts)
			if err != nil {
				return err
			}

			outPath, err := downloadJobResult(cmd.Context(), cli, jobID, output)
			if err != nil {
				if logErr := logFailure(opts.failLogPath, jobID, err); logErr != nil {
					return fmt.Errorf("%w; also failed to write fail log: %v", err, logErr)
				}
				return err
			}

			return printOut(cmd, "Downloaded to %s", outPath)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Download path (defaults to the server-provided filename)")

	return cmd
}

func newJobDestroyCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <job-id>",
		Short: "Delete the converted artifact from the service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := requireJobID(args)
			if err != nil {
				return err
			}

			cli, err := jobClient(opts)
			if err != nil {
				return err
			}

			if err := cli.DeleteResult(cmd.Context(), jobID); err != nil {
				return err
			}

			return printOut(cmd, "Deleted result for job %s", jobID)
		},
	}
}

func printJob(cmd *cobra.Command, job *client.ConversionJob) error {
	line := fmt.Sprintf("Job %s status=%s %s->%s", job.ID, job.Status, job.SourceFormat, job.TargetFormat)
	if job.Result != nil {
		line += fmt.Sprintf(" size=%s expires=%s", job.Result.FormattedSize(), job.Result.ExpiresAt.Format(time.RFC3339))
	}
	if job.Error != nil {
		line += fmt.Sprintf(" error=%s:%s", job.Error.Code, job.Error.Message)
	}
	return printOut(cmd, "%s", line)
}
