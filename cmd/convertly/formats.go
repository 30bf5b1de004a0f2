package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	client "github.com/convertly/convertly-go"
)

func newFormatsCmd(opts *cliOptions) *cobra.Command {
	var from string
	var check string

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported formats and conversion pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := jobClient(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if check != "" {
				source, target, ok := strings.Cut(check, ":")
				if !ok || source == "" || target == "" {
					return fmt.Errorf("--check expects source:target, got %q", check)
				}

				supported, err := cli.IsConversionSupported(ctx, source, target)
				if err != nil {
					return err
				}
				return printOut(cmd, "%s -> %s supported=%t", source, target, supported)
			}

			var formats []client.Format
			if from != "" {
				formats, err = cli.ConversionsFrom(ctx, from)
			} else {
				formats, err = cli.ListFormats(ctx)
			}
			if err != nil {
				return err
			}

			renderFormatsTable(cmd, formats)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "List conversions available from this source format")
	cmd.Flags().StringVar(&check, "check", "", "Check one pair, as source:target")

	return cmd
}

func renderFormatsTable(cmd *cobra.Command, formats []client.Format) {
	sort.Slice(formats, func(i, j int) bool {
		if formats[i].Category != formats[j].Category {
			return formats[i].Category < formats[j].Category
		}
		return formats[i].Name < formats[j].Name
	})

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Format", "Category", "Mime Type"})
	for _, f := range formats {
		t.AppendRow(table.Row{f.Name, f.Category, f.MimeType})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
