package cmd

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/formfill-cli/internal/collect"
)

// newInspectCmd creates the `inspect` command, which parses an HTML document
// and prints the collected field inventory as JSON.
func newInspectCmd() *cobra.Command {
	var (
		pageURL string
		output  string
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect [html-file]",
		Short: "Collects the form field inventory of an HTML document",
		Long: `Parses an HTML document (from a file, or stdin when the argument is "-")
and prints the page details inventory used for fill-script generation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader io.Reader
			if args[0] == "-" {
				reader = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open html file: %w", err)
				}
				defer f.Close()
				reader = f
			}

			details, err := collect.Collect(reader, pageURL)
			if err != nil {
				return fmt.Errorf("failed to collect page details: %w", err)
			}

			encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(details, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode page details: %w", err)
			}

			return writeOutput(cmd, output, encoded)
		},
	}

	inspectCmd.Flags().StringVarP(&pageURL, "url", "u", "", "URL the document was served from")
	inspectCmd.Flags().StringVarP(&output, "output", "o", "", "write the inventory to a file instead of stdout")
	return inspectCmd
}

// writeOutput writes encoded JSON to the output file, or to stdout when no
// file was requested.
func writeOutput(cmd *cobra.Command, output string, encoded []byte) error {
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	}
	if err := os.WriteFile(output, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
