// Cyd converts a document between JSON, TOML, and YAML.
//
// It reads a complete document on stdin and writes the converted document
// to stdout:
//
//	cat config.toml | cyd -i toml -o json
//
// The input and output formats can also come from the CYD_INPUT and
// CYD_OUTPUT environment variables. On failure nothing is written to
// stdout, a diagnostic goes to stderr, and the process exits non-zero.
package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bjaus/cyd"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:           "cyd",
		Short:         "Convert a document between JSON, TOML, and YAML",
		Long:          "Cyd reads a complete document on stdin, converts it to the requested format, and writes the result to stdout.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = os.Getenv("CYD_INPUT")
			}
			if output == "" {
				output = os.Getenv("CYD_OUTPUT")
			}
			if input == "" {
				return errors.New("missing input format: use --input or CYD_INPUT")
			}
			if output == "" {
				return errors.New("missing output format: use --output or CYD_OUTPUT")
			}
			from, err := cyd.ParseFormat(input)
			if err != nil {
				return err
			}
			to, err := cyd.ParseFormat(output)
			if err != nil {
				return err
			}
			return cyd.Copy(cmd.OutOrStdout(), cmd.InOrStdin(), from, to)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "format of the input document (json, toml, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "format of the output document (json, toml, yaml)")
	return cmd
}
