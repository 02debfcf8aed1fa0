package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ragdash/dashboard-api/internal/lambda"
	"github.com/spf13/cobra"
)

func newInvokeCmd() *cobra.Command {
	var configPath, eventPath string

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Serve one invocation event and print the response envelope",
		Long: "Reads a function URL event from --event (or stdin when omitted or \"-\")\n" +
			"and writes the {statusCode, headers, body} envelope to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readEvent(cmd.InOrStdin(), eventPath)
			if err != nil {
				return err
			}

			// stdout carries the envelope; every log line goes to stderr.
			a, err := newApp(cmd.Context(), configPath, os.Stderr)
			if err != nil {
				return err
			}
			defer a.close()

			resp := lambda.NewInvoker(a.server, a.logger).Invoke(cmd.Context(), payload)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVarP(&eventPath, "event", "e", "", "path to event JSON (default stdin)")
	return cmd
}

func readEvent(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read event from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event: %w", err)
	}
	return data, nil
}
