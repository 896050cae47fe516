package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"link-forensics/scanner"
)

func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <url>",
		Short: "Scan one URL and print the verdict as JSON",
		Example: `  link-forensics check bit.ly/3xyz
  VT_API_KEY=... link-forensics check https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckCmd,
	}
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(args[0]) == "" {
		return errors.New("no URL provided")
	}

	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	verdict := scanner.New(cfg, logger).Scan(cmd.Context(), args[0])

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(verdict)
}
