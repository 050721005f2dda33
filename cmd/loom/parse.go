// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomtale/loom/internal/logging"
	"github.com/loomtale/loom/pkg/errutil"
	"github.com/loomtale/loom/pkg/loom"
)

type parseConfig struct {
	file string
}

func newParseCmd() *cobra.Command {
	pc := &parseConfig{}
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "parse a story file and print its structure as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd, pc)
		},
	}
	cmd.Flags().StringVar(&pc.file, "file", "", "story source file (defaults to stdin)")
	return cmd
}

func runParse(cmd *cobra.Command, pc *parseConfig) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup("loom", "dev", cfg.LogFormat, os.Stderr)

	src, err := readSource(pc.file)
	if err != nil {
		errutil.LogError(logger, "reading source", err)
		return err
	}

	res := loom.Parse(src)
	if len(res.Errors) > 0 {
		logger.Warn("parse completed with errors", "count", len(res.Errors))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func readSource(path string) (string, error) {
	if path == "" {
		b, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}
