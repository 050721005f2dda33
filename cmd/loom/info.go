// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/loomtale/loom/internal/logging"
	"github.com/loomtale/loom/pkg/errutil"
	"github.com/loomtale/loom/pkg/loom"
)

type infoConfig struct {
	file  string
	match string
}

func newInfoCmd() *cobra.Command {
	ic := &infoConfig{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "list a story's passages, optionally filtered by a glob pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInfo(cmd, ic)
		},
	}
	cmd.Flags().StringVar(&ic.file, "file", "", "story source file (defaults to stdin)")
	cmd.Flags().StringVar(&ic.match, "match", "*", "glob pattern to filter passage names")
	return cmd
}

func runInfo(cmd *cobra.Command, ic *infoConfig) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup("loom", "dev", cfg.LogFormat, os.Stderr)

	src, err := readSource(ic.file)
	if err != nil {
		errutil.LogError(logger, "reading source", err)
		return err
	}

	g, err := glob.Compile(ic.match)
	if err != nil {
		return fmt.Errorf("compiling --match pattern %q: %w", ic.match, err)
	}

	res := loom.Parse(src)

	names := make([]string, 0, len(res.Passages))
	for name := range res.Passages {
		if g.Match(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	w := cmd.OutOrStdout()
	if res.StoryTitle != "" {
		fmt.Fprintf(w, "%s\n", res.StoryTitle)
	}
	for _, name := range names {
		p := res.Passages[name]
		if len(p.Tags) > 0 {
			fmt.Fprintf(w, "%s %v\n", name, p.Tags)
		} else {
			fmt.Fprintln(w, name)
		}
	}
	return nil
}
