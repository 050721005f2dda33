// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomtale/loom/internal/logging"
	"github.com/loomtale/loom/pkg/errutil"
	"github.com/loomtale/loom/pkg/loom"
)

type renderConfig struct {
	file    string
	passage string
	set     []string
	preview bool
}

func newRenderCmd() *cobra.Command {
	rc := &renderConfig{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render one passage and print the resulting text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, rc)
		},
	}
	cmd.Flags().StringVar(&rc.file, "file", "", "story source file (defaults to stdin)")
	cmd.Flags().StringVar(&rc.passage, "passage", "Start", "passage name to render")
	cmd.Flags().StringArrayVar(&rc.set, "set", nil, "initial variable, as NAME=VALUE (repeatable)")
	cmd.Flags().BoolVar(&rc.preview, "preview", false, "render in preview mode (same output and side effects as a runtime render)")
	return cmd
}

func runRender(cmd *cobra.Command, rc *renderConfig) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup("loom", "dev", cfg.LogFormat, os.Stderr)

	src, err := readSource(rc.file)
	if err != nil {
		errutil.LogError(logger, "reading source", err)
		return err
	}

	parsed := loom.Parse(src)
	store := loom.Store{}
	for k, v := range parsed.StoryInitVars {
		store[k] = v
	}
	sc := cfg.scopeAdapter()
	applySetFlags(store, sc, rc.set)

	mode := loom.ModeRuntime
	if rc.preview {
		mode = loom.ModePreview
	}

	res := loom.Render(parsed.Passages, rc.passage, sc, store, cfg.entropy(), mode)
	if len(res.Errors) > 0 {
		logger.Warn("render completed with errors", "count", len(res.Errors))
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}

// applySetFlags applies repeated --set NAME=VALUE flags to store: the key
// is sc.KeyFor(NAME) and the value is VALUE coerced by value.ParseLiteral.
// VALUE is a literal, not an expression, so it is not evaluated the way a
// <<set>> macro's right-hand side is.
func applySetFlags(store loom.Store, sc loom.Scope, assignments []string) {
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			continue
		}
		store[sc.KeyFor(strings.TrimSpace(name))] = loom.ValueToAny(loom.ParseLiteral(strings.TrimSpace(raw)))
	}
}
