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

type evaluateConfig struct {
	expression string
	condition  bool
	set        []string
}

func newEvaluateCmd() *cobra.Command {
	ec := &evaluateConfig{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "evaluate a bare expression against variable state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, ec)
		},
	}
	cmd.Flags().StringVar(&ec.expression, "expr", "", "expression to evaluate")
	cmd.Flags().BoolVar(&ec.condition, "condition", false, "reduce the result to a boolean via truthiness")
	cmd.Flags().StringArrayVar(&ec.set, "set", nil, "initial variable, as NAME=VALUE (repeatable)")
	return cmd
}

func runEvaluate(cmd *cobra.Command, ec *evaluateConfig) error {
	if strings.TrimSpace(ec.expression) == "" {
		return fmt.Errorf("--expr is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup("loom", "dev", cfg.LogFormat, os.Stderr)

	sc := cfg.scopeAdapter()
	store := loom.Store{}
	applySetFlags(store, sc, ec.set)

	if ec.condition {
		ok, errs := loom.EvaluateCondition(ec.expression, sc, store, cfg.entropy())
		if len(errs) > 0 {
			errutil.LogError(logger, "evaluation errors", fmt.Errorf("%d error(s) recorded", len(errs)))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	}

	v, errs := loom.EvaluateExpression(ec.expression, sc, store, cfg.entropy())
	if len(errs) > 0 {
		errutil.LogError(logger, "evaluation errors", fmt.Errorf("%d error(s) recorded", len(errs)))
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.String())
	return nil
}
