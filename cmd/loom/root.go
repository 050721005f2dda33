// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var (
	configFile string
	scopeFlag  string
	userFlag   string
	seedFlag   uint64
	logFormat  string
)

// NewRootCmd creates the root command for the Loom CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loom",
		Short: "loom - a textual interactive-fiction engine",
		Long: `loom parses, renders, and evaluates stories written in the Loom
interactive-fiction DSL: passages, links, and an inline macro language.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&scopeFlag, "scope", "global", "variable scope: global or prefixed")
	cmd.PersistentFlags().StringVar(&userFlag, "user", "", "username for prefixed scope")
	cmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "entropy seed for either()/random()")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or text")

	cmd.AddCommand(NewParseCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewInfoCmd())

	return cmd
}

// NewParseCmd creates the parse subcommand.
func NewParseCmd() *cobra.Command { return newParseCmd() }

// NewRenderCmd creates the render subcommand.
func NewRenderCmd() *cobra.Command { return newRenderCmd() }

// NewEvaluateCmd creates the evaluate subcommand.
func NewEvaluateCmd() *cobra.Command { return newEvaluateCmd() }

// NewInfoCmd creates the info subcommand.
func NewInfoCmd() *cobra.Command { return newInfoCmd() }
