// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

package main

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/loomtale/loom/pkg/loom"
)

// cliConfig holds the settings every subcommand needs: which scope
// adapter to build, the username for a prefixed scope, the entropy
// seed, and the log format. Values come from (in increasing priority)
// defaults, a YAML file named by --config, and command-line flags.
type cliConfig struct {
	Scope     string `koanf:"scope"`
	User      string `koanf:"user"`
	Seed      uint64 `koanf:"seed"`
	LogFormat string `koanf:"log-format"`
}

func loadConfig(cmd *cobra.Command) (*cliConfig, error) {
	k := koanf.New(".")

	defaults := &cliConfig{Scope: "global", LogFormat: "json"}
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, err
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return nil, err
	}

	out := &cliConfig{}
	if err := k.Unmarshal("", out); err != nil {
		return nil, err
	}
	return out, nil
}

// scopeAdapter builds the variable-scope adapter named by cfg.Scope.
func (c *cliConfig) scopeAdapter() loom.Scope {
	if c.Scope == "prefixed" {
		return loom.PrefixedScope(c.User)
	}
	return loom.GlobalScope()
}

func (c *cliConfig) entropy() loom.Entropy {
	return loom.SeededEntropy(c.Seed)
}
