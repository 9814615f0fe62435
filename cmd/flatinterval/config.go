// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage flatinterval configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/" + configName + ".yaml.",
		Example: `  flatinterval config                          # show all config
  flatinterval config set query.distinct true  # dedup range results
  flatinterval config get input.format         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd(e))
	cmd.AddCommand(newConfigGetCmd(e))

	return cmd
}

func newConfigSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runConfigGet(args[0])
		},
	}
}

func (e *env) runConfigShow() error {
	out, err := yaml.Marshal(e.v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = e.stdout.Write(out)
	return err
}

func (e *env) runConfigSet(key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		e.v.Set(key, true)
	case "false", "no", "off":
		e.v.Set(key, false)
	default:
		e.v.Set(key, value)
	}

	cfgFile, err := e.configFile()
	if err != nil {
		return err
	}
	if err := e.v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	e.logger.Debug("wrote config file", zap.String("path", cfgFile))
	_, err = fmt.Fprintf(e.stdout, "Set %s = %s in %s\n", key, value, cfgFile)
	return err
}

func (e *env) runConfigGet(key string) error {
	val := e.v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	_, err := fmt.Fprintln(e.stdout, val)
	return err
}
