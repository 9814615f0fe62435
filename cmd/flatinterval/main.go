// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package main provides the flatinterval command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	configName = ".flatinterval"
	envPrefix  = "FLATINTERVAL"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(newEnv(stdin, stdout, stderr))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// env holds the I/O streams, configuration and logger shared by all
// commands of one invocation.
type env struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	v       *viper.Viper
	logger  *zap.Logger
	cfgFile string
}

func newEnv(stdin io.Reader, stdout, stderr io.Writer) *env {
	return &env{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		v:      viper.New(),
		logger: zap.NewNop(),
	}
}

func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatinterval",
		Short: "Query interval files with a static segment tree",
		Long: `flatinterval loads interval records from a TSV or FIB file, builds a
segment tree over them and answers point and range queries.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = e.logger.Sync()
		},
	}
	cmd.SetIn(e.stdin)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "config file (default ~/"+configName+".yaml)")
	flags.StringP("input", "i", "", "interval file, TSV or FIB ('-' for stdin)")
	flags.String("format", "auto", "input format: auto, tsv, fib")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	_ = e.v.BindPFlag("input.path", flags.Lookup("input"))
	_ = e.v.BindPFlag("input.format", flags.Lookup("format"))
	_ = e.v.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(newPointCmd(e))
	cmd.AddCommand(newRangeCmd(e))
	cmd.AddCommand(newStatsCmd(e))
	cmd.AddCommand(newConvertCmd(e))
	cmd.AddCommand(newConfigCmd(e))

	return cmd
}

// init reads the config file and environment and builds the logger.
func (e *env) init() error {
	if e.cfgFile != "" {
		e.v.SetConfigFile(e.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		e.v.AddConfigPath(home)
		e.v.SetConfigName(configName)
		e.v.SetConfigType("yaml")
	}
	e.v.SetEnvPrefix(envPrefix)
	e.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	e.v.AutomaticEnv()

	if err := e.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	logger, err := newLogger(e.v.GetString("log.level"), e.v.GetBool("log.development"), e.stderr)
	if err != nil {
		return err
	}
	e.logger = logger
	if used := e.v.ConfigFileUsed(); used != "" {
		e.logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

// configFile returns the config file to write: the one in use, or the
// default in the home directory.
func (e *env) configFile() (string, error) {
	if used := e.v.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// newLogger builds a logger writing to w. Development loggers use the
// console encoder, production loggers emit JSON.
func newLogger(level string, development bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var enc zapcore.Encoder
	if development {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
