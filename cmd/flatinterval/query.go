// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gogama/flatinterval"
	"github.com/gogama/flatinterval/segtree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newPointCmd(e *env) *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "point <p>",
		Short: "List values whose interval contains a point",
		Example: `  flatinterval -i genes.tsv point 14405
  flatinterval -i genes.fib point --count 14405`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseKey("point", args[0])
			if err != nil {
				return err
			}
			tree, err := e.loadTree()
			if err != nil {
				return err
			}
			if count {
				_, err = fmt.Fprintln(e.stdout, tree.Count(p))
				return err
			}
			return e.printValues(tree.Search(p))
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "print only the number of matching values")

	return cmd
}

func newRangeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range <start> <end>",
		Short: "List values whose interval overlaps [start, end)",
		Long: `List values whose interval overlaps the half-open range [start, end).

By default a value is printed once for every tree node its interval was
stored in, so an interval spanning several nodes may repeat. --distinct
prints each value once. --identity prints each overlapping interval once,
as a TSV record.`,
		Example: `  flatinterval -i genes.tsv range 17000 17400
  flatinterval -i genes.tsv range --distinct 17000 17400
  FLATINTERVAL_QUERY_IDENTITY=true flatinterval -i genes.tsv range 17000 17400`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseKey("start", args[0])
			if err != nil {
				return err
			}
			end, err := parseKey("end", args[1])
			if err != nil {
				return err
			}
			tree, err := e.loadTree()
			if err != nil {
				return err
			}
			switch {
			case e.v.GetBool("query.identity"):
				return flatinterval.WriteTSV(e.stdout, tree.DistinctIntervals(start, end))
			case e.v.GetBool("query.distinct"):
				return e.printValues(segtree.Distinct(tree, start, end))
			default:
				return e.printValues(tree.SearchRange(start, end))
			}
		},
	}

	cmd.Flags().Bool("distinct", false, "print each value once")
	cmd.Flags().Bool("identity", false, "print each overlapping interval once, as TSV")
	_ = e.v.BindPFlag("query.distinct", cmd.Flags().Lookup("distinct"))
	_ = e.v.BindPFlag("query.identity", cmd.Flags().Lookup("identity"))

	return cmd
}

// stats is the summary printed by the stats command.
type stats struct {
	Bounds    string `yaml:"bounds"`
	Intervals int    `yaml:"intervals"`
	Nodes     int    `yaml:"nodes"`
	Depth     int    `yaml:"depth"`
}

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the shape of the index built over the input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := e.loadTree()
			if err != nil {
				return err
			}
			s := stats{
				Bounds:    "empty",
				Intervals: tree.NumIntervals(),
				Nodes:     tree.NumNodes(),
				Depth:     tree.Depth(),
			}
			if lo, hi, ok := tree.Bounds(); ok {
				s.Bounds = fmt.Sprintf("[%d,%d)", lo, hi)
			}
			out, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("marshaling stats: %w", err)
			}
			_, err = e.stdout.Write(out)
			return err
		},
	}
}

func parseKey(name, arg string) (int64, error) {
	k, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return k, nil
}

// openInput opens the configured input file, or stdin for "-".
func (e *env) openInput() (string, io.ReadCloser, error) {
	path := e.v.GetString("input.path")
	switch path {
	case "":
		return "", nil, errors.New("no input file: use --input or set input.path")
	case "-":
		return "<stdin>", io.NopCloser(e.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	return path, f, nil
}

// inputFormat returns the configured input format.
func (e *env) inputFormat() (flatinterval.Format, error) {
	return flatinterval.ParseFormat(e.v.GetString("input.format"))
}

func (e *env) loadTree() (*segtree.Tree[int64, string], error) {
	format, err := e.inputFormat()
	if err != nil {
		return nil, err
	}
	name, r, err := e.openInput()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	began := time.Now()
	tree, err := flatinterval.Load(r, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	e.logger.Info("built interval index",
		zap.String("input", name),
		zap.Stringer("format", format),
		zap.Int("intervals", tree.NumIntervals()),
		zap.Int("nodes", tree.NumNodes()),
		zap.Int("depth", tree.Depth()),
		zap.Duration("elapsed", time.Since(began)))
	return tree, nil
}

func (e *env) printValues(values []string) error {
	w := bufio.NewWriter(e.stdout)
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	e.logger.Debug("query complete", zap.Int("results", len(values)))
	return w.Flush()
}
