// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogama/flatinterval"
	"github.com/gogama/flatinterval/segtree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConvertCmd(e *env) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "convert <in> <out.fib>",
		Short: "Convert interval records to a FIB file",
		Long: `Convert interval records to a FIB file. The input format follows
--format. Records are checked by building an index before anything is
written. Use '-' for stdin or stdout.`,
		Example: `  flatinterval convert genes.tsv genes.fib
  flatinterval convert --title "hg38 genes" - genes.fib < genes.tsv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && args[0] != "-" {
				base := filepath.Base(args[0])
				title = strings.TrimSuffix(base, filepath.Ext(base))
			}
			return e.convert(args[0], args[1], title)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title stored in the FIB header (default input file name)")

	return cmd
}

func (e *env) convert(in, out, title string) error {
	format, err := e.inputFormat()
	if err != nil {
		return err
	}

	var r io.Reader = e.stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	intervals, err := flatinterval.ReadIntervals(r, format)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}
	if _, err = segtree.New(intervals); err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}

	// FileWriter closes its writer if it can, so stdout is wrapped.
	var w io.Writer = struct{ io.Writer }{e.stdout}
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		w = f
	}
	hdr := flatinterval.NewHeader(title, uint64(len(intervals)))
	fw := flatinterval.NewFileWriter(w)
	n, err := fw.Header(hdr)
	if err == nil {
		var m int
		m, err = fw.Intervals(intervals)
		n += m
	}
	if closeErr := fw.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	e.logger.Info("converted intervals",
		zap.String("input", in),
		zap.String("output", out),
		zap.String("header", flatinterval.HeaderString(hdr)),
		zap.Int("bytes", n))
	return nil
}
