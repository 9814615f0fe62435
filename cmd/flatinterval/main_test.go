// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abc = "# start\tend\tvalue\n1\t5\tA\n3\t7\tB\n"

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

// sandbox isolates the test from the user's config and environment and
// returns a directory holding abc.tsv.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, envPrefix+"_") {
			t.Setenv(kv[:strings.IndexByte(kv, '=')], "")
			require.NoError(t, os.Unsetenv(kv[:strings.IndexByte(kv, '=')]))
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.tsv"), []byte(abc), 0o644))
	return dir
}

func TestPoint(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "abc.tsv")

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"Both", []string{"-i", input, "point", "4"}, "A\nB\n"},
		{"Right", []string{"-i", input, "point", "5"}, "B\n"},
		{"Max", []string{"-i", input, "point", "7"}, ""},
		{"Count", []string{"-i", input, "point", "--count", "4"}, "2\n"},
		{"CountNone", []string{"-i", input, "point", "--count", "0"}, "0\n"},
		{"ExplicitFormat", []string{"-i", input, "--format", "tsv", "point", "1"}, "A\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := execute(t, "", testCase.args...)

			assert.Equal(t, ExitSuccess, r.code, r.stderr)
			assert.Equal(t, testCase.expected, r.stdout)
		})
	}

	t.Run("Stdin", func(t *testing.T) {
		r := execute(t, abc, "-i", "-", "point", "6")

		assert.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "B\n", r.stdout)
	})
}

func TestRange(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "abc.tsv")

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"Duplicates", []string{"range", "4", "6"}, "A\nB\nB\n"},
		{"Distinct", []string{"range", "--distinct", "4", "6"}, "A\nB\n"},
		{"Identity", []string{"range", "--identity", "4", "6"}, "1\t5\tA\n3\t7\tB\n"},
		{"Below", []string{"range", "0", "3"}, "A\n"},
		{"Outside", []string{"range", "7", "100"}, ""},
		{"Inverted", []string{"range", "6", "4"}, ""},
		{"EmptyInside", []string{"range", "--identity", "4", "4"}, ""},
		{"InvertedInside", []string{"range", "--distinct", "4", "3"}, ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := execute(t, "", append([]string{"-i", input}, testCase.args...)...)

			assert.Equal(t, ExitSuccess, r.code, r.stderr)
			assert.Equal(t, testCase.expected, r.stdout)
		})
	}

	t.Run("Env", func(t *testing.T) {
		t.Setenv("FLATINTERVAL_QUERY_DISTINCT", "true")
		t.Setenv("FLATINTERVAL_INPUT_PATH", input)

		r := execute(t, "", "range", "4", "6")

		assert.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "A\nB\n", r.stdout)
	})
}

func TestStats(t *testing.T) {
	dir := sandbox(t)

	t.Run("Tree", func(t *testing.T) {
		r := execute(t, "", "-i", filepath.Join(dir, "abc.tsv"), "stats")

		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Contains(t, r.stdout, "[1,7)")
		assert.Contains(t, r.stdout, "intervals: 2\n")
		assert.Contains(t, r.stdout, "nodes: 7\n")
		assert.Contains(t, r.stdout, "depth: 3\n")
	})

	t.Run("Empty", func(t *testing.T) {
		r := execute(t, "# nothing here\n", "-i", "-", "stats")

		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "bounds: empty\nintervals: 0\nnodes: 0\ndepth: 0\n", r.stdout)
	})
}

func TestConvert(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "abc.tsv")
	output := filepath.Join(dir, "abc.fib")

	t.Run("File", func(t *testing.T) {
		r := execute(t, "", "convert", input, output)
		require.Equal(t, ExitSuccess, r.code, r.stderr)

		r = execute(t, "", "-i", output, "--format", "fib", "point", "4")
		assert.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "A\nB\n", r.stdout)

		r = execute(t, "", "-i", output, "range", "--identity", "0", "100")
		assert.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "1\t5\tA\n3\t7\tB\n", r.stdout)
	})

	t.Run("Stdout", func(t *testing.T) {
		r := execute(t, abc, "convert", "--title", "abc", "-", "-")

		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.True(t, strings.HasPrefix(r.stdout, "fib\x01fib\x00"))
	})

	t.Run("InvalidInterval", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.fib")

		r := execute(t, "1\t5\tA\n5\t5\tB\n", "convert", "-", bad)

		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "start must be less than end")
		assert.NoFileExists(t, bad)
	})
}

func TestConfig(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "abc.tsv")
	cfg := filepath.Join(dir, "cfg.yaml")

	r := execute(t, "", "--config", cfg, "config", "set", "query.distinct", "yes")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Set query.distinct = yes in "+cfg+"\n", r.stdout)
	assert.FileExists(t, cfg)

	r = execute(t, "", "--config", cfg, "config", "get", "query.distinct")
	assert.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "true\n", r.stdout)

	r = execute(t, "", "--config", cfg, "-i", input, "range", "4", "6")
	assert.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "A\nB\n", r.stdout)

	r = execute(t, "", "--config", cfg, "config")
	assert.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "distinct: true")

	r = execute(t, "", "--config", cfg, "config", "get", "nope")
	assert.Equal(t, ExitError, r.code)
	assert.Equal(t, "Error: key \"nope\" is not set\n", r.stderr)

	t.Run("DefaultFile", func(t *testing.T) {
		r := execute(t, "", "config", "set", "input.format", "tsv")

		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.FileExists(t, filepath.Join(dir, configName+".yaml"))
		r = execute(t, "", "config", "get", "input.format")
		assert.Equal(t, "tsv\n", r.stdout)
	})
}

func TestLogging(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "abc.tsv")

	t.Run("Info", func(t *testing.T) {
		r := execute(t, "", "-i", input, "--log-level", "info", "point", "4")

		assert.Equal(t, ExitSuccess, r.code)
		assert.Contains(t, r.stderr, `"msg":"built interval index"`)
		assert.Contains(t, r.stderr, `"intervals":2`)
	})

	t.Run("Quiet", func(t *testing.T) {
		r := execute(t, "", "-i", input, "point", "4")

		assert.Equal(t, ExitSuccess, r.code)
		assert.Empty(t, r.stderr)
	})

	t.Run("Development", func(t *testing.T) {
		t.Setenv("FLATINTERVAL_LOG_DEVELOPMENT", "true")

		r := execute(t, "", "-i", input, "--log-level", "debug", "point", "4")

		assert.Equal(t, ExitSuccess, r.code)
		assert.Contains(t, r.stderr, "built interval index")
		assert.NotContains(t, r.stderr, `"msg"`)
	})

	t.Run("BadLevel", func(t *testing.T) {
		r := execute(t, "", "-i", input, "--log-level", "loud", "point", "4")

		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, `invalid log level "loud"`)
	})
}

func TestErrors(t *testing.T) {
	dir := sandbox(t)
	input := filepath.Join(dir, "abc.tsv")

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"NoInput", []string{"point", "4"}, "no input file"},
		{"MissingFile", []string{"-i", filepath.Join(dir, "missing.tsv"), "point", "4"}, "no such file"},
		{"BadPoint", []string{"-i", input, "point", "four"}, `invalid point "four"`},
		{"BadEnd", []string{"-i", input, "range", "1", "x"}, `invalid end "x"`},
		{"BadFormat", []string{"-i", input, "--format", "bed", "stats"}, `unknown format "bed"`},
		{"WrongFormat", []string{"-i", input, "--format", "fib", "stats"}, "invalid magic number"},
		{"Args", []string{"-i", input, "range", "1"}, "accepts 2 arg(s)"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := execute(t, "", testCase.args...)

			assert.Equal(t, ExitError, r.code)
			assert.True(t, strings.HasPrefix(r.stderr, "Error: "), r.stderr)
			assert.Contains(t, r.stderr, testCase.expected)
			assert.Empty(t, r.stdout)
		})
	}
}

func TestVersion(t *testing.T) {
	sandbox(t)

	r := execute(t, "", "--version")

	assert.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stdout, "dev (none) built unknown")
}
