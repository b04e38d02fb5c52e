// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/netlist"
	"github.com/db47h/netlist/internal/config"
	"github.com/db47h/netlist/nltest"
	"github.com/db47h/netlist/xilinx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regJSON = `{
  "modules": {
    "top": {
      "ports": {
        "clk": { "direction": "input", "bits": [ 2 ] },
        "d": { "direction": "input", "bits": [ 3 ] },
        "q": { "direction": "output", "bits": [ 4 ] }
      },
      "cells": {
        "ff": {
          "type": "FDRE",
          "connections": { "C": [ 2 ], "CE": [ "1" ], "R": [ "0" ], "D": [ 3 ], "Q": [ 4 ] }
        }
      },
      "netnames": {
        "clk": { "bits": [ 2 ] },
        "d": { "bits": [ 3 ] },
        "q": { "bits": [ 4 ] }
      }
    }
  }
}`

func setup(t *testing.T, data string) (dir, in string) {
	t.Helper()
	for _, k := range []string{config.EnvPad, config.EnvWorkers, config.EnvSelect} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir = t.TempDir()
	t.Chdir(dir)
	in = filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(data), 0o644))
	return dir, in
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readOutput(t *testing.T, path string) *netlist.Module {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	d, err := netlist.ReadJSON(f, xilinx.Library())
	require.NoError(t, err)
	m := d.Module("top")
	require.NotNil(t, m)
	return m
}

func TestRun(t *testing.T) {
	dir, in := setup(t, regJSON)
	out := filepath.Join(dir, "out.json")
	_, err := run(t, "-o", out, in)
	require.NoError(t, err)

	m := readOutput(t, out)
	assert.Equal(t, 1, nltest.CountCells(m, xilinx.BUFG))
	assert.Equal(t, 0, nltest.CountCells(m, xilinx.IBUFG))
	c := nltest.Driver(m, m.Cell("ff").Port("C")[0])
	require.NotNil(t, c)
	assert.Equal(t, xilinx.BUFG, c.Type)
}

func TestRunPadStdout(t *testing.T) {
	dir, in := setup(t, regJSON)
	stdout, err := run(t, "--pad", in)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(out, []byte(stdout), 0o644))
	m := readOutput(t, out)
	assert.Equal(t, 1, nltest.CountCells(m, xilinx.BUFG))
	assert.Equal(t, 1, nltest.CountCells(m, xilinx.IBUFG))
	assert.Equal(t, []string{"clk", "d", "q"}, m.Ports())
}

func TestRunSelectNone(t *testing.T) {
	dir, in := setup(t, regJSON)
	out := filepath.Join(dir, "out.json")
	_, err := run(t, "--select", "other", "-o", out, in)
	require.NoError(t, err)
	assert.Equal(t, 0, nltest.CountCells(readOutput(t, out), xilinx.BUFG))
}

func TestRunConfigFile(t *testing.T) {
	dir, in := setup(t, regJSON)
	cfg := filepath.Join(dir, "bufgmap.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("pad: true\nworkers: 2\n"), 0o644))
	out := filepath.Join(dir, "out.json")

	_, err := run(t, "--config", cfg, "-o", out, in)
	require.NoError(t, err)
	assert.Equal(t, 1, nltest.CountCells(readOutput(t, out), xilinx.IBUFG))

	// flags take precedence
	_, err = run(t, "--config", cfg, "--pad=false", "-o", out, in)
	require.NoError(t, err)
	assert.Equal(t, 0, nltest.CountCells(readOutput(t, out), xilinx.IBUFG))
}

func TestRunErrors(t *testing.T) {
	dir, in := setup(t, regJSON)
	_, err := run(t)
	assert.Error(t, err)
	_, err = run(t, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	_, err = run(t, "--select", "/", in)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = run(t, bad)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	_, in := setup(t, regJSON)
	out, err := run(t, "check", in)
	assert.NoError(t, err)
	assert.Empty(t, out)

	_, in = setup(t, strings.Replace(regJSON, `"D": [ 3 ]`, `"D": [ 5 ]`, 1))
	out, err = run(t, "check", in)
	assert.EqualError(t, err, "1 issues found")
	assert.Contains(t, out, "read by ff.D is not driven")
}

func TestVersion(t *testing.T) {
	Version = "v1.2.3"
	defer func() { Version = "" }()
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bufgmap v1.2.3\n", out)
}
