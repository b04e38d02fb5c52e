// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/netlist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func clearEnv(t *testing.T) {
	for _, k := range []string{config.EnvPad, config.EnvWorkers, config.EnvSelect} {
		unsetenv(t, k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{Workers: 1}, cfg)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	p := writeFile(t, dir, "bufgmap.yaml", `
pad: true
workers: 4
select: [top, "*/clk*"]
clock_ports: [MYFF.CK]
buffer_ports: [MYBUF.O]
`)
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.True(t, cfg.Pad)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"top", "*/clk*"}, cfg.Select)

	clk, buf, err := cfg.PortSets()
	require.NoError(t, err)
	assert.True(t, clk.Contains("MYFF", "CK"))
	assert.True(t, clk.Contains("FDRE", "C"))
	assert.True(t, buf.Contains("MYBUF", "O"))
	assert.True(t, buf.Contains("BUFG", "O"))
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	p := writeFile(t, dir, "bufgmap.yaml", "pad: true\nworkers: 4\n")
	t.Setenv(config.EnvPad, "false")
	t.Setenv(config.EnvWorkers, "8")
	t.Setenv(config.EnvSelect, "a  b/c")

	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.False(t, cfg.Pad)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{"a", "b/c"}, cfg.Select)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "BUFGMAP_WORKERS=3\n")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadBadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "BUFGMAP-WORKERS=3\n")
	_, err := config.Load("")
	assert.ErrorContains(t, err, "load .env")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "workers: [1\n")
	_, err = config.Load(bad)
	assert.Error(t, err)

	t.Setenv(config.EnvWorkers, "many")
	_, err = config.Load("")
	assert.Error(t, err)
}

func TestPortSetsErrors(t *testing.T) {
	for _, c := range []config.Config{
		{ClockPorts: []string{"FDRE"}},
		{BufferPorts: []string{"BUFG."}},
	} {
		_, _, err := c.PortSets()
		assert.Error(t, err)
	}
}
