// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the configuration of the bufgmap command.
//
// Settings come from an optional YAML file, then from the environment
// (including a .env file in the working directory). Command line flags are
// applied last by the command itself.
//
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/db47h/netlist/xilinx"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvPad     = "BUFGMAP_PAD"
	EnvWorkers = "BUFGMAP_WORKERS"
	EnvSelect  = "BUFGMAP_SELECT"
)

// Config holds the settings of a bufgmap run.
//
type Config struct {
	Pad     bool     `yaml:"pad"`
	Workers int      `yaml:"workers"`
	Select  []string `yaml:"select"`
	Verbose bool     `yaml:"verbose"`
	// Additional clock consuming and clock buffer ports, as TYPE.PORT.
	ClockPorts  []string `yaml:"clock_ports"`
	BufferPorts []string `yaml:"buffer_ports"`
}

// Load reads the YAML file at path, if path is not empty, then applies
// environment overrides.
//
func Load(path string) (*Config, error) {
	cfg := &Config{Workers: 1}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvPad)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, EnvPad)
		}
		c.Pad = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, EnvWorkers)
		}
		c.Workers = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvSelect)); v != "" {
		c.Select = strings.Fields(v)
	}
	return nil
}

// PortSets returns the default clock and buffer port sets extended with the
// configured ports.
//
func (c *Config) PortSets() (clk, buf xilinx.PortSet, err error) {
	parse := func(ss []string) ([]xilinx.PortRef, error) {
		rs := make([]xilinx.PortRef, 0, len(ss))
		for _, s := range ss {
			r, err := xilinx.ParsePortRef(s)
			if err != nil {
				return nil, err
			}
			rs = append(rs, r)
		}
		return rs, nil
	}
	cr, err := parse(c.ClockPorts)
	if err != nil {
		return clk, buf, errors.Wrap(err, "clock_ports")
	}
	br, err := parse(c.BufferPorts)
	if err != nil {
		return clk, buf, errors.Wrap(err, "buffer_ports")
	}
	return xilinx.ClockPorts().Union(cr...), xilinx.BufferPorts().Union(br...), nil
}
