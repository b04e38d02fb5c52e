// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/db47h/netlist"
	"github.com/db47h/netlist/bufgmap"
	"github.com/db47h/netlist/internal/config"
	"github.com/db47h/netlist/xilinx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bufgmap [flags] INPUT.json",
		Short: "insert global buffers on clock networks",
		Long: `Inserts BUFG cells between nets driving clock inputs and their drivers.

The input is a Yosys JSON netlist. The rewritten netlist is written to
standard output unless --output is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			d, err := readDesign(args[0])
			if err != nil {
				return err
			}
			sel, err := netlist.NewSelection(cfg.Select...)
			if err != nil {
				return err
			}
			clk, buf, err := cfg.PortSets()
			if err != nil {
				return err
			}
			p := bufgmap.New(bufgmap.Options{
				Pad:         cfg.Pad,
				Select:      sel,
				ClockPorts:  &clk,
				BufferPorts: &buf,
				Workers:     cfg.Workers,
			})
			st, err := p.Run(context.Background(), d)
			if err != nil {
				return err
			}
			log.Infof("%d modules, %d BUFG and %d IBUFG cells inserted", st.Modules, st.BUFG, st.IBUFG)
			out, _ := cmd.Flags().GetString("output")
			return writeDesign(d, out, cmd.OutOrStdout())
		},
	}
	fl := cmd.Flags()
	fl.Bool("pad", false, "insert IBUFG cells on module inputs that would become BUFG inputs")
	fl.StringArray("select", nil, "restrict the pass to modules or wires matching `module[/wire]` (glob)")
	fl.IntP("jobs", "j", 1, "number of modules processed concurrently")
	fl.StringP("output", "o", "", "output file (default standard output)")
	cmd.PersistentFlags().String("config", "", "YAML configuration file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	cmd.AddCommand(newVersionCmd(), newCheckCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version of this executable",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v := Version
			if v == "" {
				if info, ok := debug.ReadBuildInfo(); ok {
					v = info.Main.Version
				} else {
					v = "(unknown version)"
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "bufgmap", v)
		},
	}
}

// loadConfig merges the configuration file, the environment and the command
// line flags, in increasing order of precedence.
//
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	if fl.Changed("pad") {
		cfg.Pad, _ = fl.GetBool("pad")
	}
	if fl.Changed("select") {
		cfg.Select, _ = fl.GetStringArray("select")
	}
	if fl.Changed("jobs") {
		cfg.Workers, _ = fl.GetInt("jobs")
	}
	if v, _ := fl.GetBool("verbose"); v {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func readDesign(path string) (*netlist.Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open netlist")
	}
	defer f.Close()
	d, err := netlist.ReadJSON(f, xilinx.Library())
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return d, nil
}

func writeDesign(d *netlist.Design, path string, stdout io.Writer) error {
	if path == "" || path == "-" {
		return d.WriteJSON(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err = d.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close output")
}

func init() {
	log.SetOutput(os.Stderr)
}
