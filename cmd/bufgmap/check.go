// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/netlist"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check INPUT.json",
		Short: "report multiply driven and undriven nets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				log.SetLevel(log.DebugLevel)
			}
			d, err := readDesign(args[0])
			if err != nil {
				return err
			}
			n := 0
			for _, m := range d.Modules() {
				issues := netlist.Check(m)
				log.WithField("module", m.Name()).Debugf("%d issues", len(issues))
				for _, i := range issues {
					fmt.Fprintln(cmd.OutOrStdout(), i)
				}
				n += len(issues)
			}
			if n > 0 {
				return errors.Errorf("%d issues found", n)
			}
			return nil
		},
	}
}
