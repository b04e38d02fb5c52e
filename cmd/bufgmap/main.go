// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command bufgmap inserts global clock buffers into a Yosys JSON netlist of
// Xilinx primitives.
//
//	bufgmap [--pad] [--select PATTERN]... [-j N] [-o OUT] INPUT.json
//	bufgmap check INPUT.json
//
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
