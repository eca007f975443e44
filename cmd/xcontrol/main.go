// Package main provides the xcontrol CLI: compute control limits, render charts with the
// goal/control overlay and export the limits table.
package main

import (
	"os"

	"github.com/iafilius/xcontrol/src/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
