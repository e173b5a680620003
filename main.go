// Package main implements a verification harness for the sramgo serial
// SRAM driver, exercising it against a simulated chip loaded from an
// image file.
package main

import (
	"errors"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sramgo/internal/cli"
	"github.com/retroenv/sramgo/internal/config"
	"github.com/retroenv/sramgo/internal/harness"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := cli.ParseFlags()
	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			harness.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	harness.PrintBanner(logger, opts, version, commit, date)

	if err := harness.Run(logger, opts); err != nil {
		logger.Error("Processing failed", log.Err(err))
		os.Exit(1)
	}
}
