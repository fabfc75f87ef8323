package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/chaintracker/infrastructure/config"
	"github.com/kaspanet/chaintracker/infrastructure/logger"
	"github.com/kaspanet/chaintracker/infrastructure/os/signal"
	"github.com/kaspanet/chaintracker/util/panics"
	"github.com/kaspanet/chaintracker/version"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log, "main", nil)

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	logger.InitLog(cfg.LogFile, cfg.ErrLogFile)
	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting log levels: %s\n", err)
		logger.BackendLog.Close()
		os.Exit(1)
	}

	log.Infof("Version %s", version.Version())

	interrupt := signal.InterruptListener()
	ctx, cancel := signal.WithInterrupt(context.Background(), interrupt)
	err = run(ctx, cfg)
	cancel()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error replaying %s: %+v", cfg.HeadersFile, err))
	}
	logger.BackendLog.Close()
}
