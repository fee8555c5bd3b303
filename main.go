package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var version = "dev"

var (
	app = kingpin.New(
		"geoipfilter",
		"Allow or deny IP addresses based on their country")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("GEOIPFILTER_DEBUG").
		Bool()
	auditLogPath = app.Flag("audit-log", "Path to the audit log of blocked addresses. Stderr by default.").
			Envar("GEOIPFILTER_AUDIT_LOG").
			String()
	metricsFile = app.Flag("metrics-file", "Write prometheus metrics into this file on exit.").
			Envar("GEOIPFILTER_METRICS_FILE").
			String()
	printStats = app.Flag("stats", "Print stats as JSON to stderr on exit.").
			Bool()

	checkCommand    = app.Command("check", "Evaluate given addresses and exit.")
	checkConfigPath = checkCommand.Arg("config-path", "Path to the config.").
			Required().
			ExistingFile()
	checkAddresses = checkCommand.Arg("address", "IP addresses to evaluate.").
			Required().
			Strings()

	streamCommand    = app.Command("stream", "Evaluate addresses from stdin, one per line. Config is reloaded on change.")
	streamConfigPath = streamCommand.Arg("config-path", "Path to the config.").
				Required().
				ExistingFile()
)

func main() {
	app.Version(version)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, cancel := makeRootContext()
	auditWriter := makeAuditWriter(*auditLogPath)
	log := newLogger(os.Stderr, auditWriter)
	stats := &geolib.Stats{}

	err := run(ctx, command, afero.NewOsFs(), log, stats)

	cancel()
	auditWriter.Close()

	if err == nil {
		err = finish(stats)
	}

	if err != nil {
		log.appLog.Error().Err(err).Msg("")
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, fs afero.Fs, log *logger, stats *geolib.Stats) error {
	switch command {
	case checkCommand.FullCommand():
		filter, err := loadFilter(fs, *checkConfigPath, log, stats)
		if err != nil {
			return err
		}

		defer filter.Close()

		return runCheck(ctx, os.Stdout, filter, *checkAddresses)
	case streamCommand.FullCommand():
		path := *streamConfigPath

		filter, err := loadFilter(fs, path, log, stats)
		if err != nil {
			return err
		}

		holder := &filterHolder{filter: filter}

		defer holder.Close()

		reload := makeReloader(holder, path, func() (*geolib.Filter, error) {
			return loadFilter(fs, path, log, stats)
		}, log)

		go func() {
			err := watchConfig(ctx, path, reload, func(err error) {
				log.ReloadError(path, err)
			})
			if err != nil {
				log.ReloadError(path, err)
			}
		}()

		return runStream(ctx, os.Stdin, os.Stdout, holder)
	}

	return fmt.Errorf("unknown command %s", command)
}

func finish(stats *geolib.Stats) error {
	if *printStats {
		encoder := json.NewEncoder(os.Stderr)

		if err := encoder.Encode(stats); err != nil {
			return fmt.Errorf("cannot encode stats: %w", err)
		}
	}

	if *metricsFile != "" {
		return writeMetrics(*metricsFile, stats)
	}

	return nil
}
