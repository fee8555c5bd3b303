package main

import (
	"fmt"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	auditLogBufferSize   = 1000
	auditLogPollInterval = 10 * time.Millisecond
)

type logger struct {
	appLog    zerolog.Logger
	lookupLog zerolog.Logger
	reloadLog zerolog.Logger
	auditLog  zerolog.Logger
}

func (l *logger) LookupError(ip netip.Addr, name string, err error) {
	l.lookupLog.Warn().Str("provider", name).Stringer("ip", ip).Err(err).Msg("Cannot resolve a country, assume unknown")
}

func (l *logger) Blocked(record geolib.AuditRecord) {
	l.auditLog.Info().
		Stringer("ip", record.IP).
		Str("country", record.Country.String()).
		Stringer("mode", record.Mode).
		Bool("allow_unknown", record.AllowUnknown).
		Msg(record.String())
}

func (l *logger) ReloadStarted(path string) {
	l.reloadLog.Debug().Str("path", path).Msg("Configuration has changed")
}

func (l *logger) ReloadInfo(path string) {
	l.reloadLog.Info().Str("path", path).Msg("Configuration was reloaded")
}

func (l *logger) ReloadError(path string, err error) {
	l.reloadLog.Error().Str("path", path).Err(err).Msg("")
}

func newLogger(out, audit io.Writer) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &logger{
		appLog:    zerolog.New(out).With().Timestamp().Str("event_name", "app").Logger(),
		lookupLog: zerolog.New(out).With().Timestamp().Str("event_name", "lookup").Logger(),
		reloadLog: zerolog.New(out).With().Timestamp().Str("event_name", "reload").Logger(),
		auditLog:  zerolog.New(audit).With().Timestamp().Str("event_name", "audit").Logger(),
	}
}

type nopCloseWriter struct {
	io.Writer
}

// makeAuditWriter returns a non-blocking writer for audit records: they
// are written on a request path. If path is empty, stderr is used.
func makeAuditWriter(path string) io.WriteCloser {
	var dst io.Writer = nopCloseWriter{os.Stderr}

	if path != "" {
		dst = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
	}

	return diode.NewWriter(dst, auditLogBufferSize, auditLogPollInterval, func(missed int) {
		fmt.Fprintf(os.Stderr, "audit log has dropped %d messages\n", missed)
	})
}
