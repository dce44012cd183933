package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmhodges/clock"

	"p12expiry/internal/archive"
	"p12expiry/internal/config"
	"p12expiry/internal/expiry"
	"p12expiry/internal/logger"
	"p12expiry/internal/metrics"
	"p12expiry/internal/renderer"
	"p12expiry/pkg/models"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type app struct {
	source archive.Source
	clk    clock.Clock
	stdout io.Writer
	stderr io.Writer
}

// run performs one check and returns the process exit status. Expired and
// expiring certificates are not failures.
func (a *app) run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			config.Usage(a.stdout)
			return exitOK
		}
		fmt.Fprintf(a.stderr, "p12expiry: %v\n", err)
		config.Usage(a.stderr)
		return exitUsage
	}

	if cfg.ShowVersion {
		printVersion(a.stdout)
		return exitOK
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format, a.stderr)
	if err != nil {
		fmt.Fprintf(a.stderr, "p12expiry: failed to initialize logger: %v\n", err)
		return exitUsage
	}

	log.Debug("configuration loaded", slog.String("config", cfg.String()))

	if err := a.check(cfg, log); err != nil {
		fmt.Fprintf(a.stderr, "p12expiry: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func (a *app) check(cfg *config.Config, log *slog.Logger) error {
	loc, err := expiry.LoadZone(cfg.Check.TimeZone)
	if err != nil {
		return err
	}

	expiration, err := a.expiration(cfg)
	if err != nil {
		return err
	}

	expiration, now := expiry.InZone(loc, expiration, a.clk.Now())

	res, err := expiry.NewClassifier(cfg.Check.SoonDays).Check(expiration, now)
	if err != nil {
		return err
	}

	report := &models.Report{
		Archive:             cfg.Check.Path,
		ExpiresAt:           expiration,
		CheckedAt:           now,
		State:               res.State,
		SecondsToExpiration: res.SecondsToExpiration,
		DaysRemaining:       res.DaysRemaining,
	}

	log.Info("certificate checked",
		slog.String("archive", report.Archive),
		slog.String("state", report.State.String()),
		slog.Int("days_remaining", report.DaysRemaining),
		slog.Int64("seconds_to_expiration", report.SecondsToExpiration),
		slog.Time("expires", report.ExpiresAt))

	if cfg.Output.Debug {
		if err := renderer.RenderDebug(a.stdout, report, res); err != nil {
			return fmt.Errorf("write debug output: %w", err)
		}
	}

	if err := newRenderer(cfg).Render(a.stdout, report); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if cfg.Output.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(report)
		if err := rec.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return err
		}
		log.Debug("metrics written", slog.String("path", cfg.Output.MetricsFile))
	}

	return nil
}

// expiration returns the certificate's NotAfter, from the override when one
// was given and from the archive otherwise.
func (a *app) expiration(cfg *config.Config) (time.Time, error) {
	if cfg.Check.NotAfter != "" {
		return expiry.ParseNotAfter(cfg.Check.NotAfter)
	}
	return a.source.Expiration(cfg.Check.Path, cfg.Check.Passphrase)
}

func newRenderer(cfg *config.Config) renderer.Renderer {
	if cfg.Output.Format == config.OutputJSON {
		return renderer.NewJSONRenderer(cfg.Output.Quiet)
	}
	return renderer.NewTextRenderer(cfg.Output.Quiet)
}
