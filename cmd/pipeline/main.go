package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/valentinaclaros/evaluation-system/internal/auditstore"
	"github.com/valentinaclaros/evaluation-system/internal/config"
	"github.com/valentinaclaros/evaluation-system/internal/notify"
	"github.com/valentinaclaros/evaluation-system/internal/pipeline"
	"github.com/valentinaclaros/evaluation-system/internal/report"
	"github.com/valentinaclaros/evaluation-system/internal/rubric"
	"github.com/valentinaclaros/evaluation-system/internal/sentiment"
	"github.com/valentinaclaros/evaluation-system/internal/telephony"
	"github.com/valentinaclaros/evaluation-system/internal/transcription"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "path to config file")
	migrationsPath := flag.String("migrations", "migrations/audit", "path to audit migrations")
	schedule := flag.String("schedule", "", "cron spec; run once and exit when empty")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	secrets := config.LoadSecrets()

	if err := auditstore.ApplyMigrations(cfg.Database.AuditURL, *migrationsPath); err != nil {
		logger.WithError(err).Fatal("Failed to apply migrations")
	}

	store, err := auditstore.NewStore(cfg.Database.AuditURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to audit database")
	}
	defer store.Close()

	ruleset, err := loadRuleset(cfg.Pipeline.RulesetPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load ruleset")
	}

	p := pipeline.New(
		telephony.NewClient(cfg.Telephony.BaseURL, secrets.TelephonyAccountSID, secrets.TelephonyAuthToken),
		transcription.NewClient(cfg.Transcription.URL, cfg.Transcription.Language),
		store,
		rubric.NewEvaluator(ruleset),
		sentiment.NewClient(cfg.Sentiment.URL, logger),
		pipeline.Options{
			LookbackDays:        cfg.Telephony.LookbackDays,
			MinRecordingSeconds: cfg.Telephony.MinRecordingSeconds,
			BatchLimit:          cfg.Telephony.BatchLimit,
			Workers:             cfg.Pipeline.Workers,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func() {
		summary, err := p.Run(ctx)
		if err != nil {
			logger.WithError(err).Error("Pipeline run failed")
			return
		}
		if cfg.Report.Enabled && summary.Audited > 0 {
			exportReport(store, cfg, summary, logger)
		}
		if cfg.Notifier.Enabled && secrets.SlackToken != "" {
			notify.NewNotifier(secrets.SlackToken, cfg.Notifier.Channel, logger).
				NotifyFlagged(summary.RunID, summary.LowQuality)
		}
	}

	if *schedule == "" {
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, run); err != nil {
		logger.WithError(err).Fatal("Invalid cron spec")
	}
	c.Start()
	logger.WithField("schedule", *schedule).Info("Pipeline scheduler started")

	<-ctx.Done()
	logger.Info("Shutting down pipeline scheduler")
	<-c.Stop().Done()
}

func loadRuleset(path string) (rubric.Ruleset, error) {
	if path == "" {
		return rubric.DefaultRuleset(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return rubric.DefaultRuleset(), nil
	}
	return rubric.LoadRuleset(path)
}

func exportReport(store *auditstore.Store, cfg *config.Config, summary pipeline.Summary, logger *logrus.Logger) {
	since := time.Now().AddDate(0, 0, -cfg.Telephony.LookbackDays)
	results, err := store.AuditResultsSince(since)
	if err != nil {
		logger.WithError(err).Error("Failed to load audit results for report")
		return
	}
	exporter := report.NewExporter(cfg.Report.OutputDir, logger)
	if _, err := exporter.Export(results, summary.RunID); err != nil {
		logger.WithError(err).Error("Failed to export report")
	}
}
