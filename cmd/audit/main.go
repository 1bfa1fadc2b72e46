package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/infrastructure/database/postgres"
	"github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads"
	"github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads/adsclient"
	"github.com/vfg2006/conversion-audit/infrastructure/mailer"
	"github.com/vfg2006/conversion-audit/infrastructure/repository"
	"github.com/vfg2006/conversion-audit/internal/api"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/scheduler"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing"
	"github.com/vfg2006/conversion-audit/internal/usecases/authenticating"
	"github.com/vfg2006/conversion-audit/internal/usecases/reporting"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
	"github.com/vfg2006/conversion-audit/pkg/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	configureLogger(cfg.App)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(metrics.Namespace, prometheus.DefaultRegisterer)

	source, closeSource := dataSource(ctx, cfg, m)
	defer closeSource()

	renderer, err := reporting.NewRenderer()
	if err != nil {
		logrus.Fatal(err)
	}

	auditService := auditing.NewService(cfg, source, renderer, mailer.New(cfg.Email), m)

	// Sem servidor e sem agendamento o processo executa uma única auditoria
	if !cfg.Server.Enabled && !cfg.AuditSchedule.Enabled {
		if err := runOnce(ctx, auditService); err != nil {
			closeSource()
			os.Exit(1)
		}
		return
	}

	auditScheduler := scheduler.NewConversionAuditService(auditService, cfg)
	if err := auditScheduler.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao iniciar o agendador da auditoria de conversões")
	}
	logrus.Info("Agendador da auditoria de conversões iniciado com sucesso")

	if !cfg.Server.Enabled {
		waitForSignal(ctx)
		return
	}

	server, err := api.New(
		cfg,
		auditService,
		auditScheduler,
		authenticating.NewService(cfg),
		prometheus.DefaultGatherer,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger aplica o nível de log e, se configurado, grava também em arquivo rotativo
func configureLogger(app config.App) {
	logLevel, err := logrus.ParseLevel(app.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", app.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	if app.LogFile == "" {
		return
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   app.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // dias
		Compress:   true,
	}))
	logrus.WithField("file", app.LogFile).Info("Logs gravados também em arquivo")
}

// dataSource escolhe o backend de relatórios conforme DATA_SOURCE
func dataSource(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (auditing.DataSource, func()) {
	switch cfg.DataSource {
	case config.DataSourceWarehouse:
		conn := pgconn(ctx, cfg.Database)
		return repository.NewReportWarehouse(conn, cfg.Database.TablePrefix, m), func() { _ = conn.Close() }
	default:
		tokenManager := adsclient.NewTokenManager(cfg.GoogleAds, nil)
		client := adsclient.NewClient(cfg.GoogleAds, tokenManager)
		logrus.WithField("customer_id", cfg.GoogleAds.CustomerID).Info("Usando a API do Google Ads como fonte de dados")
		return googleads.New(client, m), func() {}
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func runOnce(ctx context.Context, auditor auditing.Auditor) error {
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID, err := utils.GenerateID()
	if err != nil {
		return err
	}

	if err := auditor.Run(auditing.WithRunID(runCtx, runID)); err != nil {
		logrus.WithError(err).Error("Auditoria de conversões finalizada com erro")
		return err
	}
	return nil
}

func waitForSignal(ctx context.Context) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
	}
}
