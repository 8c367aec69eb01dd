package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"3tcapital/nfe_dados/internal/adapters/export"
	healthhttp "3tcapital/nfe_dados/internal/adapters/http/health"
	lotehttp "3tcapital/nfe_dados/internal/adapters/http/lote"
	"3tcapital/nfe_dados/internal/adapters/regime/cnpja"
	apphealth "3tcapital/nfe_dados/internal/application/health"
	applote "3tcapital/nfe_dados/internal/application/lote"
	"3tcapital/nfe_dados/internal/infrastructure/config"
	infrahttp "3tcapital/nfe_dados/internal/infrastructure/http"
	"3tcapital/nfe_dados/internal/infrastructure/http/middleware"
	"3tcapital/nfe_dados/internal/infrastructure/http/server"
	"3tcapital/nfe_dados/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := infrahttp.NewClient(&infrahttp.ClientConfig{Timeout: cfg.CNPJA.Timeout})
	classificador := cnpja.NewClient(cfg.CNPJA.BaseURL, httpClient, cnpja.RetryConfig{
		MaxAttempts:    cfg.CNPJA.MaxTentativas,
		InitialBackoff: cfg.CNPJA.BackoffInicial,
		MaxBackoff:     cfg.CNPJA.BackoffMaximo,
		Multiplier:     2.0,
	}, log)

	loteService := applote.NewService(classificador, applote.Config{
		LimiteChaves: cfg.Processamento.LimiteChaves,
		Intervalo:    cfg.Processamento.Intervalo,
	}, log)

	healthService := apphealth.NewService(apphealth.Metadata{
		Service:      cfg.App.Name,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		Dependencies: []string{cfg.CNPJA.BaseURL},
	})

	auth, err := middleware.NewJWTAuthenticator(cfg.Auth, log)
	if err != nil {
		return fmt.Errorf("configure auth: %w", err)
	}
	defer auth.Close()

	loteHandler := lotehttp.NewHandler(loteService, export.Opcoes{
		IncluirCodigoDV: cfg.Export.IncluirCodigoDV,
	}, log)
	healthHandler := healthhttp.NewHandler(healthService)

	srv := server.New(cfg, log, auth, server.Handlers{
		Health:        healthHandler.Status,
		ProcessarLote: loteHandler.Processar,
		ExportarLote:  loteHandler.Exportar,
	})

	log.Info("service starting",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"cnpja_base_url", cfg.CNPJA.BaseURL,
		"limite_chaves", cfg.Processamento.LimiteChaves,
		"intervalo_consultas", cfg.Processamento.Intervalo.String())
	return srv.Run(ctx)
}
