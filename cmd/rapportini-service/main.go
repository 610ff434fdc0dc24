package main

import (
	"fmt"
	"os"

	"github.com/cfs-facility/rapportini-service/internal/auth"
	"github.com/cfs-facility/rapportini-service/internal/config"
	"github.com/cfs-facility/rapportini-service/internal/db"
	"github.com/cfs-facility/rapportini-service/internal/excel"
	"github.com/cfs-facility/rapportini-service/internal/extract"
	httphandler "github.com/cfs-facility/rapportini-service/internal/http"
	"github.com/cfs-facility/rapportini-service/internal/http/middleware"
	"github.com/cfs-facility/rapportini-service/internal/logger"
	"github.com/cfs-facility/rapportini-service/internal/pdf"
	"github.com/cfs-facility/rapportini-service/internal/repository"
	"github.com/cfs-facility/rapportini-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	reportRepo := repository.NewReportRepository(database)
	flagRepo := repository.NewDayFlagRepository(database)
	composer := pdf.NewGenerator()
	recap := excel.NewGenerator()

	reportService := service.NewReportService(reportRepo, flagRepo, composer, recap)

	var extractor *extract.Extractor
	if cfg.Extract.APIKey != "" {
		extractor = extract.NewExtractor(cfg.Extract.APIKey, cfg.Extract.Model, log)
	} else {
		log.Warn().Msg("EXTRACT_API_KEY not set, smart extract disabled")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(reportService, extractor, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting rapportini service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
