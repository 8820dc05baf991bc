// Package main is the entry point for the BudgetWise server: a personal
// finance ledger with expense tracking, a profile-setup wizard, market
// watchlists and sentiment-driven trade recommendations.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/budgetwise/internal/clientdata"
	"github.com/aristath/budgetwise/internal/clients/googlenews"
	"github.com/aristath/budgetwise/internal/clients/yahoo"
	"github.com/aristath/budgetwise/internal/config"
	"github.com/aristath/budgetwise/internal/database"
	"github.com/aristath/budgetwise/internal/modules/advice"
	advicehandlers "github.com/aristath/budgetwise/internal/modules/advice/handlers"
	"github.com/aristath/budgetwise/internal/modules/advisor"
	advisorhandlers "github.com/aristath/budgetwise/internal/modules/advisor/handlers"
	"github.com/aristath/budgetwise/internal/modules/expenses"
	expensehandlers "github.com/aristath/budgetwise/internal/modules/expenses/handlers"
	"github.com/aristath/budgetwise/internal/modules/profile"
	profilehandlers "github.com/aristath/budgetwise/internal/modules/profile/handlers"
	"github.com/aristath/budgetwise/internal/modules/sentiment"
	"github.com/aristath/budgetwise/internal/modules/settings"
	settingshandlers "github.com/aristath/budgetwise/internal/modules/settings/handlers"
	"github.com/aristath/budgetwise/internal/modules/watchlist"
	watchlisthandlers "github.com/aristath/budgetwise/internal/modules/watchlist/handlers"
	"github.com/aristath/budgetwise/internal/reliability"
	"github.com/aristath/budgetwise/internal/scheduler"
	"github.com/aristath/budgetwise/internal/server"
	"github.com/aristath/budgetwise/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting BudgetWise")

	// Three-database layout: durable financial records, settings, API cache.
	budgetDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "budget.db"),
		Profile: database.ProfileLedger,
		Name:    "budget",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open budget database")
	}
	defer budgetDB.Close()

	configDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "config.db"),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config database")
	}
	defer configDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{budgetDB, configDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Migration failed")
		}
	}

	// Repositories
	settingsRepo := settings.NewRepository(configDB.Conn(), log)
	expensesRepo := expenses.NewRepository(budgetDB.Conn(), log)
	profileRepo := profile.NewRepository(budgetDB.Conn(), log)
	tradeLogRepo := advisor.NewTradeLogRepository(budgetDB.Conn(), log)
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())

	// Settings stored in the database override environment credentials, so
	// keys can be rotated from the settings page without a restart.
	if err := cfg.UpdateFromSettings(settingsRepo); err != nil {
		log.Warn().Err(err).Msg("Failed to apply settings overrides, using environment values")
	}

	// Outbound clients
	yahooClient := yahoo.NewClient(cacheRepo, log)
	newsClient := googlenews.NewClient(cacheRepo, log)

	var scorer sentiment.Scorer = sentiment.LexicalScorer{}
	if cfg.SentimentServiceURL != "" {
		scorer = sentiment.NewServiceScorer(cfg.SentimentServiceURL, log)
		log.Info().Str("url", cfg.SentimentServiceURL).Msg("Using sentiment classification service")
	} else {
		log.Info().Msg("No sentiment service configured, using lexical scorer")
	}

	// Services
	adv := advisor.New(yahooClient, tradeLogRepo, log)
	advisorService := advisor.NewService(adv, newsClient, scorer, profileRepo, log)
	adviceService := advice.NewService(context.Background(), cfg.GeminiAPIKey, log)
	watchlistService := watchlist.NewService(yahooClient, settingsRepo, expensesRepo, log)
	wizardSessions := profile.NewSessionManager()

	// Background jobs
	sched := scheduler.New(log)

	cleanupJob := clientdata.NewCleanupJob(cacheRepo, log)
	refreshJob := watchlist.NewRefreshJob(yahooClient, watchlistService, log)

	backupService := reliability.NewBackupService(map[string]*database.DB{
		"budget": budgetDB,
		"config": configDB,
	}, filepath.Join(cfg.DataDir, "backups"), log)

	var cloudBackup *reliability.CloudBackupService
	retentionDays, _ := settingsRepo.GetInt("r2_backup_retention_days", 90)
	if enabled, _ := settingsRepo.GetBool("r2_backup_enabled", false); enabled {
		r2Cfg := loadR2Config(settingsRepo)
		r2Client, err := reliability.NewR2Client(context.Background(), r2Cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("Cloud backups disabled")
		} else {
			cloudBackup = reliability.NewCloudBackupService(r2Client, backupService, cfg.DataDir, log)
			log.Info().Msg("Cloud backups enabled")
		}
	}
	backupJob := reliability.NewBackupJob(backupService, cloudBackup, retentionDays, log)

	refreshMinutes, _ := settingsRepo.GetInt("job_quote_refresh_minutes", 15)
	maintenanceHour, _ := settingsRepo.GetInt("job_maintenance_hour", 3)

	if err := sched.AddJob(fmt.Sprintf("0 */%d * * * *", refreshMinutes), refreshJob); err != nil {
		log.Error().Err(err).Msg("Failed to schedule quote refresh")
	}
	if err := sched.AddJob("@hourly", cleanupJob); err != nil {
		log.Error().Err(err).Msg("Failed to schedule cache cleanup")
	}
	if err := sched.AddJob(fmt.Sprintf("0 0 %d * * *", maintenanceHour), backupJob); err != nil {
		log.Error().Err(err).Msg("Failed to schedule backups")
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	systemHandlers := server.NewSystemHandlers(log, cfg.DataDir, map[string]*database.DB{
		"budget": budgetDB,
		"config": configDB,
		"cache":  cacheDB,
	}, sched)
	systemHandlers.SetJobs(backupJob, refreshJob, cleanupJob)

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DevMode: cfg.DevMode,
		Modules: []server.RouteRegistrar{
			expensehandlers.NewHandler(expensesRepo, log),
			profilehandlers.NewHandler(profileRepo, wizardSessions, log),
			settingshandlers.NewHandler(settingsRepo, log),
			advisorhandlers.NewHandler(adv, advisorService, tradeLogRepo, log),
			advicehandlers.NewHandler(adviceService, expensesRepo, profileRepo, log),
			watchlisthandlers.NewHandler(watchlistService, log),
		},
		System: systemHandlers,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Port).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// loadR2Config reads the bucket credentials from settings.
func loadR2Config(repo *settings.Repository) reliability.R2Config {
	accountID, _ := repo.GetString("r2_account_id", "")
	accessKeyID, _ := repo.GetString("r2_access_key_id", "")
	secretAccessKey, _ := repo.GetString("r2_secret_access_key", "")
	bucket, _ := repo.GetString("r2_bucket_name", "")

	return reliability.R2Config{
		AccountID:       accountID,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		Bucket:          bucket,
	}
}
