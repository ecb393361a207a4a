package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statarb/internal/api"
	"statarb/internal/bot"
	"statarb/internal/config"
	"statarb/internal/market"
	"statarb/internal/repository"
	"statarb/internal/service"
	"statarb/internal/websocket"

	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация базы данных
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.DSNWithoutPassword())

	// Инициализация репозиториев
	watchlistRepo := repository.NewWatchlistRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)

	// Клиент рыночных данных
	var marketData market.MarketData
	if cfg.Market.BaseURL != "" {
		marketData = market.NewBybitWithBaseURL(cfg.Market.BaseURL, market.GetGlobalHTTPClient().GetClient())
	} else {
		marketData = market.NewBybit()
	}

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Уведомления идут в кольцевой буфер и broadcast клиентам
	notificationService := service.NewNotificationService(hub)

	// Торговый цикл
	monitorCfg := bot.DefaultMonitorConfig()
	monitorCfg.MaxPositions = cfg.Monitor.MaxPositions
	monitorCfg.MinCorrelation = cfg.Monitor.MinCorrelation
	monitorCfg.MaxHalfLifeDays = cfg.Monitor.MaxHalfLifeDays
	monitor := bot.NewMonitor(marketData, watchlistRepo, positionRepo, notificationService, monitorCfg)

	scannerCfg := bot.DefaultScannerConfig()
	scannerCfg.MinVolume24h = cfg.Scanner.MinVolume24h
	scannerCfg.MinOpenInterest = cfg.Scanner.MinOpenInterest
	scannerCfg.TopLiquidPerSector = cfg.Scanner.TopLiquidPerSector
	scannerCfg.TopPerSector = cfg.Scanner.TopPerSector
	scannerCfg.TopCrossSector = cfg.Scanner.TopCrossSector
	scannerCfg.MinCorrelation = cfg.Scanner.MinCorrelation
	scannerCfg.CrossMinCorrelation = cfg.Scanner.CrossMinCorrelation
	scannerCfg.MaxHalfLifeDays = cfg.Scanner.MaxHalfLifeDays
	scanner := bot.NewScanner(marketData, watchlistRepo, positionRepo, blacklistRepo, notificationService, scannerCfg)

	engine := bot.NewEngine(scanner, monitor, bot.EngineConfig{
		ScanInterval:    cfg.Engine.ScanInterval,
		MonitorInterval: cfg.Engine.MonitorInterval,
		ScanOnStart:     cfg.Engine.ScanOnStart,
	})

	engineCtx, engineCancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := engine.Run(engineCtx); err != nil && err != context.Canceled {
			log.Printf("Engine stopped: %v", err)
		}
	}()

	// Сервисы API
	watchlistService := service.NewWatchlistService(watchlistRepo)
	tradeService := service.NewTradeService(monitor, watchlistRepo, positionRepo, historyRepo)
	statsService := service.NewStatsService(historyRepo, positionRepo)
	blacklistService := service.NewBlacklistService(blacklistRepo)

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		WatchlistService:    watchlistService,
		TradeService:        tradeService,
		StatsService:        statsService,
		NotificationService: notificationService,
		BlacklistService:    blacklistService,
		Hub:                 hub,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed: %v", err)
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed: %v", err)
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Останавливаем торговый цикл и ждем завершения запущенных циклов
	engineCancel()
	select {
	case <-engineDone:
	case <-time.After(30 * time.Second):
		log.Println("Engine shutdown timed out")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
