package api

import (
	"net/http"
	"net/http/pprof"

	"statarb/internal/api/handlers"
	"statarb/internal/api/middleware"
	"statarb/internal/service"
	"statarb/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	WatchlistService    service.WatchlistServiceInterface
	TradeService        service.TradeServiceInterface
	StatsService        service.StatsServiceInterface
	NotificationService service.NotificationServiceInterface
	BlacklistService    service.BlacklistServiceInterface
	Hub                 *websocket.Hub
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута.
// Применяет middleware к группам маршрутов.
// Организует версионирование API (v1).
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /watchlist/
//	│   ├── GET /                        - пары-кандидаты с метриками
//	│   └── GET /{asset1}/{asset2}       - метрики одной пары
//	├── /positions/
//	│   ├── GET /                        - открытые позиции
//	│   ├── GET /{asset1}/{asset2}       - одна позиция
//	│   ├── POST /{asset1}/{asset2}/enter - принудительный вход
//	│   └── POST /{asset1}/{asset2}/exit  - принудительный выход
//	├── /history/
//	│   ├── GET /                        - закрытые позиции
//	│   └── GET /{asset1}/{asset2}       - история одной пары
//	├── /notifications/
//	│   ├── GET /                        - журнал событий
//	│   └── DELETE /                     - очистка журнала
//	├── /stats/
//	│   └── GET /                        - агрегированная статистика
//	└── /blacklist/
//	    ├── GET /                        - черный список
//	    ├── POST /                       - добавить инструмент
//	    └── DELETE /{asset}              - убрать инструмент
//
// /ws/stream  - WebSocket для real-time обновлений
// /metrics    - Prometheus метрики
// /health     - health check
// /debug/pprof - профилирование (за DebugAuth)
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// Создание handlers с внедрением зависимостей
	var watchlistHandler *handlers.WatchlistHandler
	if deps != nil && deps.WatchlistService != nil {
		watchlistHandler = handlers.NewWatchlistHandler(deps.WatchlistService)
	}

	var positionHandler *handlers.PositionHandler
	if deps != nil && deps.TradeService != nil {
		positionHandler = handlers.NewPositionHandler(deps.TradeService)
	}

	var statsHandler *handlers.StatsHandler
	if deps != nil && deps.StatsService != nil {
		statsHandler = handlers.NewStatsHandler(deps.StatsService)
	}

	var notificationHandler *handlers.NotificationHandler
	if deps != nil && deps.NotificationService != nil {
		notificationHandler = handlers.NewNotificationHandler(deps.NotificationService)
	}

	var blacklistHandler *handlers.BlacklistHandler
	if deps != nil && deps.BlacklistService != nil {
		blacklistHandler = handlers.NewBlacklistHandler(deps.BlacklistService)
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Watchlist routes
	if watchlistHandler != nil {
		api.HandleFunc("/watchlist", watchlistHandler.GetWatchlist).Methods("GET")
		api.HandleFunc("/watchlist/{asset1}/{asset2}", watchlistHandler.GetPair).Methods("GET")
	}

	// Position routes
	if positionHandler != nil {
		api.HandleFunc("/positions", positionHandler.GetPositions).Methods("GET")
		api.HandleFunc("/positions/{asset1}/{asset2}", positionHandler.GetPosition).Methods("GET")
		api.HandleFunc("/positions/{asset1}/{asset2}/enter", positionHandler.ForceEnter).Methods("POST")
		api.HandleFunc("/positions/{asset1}/{asset2}/exit", positionHandler.ForceExit).Methods("POST")
		api.HandleFunc("/history", positionHandler.GetHistory).Methods("GET")
		api.HandleFunc("/history/{asset1}/{asset2}", positionHandler.GetHistoryByPair).Methods("GET")
	}

	// Notification routes
	if notificationHandler != nil {
		api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
		api.HandleFunc("/notifications", notificationHandler.ClearNotifications).Methods("DELETE")
	}

	// Stats routes
	if statsHandler != nil {
		api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	}

	// Blacklist routes
	if blacklistHandler != nil {
		api.HandleFunc("/blacklist", blacklistHandler.GetBlacklist).Methods("GET")
		api.HandleFunc("/blacklist", blacklistHandler.AddToBlacklist).Methods("POST")
		api.HandleFunc("/blacklist/{asset}", blacklistHandler.RemoveFromBlacklist).Methods("DELETE")
	}

	// WebSocket route
	if deps != nil && deps.Hub != nil {
		hub := deps.Hub
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Профилирование за Basic Auth (DEBUG_USERNAME/DEBUG_PASSWORD)
	debug := router.PathPrefix("/debug/pprof").Subrouter()
	debug.Use(middleware.DebugAuth)
	debug.HandleFunc("", pprof.Index)
	debug.HandleFunc("/cmdline", pprof.Cmdline)
	debug.HandleFunc("/profile", pprof.Profile)
	debug.HandleFunc("/symbol", pprof.Symbol)
	debug.HandleFunc("/trace", pprof.Trace)
	debug.PathPrefix("/").Handler(http.HandlerFunc(pprof.Index))

	return router
}
