package service

import (
	"context"

	"statarb/internal/bot"
	"statarb/internal/models"
	"statarb/internal/repository"
)

// WatchlistRepositoryInterface определяет интерфейс репозитория watchlist
type WatchlistRepositoryInterface interface {
	Upsert(entry *models.WatchlistEntry) error
	GetAll() ([]*models.WatchlistEntry, error)
	GetBySymbol(pairSymbol string) (*models.WatchlistEntry, error)
	Delete(pairSymbol string) error
	Count() (int, error)
}

// PositionRepositoryInterface определяет интерфейс репозитория позиций
type PositionRepositoryInterface interface {
	Create(p *models.Position) error
	GetBySymbol(pairSymbol string) (*models.Position, error)
	GetAll() ([]*models.Position, error)
	Update(p *models.Position) error
	CloseWithHistory(p *models.Position, record *models.HistoryRecord) error
	Count() (int, error)
}

// HistoryRepositoryInterface определяет интерфейс репозитория истории
type HistoryRepositoryInterface interface {
	GetRecent(limit int) ([]*models.HistoryRecord, error)
	GetByPair(pairSymbol string) ([]*models.HistoryRecord, error)
	GetStats() (*models.Stats, error)
	Count() (int, error)
}

// BlacklistRepositoryInterface определяет интерфейс репозитория черного списка
type BlacklistRepositoryInterface interface {
	Create(entry *models.BlacklistEntry) error
	GetAll() ([]*models.BlacklistEntry, error)
	Exists(asset string) (bool, error)
	Delete(asset string) error
	Count() (int, error)
}

// TradeEngine - примитивы входа/выхода монитора. Командный интерфейс
// обязан переиспользовать их, а не параллельную реализацию PnL
type TradeEngine interface {
	EvaluatePair(ctx context.Context, asset1, asset2 string) (*bot.PairSnapshot, error)
	OpenFromEntry(ctx context.Context, entry *models.WatchlistEntry, snap *bot.PairSnapshot, open []*models.Position) (*models.Position, error)
	ClosePosition(ctx context.Context, pos *models.Position, reason string) (*models.HistoryRecord, error)
}

// ============ Интерфейсы сервисов для API handlers ============

// WatchlistServiceInterface определяет интерфейс сервиса watchlist
type WatchlistServiceInterface interface {
	GetWatchlist() ([]*models.WatchlistEntry, error)
	GetPair(pairSymbol string) (*models.WatchlistEntry, error)
	GetCount() (int, error)
}

// TradeServiceInterface определяет интерфейс торгового сервиса
type TradeServiceInterface interface {
	GetPositions() ([]*models.Position, error)
	GetPosition(pairSymbol string) (*models.Position, error)
	ForceEnter(ctx context.Context, pairSymbol string) (*models.Position, error)
	ForceExit(ctx context.Context, pairSymbol string) (*models.HistoryRecord, error)
	GetHistory(limit int) ([]*models.HistoryRecord, error)
	GetHistoryByPair(pairSymbol string) ([]*models.HistoryRecord, error)
}

// StatsServiceInterface определяет интерфейс сервиса статистики
type StatsServiceInterface interface {
	GetStats() (*models.Stats, error)
}

// NotificationServiceInterface определяет интерфейс сервиса уведомлений
type NotificationServiceInterface interface {
	GetRecent(limit int) []models.Notification
	GetByType(types []string, limit int) []models.Notification
	Clear()
	Count() int
}

// BlacklistServiceInterface определяет интерфейс сервиса черного списка
type BlacklistServiceInterface interface {
	AddToBlacklist(asset, reason string) (*models.BlacklistEntry, error)
	GetBlacklist() ([]*models.BlacklistEntry, error)
	RemoveFromBlacklist(asset string) error
	IsBlacklisted(asset string) (bool, error)
	GetCount() (int, error)
}

// Проверяем, что реальные реализации соответствуют интерфейсам
var _ WatchlistRepositoryInterface = (*repository.WatchlistRepository)(nil)
var _ PositionRepositoryInterface = (*repository.PositionRepository)(nil)
var _ HistoryRepositoryInterface = (*repository.HistoryRepository)(nil)
var _ BlacklistRepositoryInterface = (*repository.BlacklistRepository)(nil)
var _ TradeEngine = (*bot.Monitor)(nil)

var _ WatchlistServiceInterface = (*WatchlistService)(nil)
var _ TradeServiceInterface = (*TradeService)(nil)
var _ StatsServiceInterface = (*StatsService)(nil)
var _ NotificationServiceInterface = (*NotificationService)(nil)
var _ BlacklistServiceInterface = (*BlacklistService)(nil)
