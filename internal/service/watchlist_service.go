package service

import (
	"errors"
	"strings"

	"statarb/internal/models"
)

// Ошибки сервиса watchlist
var (
	ErrWatchlistPairEmpty    = errors.New("pair symbol cannot be empty")
	ErrWatchlistPairNotFound = errors.New("pair not found in watchlist")
)

// WatchlistService предоставляет доступ к watchlist для чтения.
//
// Watchlist принадлежит сканеру и монитору: API никогда не пишет
// в него напрямую, только читает снимки метрик.
type WatchlistService struct {
	watchlistRepo WatchlistRepositoryInterface
}

// NewWatchlistService создает новый экземпляр WatchlistService
func NewWatchlistService(watchlistRepo WatchlistRepositoryInterface) *WatchlistService {
	return &WatchlistService{watchlistRepo: watchlistRepo}
}

// GetWatchlist возвращает все пары-кандидаты
func (s *WatchlistService) GetWatchlist() ([]*models.WatchlistEntry, error) {
	return s.watchlistRepo.GetAll()
}

// GetPair возвращает метрики одной пары
func (s *WatchlistService) GetPair(pairSymbol string) (*models.WatchlistEntry, error) {
	pairSymbol = strings.TrimSpace(pairSymbol)
	if pairSymbol == "" {
		return nil, ErrWatchlistPairEmpty
	}
	entry, err := s.watchlistRepo.GetBySymbol(pairSymbol)
	if err != nil {
		return nil, ErrWatchlistPairNotFound
	}
	return entry, nil
}

// GetCount возвращает размер watchlist
func (s *WatchlistService) GetCount() (int, error) {
	return s.watchlistRepo.Count()
}
