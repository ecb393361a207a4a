package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"statarb/internal/bot"
	"statarb/internal/models"
)

// Ошибки торгового сервиса
var (
	ErrTradePairEmpty        = errors.New("pair symbol cannot be empty")
	ErrTradePairNotWatched   = errors.New("pair not found in watchlist")
	ErrTradePositionExists   = errors.New("position already open for pair")
	ErrTradePositionNotFound = errors.New("no open position for pair")
)

// TradeService - командный и читающий интерфейс над позициями.
//
// Принудительные вход и выход отображаются 1:1 на примитивы монитора:
// тот же допуск, те же веса ног, та же PnL-математика. Обходятся только
// количественные сигнальные условия - команда и есть сигнал оператора.
type TradeService struct {
	engine        TradeEngine
	watchlistRepo WatchlistRepositoryInterface
	positionRepo  PositionRepositoryInterface
	historyRepo   HistoryRepositoryInterface
}

// NewTradeService создает новый экземпляр TradeService
func NewTradeService(engine TradeEngine, wl WatchlistRepositoryInterface, ps PositionRepositoryInterface, hs HistoryRepositoryInterface) *TradeService {
	return &TradeService{
		engine:        engine,
		watchlistRepo: wl,
		positionRepo:  ps,
		historyRepo:   hs,
	}
}

// GetPositions возвращает все открытые позиции
func (s *TradeService) GetPositions() ([]*models.Position, error) {
	return s.positionRepo.GetAll()
}

// GetPosition возвращает открытую позицию пары
func (s *TradeService) GetPosition(pairSymbol string) (*models.Position, error) {
	pairSymbol = strings.TrimSpace(pairSymbol)
	if pairSymbol == "" {
		return nil, ErrTradePairEmpty
	}
	pos, err := s.positionRepo.GetBySymbol(pairSymbol)
	if err != nil {
		return nil, ErrTradePositionNotFound
	}
	return pos, nil
}

// ForceEnter принудительно открывает позицию по паре из watchlist.
// Пара должна быть в watchlist: без метрик обнаружения не из чего
// строить веса, порог и stop-loss.
func (s *TradeService) ForceEnter(ctx context.Context, pairSymbol string) (*models.Position, error) {
	pairSymbol = strings.TrimSpace(pairSymbol)
	if pairSymbol == "" {
		return nil, ErrTradePairEmpty
	}

	entry, err := s.watchlistRepo.GetBySymbol(pairSymbol)
	if err != nil {
		return nil, ErrTradePairNotWatched
	}
	if _, err := s.positionRepo.GetBySymbol(pairSymbol); err == nil {
		return nil, ErrTradePositionExists
	}

	snap, err := s.engine.EvaluatePair(ctx, entry.Asset1, entry.Asset2)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", pairSymbol, err)
	}
	open, err := s.positionRepo.GetAll()
	if err != nil {
		return nil, err
	}

	pos, err := s.engine.OpenFromEntry(ctx, entry, snap, open)
	if err != nil {
		if errors.Is(err, bot.ErrStateConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("open %s: %w", pairSymbol, err)
	}
	return pos, nil
}

// ForceExit принудительно закрывает позицию по текущим ценам
func (s *TradeService) ForceExit(ctx context.Context, pairSymbol string) (*models.HistoryRecord, error) {
	pairSymbol = strings.TrimSpace(pairSymbol)
	if pairSymbol == "" {
		return nil, ErrTradePairEmpty
	}

	pos, err := s.positionRepo.GetBySymbol(pairSymbol)
	if err != nil {
		return nil, ErrTradePositionNotFound
	}

	record, err := s.engine.ClosePosition(ctx, pos, models.ExitReasonForced)
	if err != nil {
		return nil, fmt.Errorf("close %s: %w", pairSymbol, err)
	}
	return record, nil
}

// GetHistory возвращает последние закрытые позиции
func (s *TradeService) GetHistory(limit int) ([]*models.HistoryRecord, error) {
	return s.historyRepo.GetRecent(limit)
}

// GetHistoryByPair возвращает историю одной пары
func (s *TradeService) GetHistoryByPair(pairSymbol string) ([]*models.HistoryRecord, error) {
	pairSymbol = strings.TrimSpace(pairSymbol)
	if pairSymbol == "" {
		return nil, ErrTradePairEmpty
	}
	return s.historyRepo.GetByPair(pairSymbol)
}
