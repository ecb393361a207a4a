package service

import "statarb/internal/models"

// StatsService агрегирует торговую статистику из истории
type StatsService struct {
	historyRepo  HistoryRepositoryInterface
	positionRepo PositionRepositoryInterface
}

// NewStatsService создает новый экземпляр StatsService
func NewStatsService(hs HistoryRepositoryInterface, ps PositionRepositoryInterface) *StatsService {
	return &StatsService{historyRepo: hs, positionRepo: ps}
}

// GetStats возвращает агрегированную статистику.
// История дает закрытые сделки, пул позиций - текущую экспозицию.
func (s *StatsService) GetStats() (*models.Stats, error) {
	stats, err := s.historyRepo.GetStats()
	if err != nil {
		return nil, err
	}
	open, err := s.positionRepo.Count()
	if err != nil {
		return nil, err
	}
	stats.OpenPositions = open
	return stats, nil
}
