package handlers

import (
	"context"
	"strings"
	"time"

	"statarb/internal/models"
	"statarb/internal/service"
)

// ============ Моки сервисов для тестов handlers ============

// MockWatchlistService - in-memory реализация WatchlistServiceInterface
type MockWatchlistService struct {
	entries map[string]*models.WatchlistEntry
}

func NewMockWatchlistService() *MockWatchlistService {
	return &MockWatchlistService{entries: make(map[string]*models.WatchlistEntry)}
}

func (m *MockWatchlistService) AddEntry(entry *models.WatchlistEntry) {
	m.entries[entry.PairSymbol] = entry
}

func (m *MockWatchlistService) GetWatchlist() ([]*models.WatchlistEntry, error) {
	out := make([]*models.WatchlistEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockWatchlistService) GetPair(pairSymbol string) (*models.WatchlistEntry, error) {
	e, ok := m.entries[pairSymbol]
	if !ok {
		return nil, service.ErrWatchlistPairNotFound
	}
	return e, nil
}

func (m *MockWatchlistService) GetCount() (int, error) { return len(m.entries), nil }

// MockTradeService - управляемая реализация TradeServiceInterface
type MockTradeService struct {
	positions map[string]*models.Position
	watched   map[string]bool
	history   []*models.HistoryRecord

	enterErr error
	exitErr  error
}

func NewMockTradeService() *MockTradeService {
	return &MockTradeService{
		positions: make(map[string]*models.Position),
		watched:   make(map[string]bool),
	}
}

func (m *MockTradeService) GetPositions() ([]*models.Position, error) {
	out := make([]*models.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockTradeService) GetPosition(pairSymbol string) (*models.Position, error) {
	p, ok := m.positions[pairSymbol]
	if !ok {
		return nil, service.ErrTradePositionNotFound
	}
	return p, nil
}

func (m *MockTradeService) ForceEnter(ctx context.Context, pairSymbol string) (*models.Position, error) {
	if m.enterErr != nil {
		return nil, m.enterErr
	}
	if !m.watched[pairSymbol] {
		return nil, service.ErrTradePairNotWatched
	}
	if _, ok := m.positions[pairSymbol]; ok {
		return nil, service.ErrTradePositionExists
	}
	pos := &models.Position{PairSymbol: pairSymbol, State: models.StateEntered}
	m.positions[pairSymbol] = pos
	return pos, nil
}

func (m *MockTradeService) ForceExit(ctx context.Context, pairSymbol string) (*models.HistoryRecord, error) {
	if m.exitErr != nil {
		return nil, m.exitErr
	}
	if _, ok := m.positions[pairSymbol]; !ok {
		return nil, service.ErrTradePositionNotFound
	}
	delete(m.positions, pairSymbol)
	record := &models.HistoryRecord{PairSymbol: pairSymbol, ExitReason: models.ExitReasonForced}
	m.history = append(m.history, record)
	return record, nil
}

func (m *MockTradeService) GetHistory(limit int) ([]*models.HistoryRecord, error) {
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	return m.history[:limit], nil
}

func (m *MockTradeService) GetHistoryByPair(pairSymbol string) ([]*models.HistoryRecord, error) {
	var out []*models.HistoryRecord
	for _, r := range m.history {
		if r.PairSymbol == pairSymbol {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockStatsService - фиксированная реализация StatsServiceInterface
type MockStatsService struct {
	stats *models.Stats
	err   error
}

func (m *MockStatsService) GetStats() (*models.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats == nil {
		return &models.Stats{}, nil
	}
	return m.stats, nil
}

// MockNotificationService - in-memory реализация NotificationServiceInterface
type MockNotificationService struct {
	notifications []models.Notification
	nextID        int
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{nextID: 1}
}

func (m *MockNotificationService) AddNotification(ntype, severity, message string) {
	m.notifications = append(m.notifications, models.Notification{
		ID:        m.nextID,
		Timestamp: time.Now(),
		Type:      ntype,
		Severity:  severity,
		Message:   message,
	})
	m.nextID++
}

func (m *MockNotificationService) GetRecent(limit int) []models.Notification {
	if limit <= 0 || limit > len(m.notifications) {
		limit = len(m.notifications)
	}
	out := make([]models.Notification, limit)
	copy(out, m.notifications[len(m.notifications)-limit:])
	return out
}

func (m *MockNotificationService) GetByType(types []string, limit int) []models.Notification {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []models.Notification
	for _, n := range m.notifications {
		if len(want) == 0 || want[n.Type] {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (m *MockNotificationService) Clear() { m.notifications = nil }

func (m *MockNotificationService) Count() int { return len(m.notifications) }

// MockBlacklistService - in-memory реализация BlacklistServiceInterface
type MockBlacklistService struct {
	entries map[string]*models.BlacklistEntry
}

func NewMockBlacklistService() *MockBlacklistService {
	return &MockBlacklistService{entries: make(map[string]*models.BlacklistEntry)}
}

func (m *MockBlacklistService) AddToBlacklist(asset, reason string) (*models.BlacklistEntry, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if asset == "" {
		return nil, service.ErrBlacklistAssetEmpty
	}
	if _, ok := m.entries[asset]; ok {
		return nil, service.ErrBlacklistAssetExists
	}
	entry := &models.BlacklistEntry{Asset: asset, Reason: strings.TrimSpace(reason)}
	m.entries[asset] = entry
	return entry, nil
}

func (m *MockBlacklistService) GetBlacklist() ([]*models.BlacklistEntry, error) {
	out := make([]*models.BlacklistEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockBlacklistService) RemoveFromBlacklist(asset string) error {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if _, ok := m.entries[asset]; !ok {
		return service.ErrBlacklistNotFound
	}
	delete(m.entries, asset)
	return nil
}

func (m *MockBlacklistService) IsBlacklisted(asset string) (bool, error) {
	_, ok := m.entries[strings.ToUpper(strings.TrimSpace(asset))]
	return ok, nil
}

func (m *MockBlacklistService) GetCount() (int, error) { return len(m.entries), nil }

// Проверяем соответствие интерфейсам
var _ service.WatchlistServiceInterface = (*MockWatchlistService)(nil)
var _ service.TradeServiceInterface = (*MockTradeService)(nil)
var _ service.StatsServiceInterface = (*MockStatsService)(nil)
var _ service.NotificationServiceInterface = (*MockNotificationService)(nil)
var _ service.BlacklistServiceInterface = (*MockBlacklistService)(nil)
