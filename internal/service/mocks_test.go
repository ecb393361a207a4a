package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"statarb/internal/bot"
	"statarb/internal/models"
	"statarb/internal/repository"
)

// Моки репозиториев и движка для тестов сервисов

type fakeWatchlistRepo struct {
	entries map[string]*models.WatchlistEntry
}

func newFakeWatchlistRepo() *fakeWatchlistRepo {
	return &fakeWatchlistRepo{entries: make(map[string]*models.WatchlistEntry)}
}

func (f *fakeWatchlistRepo) Upsert(entry *models.WatchlistEntry) error {
	f.entries[entry.PairSymbol] = entry
	return nil
}

func (f *fakeWatchlistRepo) GetAll() ([]*models.WatchlistEntry, error) {
	out := make([]*models.WatchlistEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeWatchlistRepo) GetBySymbol(pairSymbol string) (*models.WatchlistEntry, error) {
	e, ok := f.entries[pairSymbol]
	if !ok {
		return nil, repository.ErrWatchlistEntryNotFound
	}
	return e, nil
}

func (f *fakeWatchlistRepo) Delete(pairSymbol string) error {
	delete(f.entries, pairSymbol)
	return nil
}

func (f *fakeWatchlistRepo) Count() (int, error) { return len(f.entries), nil }

type fakePositionRepo struct {
	positions map[string]*models.Position
	history   []*models.HistoryRecord
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[string]*models.Position)}
}

func (f *fakePositionRepo) Create(p *models.Position) error {
	if _, ok := f.positions[p.PairSymbol]; ok {
		return repository.ErrPositionExists
	}
	f.positions[p.PairSymbol] = p
	return nil
}

func (f *fakePositionRepo) GetBySymbol(pairSymbol string) (*models.Position, error) {
	p, ok := f.positions[pairSymbol]
	if !ok {
		return nil, repository.ErrPositionNotFound
	}
	return p, nil
}

func (f *fakePositionRepo) GetAll() ([]*models.Position, error) {
	out := make([]*models.Position, 0, len(f.positions))
	for _, p := range f.positions {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePositionRepo) Update(p *models.Position) error {
	if _, ok := f.positions[p.PairSymbol]; !ok {
		return repository.ErrPositionNotFound
	}
	f.positions[p.PairSymbol] = p
	return nil
}

func (f *fakePositionRepo) CloseWithHistory(p *models.Position, record *models.HistoryRecord) error {
	if _, ok := f.positions[p.PairSymbol]; !ok {
		return repository.ErrPositionNotFound
	}
	delete(f.positions, p.PairSymbol)
	f.history = append(f.history, record)
	return nil
}

func (f *fakePositionRepo) Count() (int, error) { return len(f.positions), nil }

type fakeHistoryRepo struct {
	records []*models.HistoryRecord
	stats   *models.Stats
}

func (f *fakeHistoryRepo) GetRecent(limit int) ([]*models.HistoryRecord, error) {
	if limit <= 0 || limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func (f *fakeHistoryRepo) GetByPair(pairSymbol string) ([]*models.HistoryRecord, error) {
	var out []*models.HistoryRecord
	for _, r := range f.records {
		if r.PairSymbol == pairSymbol {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) GetStats() (*models.Stats, error) {
	if f.stats == nil {
		return &models.Stats{}, nil
	}
	return f.stats, nil
}

func (f *fakeHistoryRepo) Count() (int, error) { return len(f.records), nil }

type fakeBlacklistRepo struct {
	entries map[string]*models.BlacklistEntry
}

func newFakeBlacklistRepo() *fakeBlacklistRepo {
	return &fakeBlacklistRepo{entries: make(map[string]*models.BlacklistEntry)}
}

func (f *fakeBlacklistRepo) Create(entry *models.BlacklistEntry) error {
	key := strings.ToUpper(entry.Asset)
	if _, ok := f.entries[key]; ok {
		return repository.ErrBlacklistEntryExists
	}
	f.entries[key] = entry
	return nil
}

func (f *fakeBlacklistRepo) GetAll() ([]*models.BlacklistEntry, error) {
	out := make([]*models.BlacklistEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeBlacklistRepo) Exists(asset string) (bool, error) {
	_, ok := f.entries[strings.ToUpper(asset)]
	return ok, nil
}

func (f *fakeBlacklistRepo) Delete(asset string) error {
	key := strings.ToUpper(asset)
	if _, ok := f.entries[key]; !ok {
		return repository.ErrBlacklistEntryNotFound
	}
	delete(f.entries, key)
	return nil
}

func (f *fakeBlacklistRepo) Count() (int, error) { return len(f.entries), nil }

// fakeEngine записывает вызовы примитивов монитора
type fakeEngine struct {
	evaluateErr error
	openErr     error
	closeErr    error

	openedEntry *models.WatchlistEntry
	closedPos   *models.Position
	closeReason string
}

func (f *fakeEngine) EvaluatePair(ctx context.Context, asset1, asset2 string) (*bot.PairSnapshot, error) {
	if f.evaluateErr != nil {
		return nil, f.evaluateErr
	}
	return &bot.PairSnapshot{
		Fitness: &models.PairFitness{ZScore: 2.1, Beta: 0.8, Correlation: 0.9},
	}, nil
}

func (f *fakeEngine) OpenFromEntry(ctx context.Context, entry *models.WatchlistEntry, snap *bot.PairSnapshot, open []*models.Position) (*models.Position, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.openedEntry = entry
	return &models.Position{
		PairSymbol: entry.PairSymbol,
		State:      models.StateEntered,
		LongAsset:  entry.Asset2,
		ShortAsset: entry.Asset1,
	}, nil
}

func (f *fakeEngine) ClosePosition(ctx context.Context, pos *models.Position, reason string) (*models.HistoryRecord, error) {
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	f.closedPos = pos
	f.closeReason = reason
	return &models.HistoryRecord{
		PairSymbol: pos.PairSymbol,
		ExitReason: reason,
	}, nil
}

var errMockNetwork = errors.New("network down")

// fakeHub записывает широковещательные уведомления
type fakeHub struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (f *fakeHub) BroadcastNotification(n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}
