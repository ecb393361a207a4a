package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"statarb/internal/models"
)

// Моки хранилищ и рынка для тестов движка.
// Потокобезопасны: engine-тесты запускают циклы в горутинах.

type memWatchlist struct {
	mu      sync.Mutex
	entries map[string]*models.WatchlistEntry
}

func newMemWatchlist() *memWatchlist {
	return &memWatchlist{entries: make(map[string]*models.WatchlistEntry)}
}

func (m *memWatchlist) Upsert(entry *models.WatchlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.PairSymbol] = &cp
	return nil
}

func (m *memWatchlist) GetAll() ([]*models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.WatchlistEntry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memWatchlist) GetBySymbol(pairSymbol string) (*models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[pairSymbol]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *e
	return &cp, nil
}

func (m *memWatchlist) Delete(pairSymbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, pairSymbol)
	return nil
}

type memPositions struct {
	mu        sync.Mutex
	positions map[string]*models.Position
	history   []*models.HistoryRecord
	createErr error // инъекция сбоя хранилища для Create
}

func newMemPositions() *memPositions {
	return &memPositions{positions: make(map[string]*models.Position)}
}

func (m *memPositions) Create(p *models.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.positions[p.PairSymbol]; ok {
		return errors.New("position exists")
	}
	cp := *p
	m.positions[p.PairSymbol] = &cp
	return nil
}

func (m *memPositions) GetBySymbol(pairSymbol string) (*models.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.positions[pairSymbol]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (m *memPositions) GetAll() ([]*models.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Position, 0, len(m.positions))
	for _, p := range m.positions {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPositions) Update(p *models.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.positions[p.PairSymbol]; !ok {
		return errors.New("not found")
	}
	cp := *p
	m.positions[p.PairSymbol] = &cp
	return nil
}

func (m *memPositions) CloseWithHistory(p *models.Position, record *models.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.positions[p.PairSymbol]; !ok {
		return errors.New("not found")
	}
	delete(m.positions, p.PairSymbol)
	cp := *record
	m.history = append(m.history, &cp)
	return nil
}

func (m *memPositions) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.positions), nil
}

type memBlacklist struct {
	entries []*models.BlacklistEntry
}

func (m *memBlacklist) GetAll() ([]*models.BlacklistEntry, error) {
	return m.entries, nil
}

// fakeMarket отдаёт заранее заданные свечи и цены.
// Ключ свечей: symbol + "/" + interval.
type fakeMarket struct {
	mu           sync.Mutex
	instruments  []models.Instrument
	candles      map[string][]models.Candle
	markPrices   map[string]float64
	candleErrs   map[string]error
	instrumentCalls int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		candles:    make(map[string][]models.Candle),
		markPrices: make(map[string]float64),
		candleErrs: make(map[string]error),
	}
}

func (f *fakeMarket) setCloses(symbol, interval string, closes []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	candles := make([]models.Candle, len(closes))
	base := time.Now().Add(-time.Duration(len(closes)) * 24 * time.Hour)
	for i, c := range closes {
		candles[i] = models.Candle{Timestamp: base.Add(time.Duration(i) * 24 * time.Hour), Close: c, Volume: 1000}
	}
	f.candles[symbol+"/"+interval] = candles
}

func (f *fakeMarket) GetInstruments(ctx context.Context) ([]models.Instrument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instrumentCalls++
	return f.instruments, nil
}

func (f *fakeMarket) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.candleErrs[symbol]; ok {
		return nil, err
	}
	candles, ok := f.candles[symbol+"/"+interval]
	if !ok {
		return nil, errors.New("no candles for " + symbol)
	}
	return candles, nil
}

func (f *fakeMarket) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	price, ok := f.markPrices[symbol]
	if !ok {
		return 0, errors.New("no mark price for " + symbol)
	}
	return price, nil
}

func (f *fakeMarket) GetName() string { return "fake" }
func (f *fakeMarket) Close() error    { return nil }

// captureNotifier записывает уведомления для проверок
type captureNotifier struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (c *captureNotifier) Notify(n models.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append(c.notifications, n)
}

func (c *captureNotifier) byType(t string) []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Notification
	for _, n := range c.notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
