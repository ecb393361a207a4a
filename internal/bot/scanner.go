package bot

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"statarb/internal/market"
	"statarb/internal/models"
	"statarb/internal/quant"
)

// ============ SCANNER: поиск пар ============
//
// Scanner строит watchlist с нуля: вселенная инструментов,
// фильтр ликвидности и blacklist, комбинации внутри сектора
// (плюс ограниченные кросс-секторные), оценка fitness, ранжирование
// по conviction и часовое профилирование возвратов для избранных.
//
// Публикация защищает позиции: пара с открытой позицией никогда
// не удаляется из watchlist, даже если выпала из топа.

// ScannerConfig - параметры сканирования вселенной
type ScannerConfig struct {
	MinVolume24h        float64       // минимальный 24h оборот, USDT
	MinOpenInterest     float64       // минимальный открытый интерес, USDT
	TopLiquidPerSector  int           // K самых ликвидных для кросс-секторных комбинаций
	TopPerSector        int           // N лучших пар на сектор
	TopCrossSector      int           // M лучших кросс-секторных пар
	MinCorrelation      float64       // порог корреляции внутри сектора
	CrossMinCorrelation float64       // повышенный порог для кросс-секторных
	MaxHalfLifeDays     float64       // потолок half-life
	HistoryDepth        int           // дневных свечей на инструмент
	HourlyDepth         int           // часовых свечей для профиля
	ZWindow             int           // окно z-score
	InterCallDelay      time.Duration // пауза между запросами свечей
}

// DefaultScannerConfig возвращает параметры по умолчанию
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		MinVolume24h:        20_000_000,
		MinOpenInterest:     5_000_000,
		TopLiquidPerSector:  3,
		TopPerSector:        3,
		TopCrossSector:      2,
		MinCorrelation:      0.7,
		CrossMinCorrelation: 0.8,
		MaxHalfLifeDays:     30,
		HistoryDepth:        90,
		HourlyDepth:         240,
		ZWindow:             quant.DefaultZWindow,
		InterCallDelay:      150 * time.Millisecond,
	}
}

// Scanner ищет и публикует пары-кандидаты
type Scanner struct {
	market    market.MarketData
	watchlist WatchlistStore
	positions PositionStore
	blacklist BlacklistStore
	notifier  Notifier
	cfg       ScannerConfig
}

// NewScanner создаёт сканер с внедрёнными зависимостями
func NewScanner(md market.MarketData, wl WatchlistStore, ps PositionStore, bl BlacklistStore, n Notifier, cfg ScannerConfig) *Scanner {
	if n == nil {
		n = NopNotifier{}
	}
	return &Scanner{
		market:    md,
		watchlist: wl,
		positions: ps,
		blacklist: bl,
		notifier:  n,
		cfg:       cfg,
	}
}

// pairCandidate - комбинация до оценки
type pairCandidate struct {
	asset1, asset2 string
	sector         string
	crossSector    bool
}

// scoredPair - кандидат, прошедший фильтры fitness
type scoredPair struct {
	pairCandidate
	fitness *models.PairFitness
}

// RunScan выполняет полное сканирование вселенной
func (s *Scanner) RunScan(ctx context.Context) error {
	start := time.Now()

	instruments, err := s.market.GetInstruments(ctx)
	if err != nil {
		return fmt.Errorf("scanner: fetch universe: %w", err)
	}
	blocked, err := s.blockedSymbols()
	if err != nil {
		return fmt.Errorf("scanner: load blacklist: %w", err)
	}

	universe := s.filterUniverse(instruments, blocked)
	log.Printf("[scanner] universe: %d instruments (%d before filters)", len(universe), len(instruments))

	candidates := s.buildCandidates(universe)
	prices := s.fetchPrices(ctx, candidates)

	scored := s.evaluateCandidates(ctx, candidates, prices)
	selected := s.rank(scored)

	published, err := s.publish(ctx, selected)
	if err != nil {
		return err
	}

	ScanSelected.Set(float64(published))
	ScanDuration.Observe(time.Since(start).Seconds())
	log.Printf("[scanner] scan complete: %d candidates, %d passed filters, %d published (%.1fs)",
		len(candidates), len(scored), published, time.Since(start).Seconds())
	s.notifier.Notify(models.Notification{
		Timestamp: time.Now(),
		Type:      models.NotificationTypeScan,
		Severity:  models.SeverityInfo,
		Message: fmt.Sprintf("Сканирование завершено: %d пар в watchlist из %d кандидатов",
			published, len(candidates)),
	})
	return nil
}

func (s *Scanner) blockedSymbols() (map[string]bool, error) {
	entries, err := s.blacklist.GetAll()
	if err != nil {
		return nil, err
	}
	blocked := make(map[string]bool, len(entries))
	for _, e := range entries {
		blocked[strings.ToUpper(e.Asset)] = true
	}
	return blocked, nil
}

// filterUniverse отбрасывает неликвидные и исключённые инструменты
func (s *Scanner) filterUniverse(instruments []models.Instrument, blocked map[string]bool) []models.Instrument {
	out := make([]models.Instrument, 0, len(instruments))
	for _, inst := range instruments {
		if blocked[strings.ToUpper(inst.Symbol)] {
			continue
		}
		if inst.Volume24h < s.cfg.MinVolume24h || inst.OpenInterest < s.cfg.MinOpenInterest {
			continue
		}
		out = append(out, inst)
	}
	return out
}

// buildCandidates строит комбинации: все пары внутри сектора
// плюс кросс-секторные между top-K самых ликвидных каждого сектора
func (s *Scanner) buildCandidates(universe []models.Instrument) []pairCandidate {
	bySector := make(map[string][]models.Instrument)
	for _, inst := range universe {
		bySector[inst.Sector] = append(bySector[inst.Sector], inst)
	}

	var candidates []pairCandidate

	for sector, insts := range bySector {
		for i := 0; i < len(insts); i++ {
			for j := i + 1; j < len(insts); j++ {
				candidates = append(candidates, pairCandidate{
					asset1: insts[i].Symbol,
					asset2: insts[j].Symbol,
					sector: sector,
				})
				ScanCandidates.WithLabelValues("same_sector").Inc()
			}
		}
	}

	// Кросс-секторные: только самые ликвидные, чтобы комбинаторика
	// не взорвала бюджет запросов
	var liquid []models.Instrument
	for _, insts := range bySector {
		sorted := make([]models.Instrument, len(insts))
		copy(sorted, insts)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Volume24h > sorted[j].Volume24h })
		k := s.cfg.TopLiquidPerSector
		if k > len(sorted) {
			k = len(sorted)
		}
		liquid = append(liquid, sorted[:k]...)
	}
	for i := 0; i < len(liquid); i++ {
		for j := i + 1; j < len(liquid); j++ {
			if liquid[i].Sector == liquid[j].Sector {
				continue
			}
			candidates = append(candidates, pairCandidate{
				asset1:      liquid[i].Symbol,
				asset2:      liquid[j].Symbol,
				sector:      liquid[i].Sector + "/" + liquid[j].Sector,
				crossSector: true,
			})
			ScanCandidates.WithLabelValues("cross_sector").Inc()
		}
	}
	return candidates
}

// fetchPrices загружает дневные ряды всех участвующих инструментов.
// Сбой загрузки одного инструмента исключает только его пары.
func (s *Scanner) fetchPrices(ctx context.Context, candidates []pairCandidate) map[string][]float64 {
	symbols := make(map[string]bool)
	for _, c := range candidates {
		symbols[c.asset1] = true
		symbols[c.asset2] = true
	}

	prices := make(map[string][]float64, len(symbols))
	for symbol := range symbols {
		if ctx.Err() != nil {
			return prices
		}
		candles, err := s.market.GetCandles(ctx, symbol, models.IntervalDay, s.cfg.HistoryDepth)
		if err != nil {
			log.Printf("[scanner] %s: skip: %v", symbol, err)
			continue
		}
		prices[symbol] = models.Closes(candles)

		if s.cfg.InterCallDelay > 0 {
			select {
			case <-ctx.Done():
				return prices
			case <-time.After(s.cfg.InterCallDelay):
			}
		}
	}
	return prices
}

// evaluateCandidates считает fitness и применяет фильтры отбора
func (s *Scanner) evaluateCandidates(ctx context.Context, candidates []pairCandidate, prices map[string][]float64) []scoredPair {
	var scored []scoredPair
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		p1, ok1 := prices[c.asset1]
		p2, ok2 := prices[c.asset2]
		if !ok1 || !ok2 {
			continue
		}
		a1, a2 := alignTails(p1, p2)
		if len(a1) <= s.cfg.ZWindow {
			continue
		}

		fitness, err := quant.Evaluate(a1, a2, quant.EvalConfig{ZWindow: s.cfg.ZWindow})
		if err != nil {
			continue
		}
		if !s.passesGates(c, fitness) {
			continue
		}
		ConvictionObserved.Observe(fitness.Conviction)
		scored = append(scored, scoredPair{pairCandidate: c, fitness: fitness})
	}
	return scored
}

// passesGates - минимальные требования к кандидату
func (s *Scanner) passesGates(c pairCandidate, f *models.PairFitness) bool {
	minCorr := s.cfg.MinCorrelation
	if c.crossSector {
		minCorr = s.cfg.CrossMinCorrelation
	}
	if f.Correlation < minCorr {
		return false
	}
	if !f.IsCointegrated {
		return false
	}
	if !f.HalfLife.Valid || f.HalfLife.Days > s.cfg.MaxHalfLifeDays {
		return false
	}
	if !f.Hurst.Valid || f.Hurst.Exponent >= 0.5 {
		return false
	}
	return true
}

// rank отбирает top-N пар на сектор и top-M кросс-секторных
func (s *Scanner) rank(scored []scoredPair) []scoredPair {
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].fitness.Conviction > scored[j].fitness.Conviction
	})

	perSector := make(map[string]int)
	crossTaken := 0
	var selected []scoredPair
	for _, sp := range scored {
		if sp.crossSector {
			if crossTaken >= s.cfg.TopCrossSector {
				continue
			}
			crossTaken++
		} else {
			if perSector[sp.sector] >= s.cfg.TopPerSector {
				continue
			}
			perSector[sp.sector]++
		}
		selected = append(selected, sp)
	}
	return selected
}

// publish записывает отобранные пары в watchlist и удаляет устаревшие.
// Для каждой избранной пары строится часовой профиль возвратов:
// он задаёт optimalEntry и худшую историческую дивергенцию.
func (s *Scanner) publish(ctx context.Context, selected []scoredPair) (int, error) {
	existing, err := s.watchlist.GetAll()
	if err != nil {
		return 0, fmt.Errorf("scanner: load watchlist: %w", err)
	}
	open, err := s.positions.GetAll()
	if err != nil {
		return 0, fmt.Errorf("scanner: load positions: %w", err)
	}
	hasPosition := make(map[string]bool, len(open))
	for _, p := range open {
		hasPosition[p.PairSymbol] = true
	}

	published := 0
	keep := make(map[string]bool, len(selected))
	for _, sp := range selected {
		entry := &models.WatchlistEntry{
			PairSymbol:     models.PairKey(sp.asset1, sp.asset2),
			Asset1:         sp.asset1,
			Asset2:         sp.asset2,
			Sector:         sp.sector,
			CrossSector:    sp.crossSector,
			EntryThreshold: models.DefaultEntryThreshold,
			ExitThreshold:  models.DefaultExitThreshold,
			InitialBeta:    sp.fitness.Beta,
			Fitness:        *sp.fitness,
			MaxHistoricalZ: sp.fitness.ZScore,
		}
		if entry.MaxHistoricalZ < 0 {
			entry.MaxHistoricalZ = -entry.MaxHistoricalZ
		}

		s.applyHourlyProfile(ctx, entry)
		keep[entry.PairSymbol] = true

		if err := s.watchlist.Upsert(entry); err != nil {
			log.Printf("[scanner] %s: upsert: %v", entry.PairSymbol, err)
			continue
		}
		published++
	}

	// Устаревшие записи: выпали из отбора и не обеспечивают позицию
	for _, e := range existing {
		if keep[e.PairSymbol] || hasPosition[e.PairSymbol] {
			continue
		}
		if err := s.watchlist.Delete(e.PairSymbol); err != nil {
			log.Printf("[scanner] %s: delete stale: %v", e.PairSymbol, err)
		}
	}
	return published, nil
}

// applyHourlyProfile настраивает entry threshold по часовому профилю.
// Сбой профилирования оставляет дефолтный порог: пара публикуется,
// но входит по консервативному значению.
func (s *Scanner) applyHourlyProfile(ctx context.Context, entry *models.WatchlistEntry) {
	c1, err := s.market.GetCandles(ctx, entry.Asset1, models.IntervalHour, s.cfg.HourlyDepth)
	if err != nil {
		log.Printf("[scanner] %s: hourly candles: %v", entry.Asset1, err)
		return
	}
	c2, err := s.market.GetCandles(ctx, entry.Asset2, models.IntervalHour, s.cfg.HourlyDepth)
	if err != nil {
		log.Printf("[scanner] %s: hourly candles: %v", entry.Asset2, err)
		return
	}
	p1, p2 := alignTails(models.Closes(c1), models.Closes(c2))

	beta, err := quant.Beta(p1, p2)
	if err != nil {
		return
	}
	spread, err := quant.LogSpread(p1, p2, beta)
	if err != nil {
		return
	}
	zs, err := quant.ZScoreSeries(spread, s.cfg.ZWindow)
	if err != nil {
		return
	}

	profile := quant.ProfileReversion(zs)
	entry.EntryThreshold = profile.OptimalEntry
	if profile.MaxAbsZ > entry.MaxHistoricalZ {
		entry.MaxHistoricalZ = profile.MaxAbsZ
	}
}
