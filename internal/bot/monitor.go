package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"statarb/internal/market"
	"statarb/internal/models"
	"statarb/internal/quant"
	"statarb/pkg/ratelimit"
)

// ============ MONITOR: торговый цикл ============
//
// Monitor - сердце движка. Каждый цикл он проходит watchlist,
// пересчитывает fitness каждой пары, обновляет открытые позиции
// и выполняет переходы state machine (вход, частичный/полный выход).
//
// Изоляция ошибок: сбой fetch или оценки одной пары пропускает
// только эту пару в этом цикле. Переход никогда не применяется
// частично: сначала мутация модели, затем одна запись в хранилище.

// Причины отклонения сигнала входа
const (
	ReasonBelowThreshold   = "below_threshold"
	ReasonLowCorrelation   = "low_correlation"
	ReasonNotCointegrated  = "not_cointegrated"
	ReasonHalfLifeTooLong  = "half_life_too_long"
	ReasonWeakConfirmation = "weak_confirmation"
	ReasonTrendingSpread   = "trending_spread"
	ReasonReversionWarning = "reversion_warning"
)

// ErrStateConflict - попытка входа по уже открытой паре
// или выхода из несуществующей позиции
var ErrStateConflict = errors.New("state conflict")

// Доля entry threshold для короткого подтверждающего окна
const confirmFraction = 0.8

// MonitorConfig - параметры торгового цикла
type MonitorConfig struct {
	MaxPositions     int           // ёмкость пула позиций
	ReactiveWindow   int           // окно z-score и корреляции (default 30)
	StructuralWindow int           // окно коинтеграции (default 90)
	ConfirmWindow    int           // короткое подтверждающее окно (default 7)
	MinCorrelation   float64       // минимальная корреляция для входа
	MaxHalfLifeDays  float64       // потолок half-life для входа
	HistoryDepth     int           // дневных свечей на пару
	HourlyDepth      int           // часовых свечей для профиля возвратов
	InterCallDelay   time.Duration // пауза между парами
}

// DefaultMonitorConfig возвращает параметры по умолчанию
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		MaxPositions:     10,
		ReactiveWindow:   quant.DefaultZWindow,
		StructuralWindow: 90,
		ConfirmWindow:    7,
		MinCorrelation:   0.6,
		MaxHalfLifeDays:  30,
		HistoryDepth:     90,
		HourlyDepth:      240,
		InterCallDelay:   200 * time.Millisecond,
	}
}

// PairSnapshot - результат одной оценки пары: fitness на структурном
// окне, реактивная корреляция и подтверждающий z короткого окна
type PairSnapshot struct {
	Fitness      *models.PairFitness
	Spread       []float64
	ReactiveCorr float64
	ConfirmZ     float64
}

// Monitor управляет жизненным циклом позиций
type Monitor struct {
	market    market.MarketData
	watchlist WatchlistStore
	positions PositionStore
	notifier  Notifier
	cfg       MonitorConfig

	rescanCh      chan<- struct{}
	rescanLimiter *ratelimit.RateLimiter
}

// NewMonitor создаёт монитор с внедрёнными зависимостями
func NewMonitor(md market.MarketData, wl WatchlistStore, ps PositionStore, n Notifier, cfg MonitorConfig) *Monitor {
	if n == nil {
		n = NopNotifier{}
	}
	return &Monitor{
		market:    md,
		watchlist: wl,
		positions: ps,
		notifier:  n,
		cfg:       cfg,
		// Не чаще одного запроса пересканирования в 10 минут
		rescanLimiter: ratelimit.NewRateLimiter(1.0/600.0, 1),
	}
}

// SetRescanChannel подключает канал запросов внепланового сканирования
func (m *Monitor) SetRescanChannel(ch chan<- struct{}) {
	m.rescanCh = ch
}

// RunCycle выполняет один проход торгового цикла
func (m *Monitor) RunCycle(ctx context.Context) error {
	start := time.Now()

	entries, err := m.watchlist.GetAll()
	if err != nil {
		return fmt.Errorf("monitor: load watchlist: %w", err)
	}
	open, err := m.positions.GetAll()
	if err != nil {
		return fmt.Errorf("monitor: load positions: %w", err)
	}
	posBySymbol := make(map[string]*models.Position, len(open))
	for _, p := range open {
		posBySymbol[p.PairSymbol] = p
	}

	// enterable: в цикле был кандидат, которому ничего не мешало войти
	// (вход состоялся либо сорвался по временной причине). Отказ допуска
	// и предупреждение профиля кандидата не считают: слот остаётся
	// свободным, и пересканирование всё ещё уместно.
	enterable := false

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap, err := m.EvaluatePair(ctx, entry.Asset1, entry.Asset2)
		if err != nil {
			log.Printf("[monitor] %s: skip cycle: %v", entry.PairSymbol, err)
			PairErrors.Inc()
			continue
		}
		PairsEvaluated.Inc()

		if pos, ok := posBySymbol[entry.PairSymbol]; ok {
			m.refreshEntry(entry, snap)
			if err := m.watchlist.Upsert(entry); err != nil {
				log.Printf("[monitor] %s: upsert watchlist: %v", entry.PairSymbol, err)
			}
			if err := m.updatePosition(ctx, pos, snap); err != nil {
				log.Printf("[monitor] %s: update position: %v", entry.PairSymbol, err)
			}
		} else {
			m.refreshEntry(entry, snap)
			if entry.IsReady {
				pos, free := m.tryEnterCandidate(ctx, entry, snap, open)
				if pos != nil {
					open = append(open, pos)
					posBySymbol[pos.PairSymbol] = pos
				}
				if free {
					enterable = true
				}
			}
			if err := m.watchlist.Upsert(entry); err != nil {
				log.Printf("[monitor] %s: upsert watchlist: %v", entry.PairSymbol, err)
			}
		}

		if m.cfg.InterCallDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.cfg.InterCallDelay):
			}
		}
	}

	if count, err := m.positions.Count(); err == nil {
		OpenPositions.Set(float64(count))
		if count < m.cfg.MaxPositions && !enterable {
			m.requestRescan()
		}
	}
	WatchlistSize.Set(float64(len(entries)))
	CycleDuration.Observe(time.Since(start).Seconds())
	return nil
}

// tryEnterCandidate пытается открыть позицию по готовому кандидату.
// Второй результат - был ли кандидат реально доступен для входа:
// отказ допуска и предупреждение профиля возвратов не считаются,
// слот остаётся свободным. Временный сбой открытия считается -
// сигнал в силе, вход повторится в следующем цикле.
func (m *Monitor) tryEnterCandidate(ctx context.Context, entry *models.WatchlistEntry, snap *PairSnapshot, open []*models.Position) (*models.Position, bool) {
	if !m.confirmReversionProfile(ctx, entry, snap.Fitness.ZScore) {
		return nil, false
	}
	pos, err := m.OpenFromEntry(ctx, entry, snap, open)
	switch {
	case err == nil:
		return pos, true
	case errors.Is(err, ErrStateConflict):
		log.Printf("[monitor] %s: entry rejected: %v", entry.PairSymbol, err)
		return nil, false
	default:
		log.Printf("[monitor] %s: open position: %v", entry.PairSymbol, err)
		return nil, true
	}
}

// EvaluatePair загружает дневные свечи обеих ног и считает снимок пары
func (m *Monitor) EvaluatePair(ctx context.Context, asset1, asset2 string) (*PairSnapshot, error) {
	c1, err := m.market.GetCandles(ctx, asset1, models.IntervalDay, m.cfg.HistoryDepth)
	if err != nil {
		return nil, fmt.Errorf("candles %s: %w", asset1, err)
	}
	c2, err := m.market.GetCandles(ctx, asset2, models.IntervalDay, m.cfg.HistoryDepth)
	if err != nil {
		return nil, fmt.Errorf("candles %s: %w", asset2, err)
	}

	p1, p2 := alignTails(models.Closes(c1), models.Closes(c2))
	if len(p1) <= m.cfg.ReactiveWindow {
		return nil, quant.ErrInsufficientData
	}

	fitness, err := quant.Evaluate(p1, p2, quant.EvalConfig{ZWindow: m.cfg.ReactiveWindow})
	if err != nil {
		return nil, err
	}

	spread, err := quant.LogSpread(p1, p2, fitness.Beta)
	if err != nil {
		return nil, err
	}

	// Реактивная корреляция: короткое окно реагирует на распад
	// связи быстрее структурного
	reactiveCorr := fitness.Correlation
	if corr, err := quant.Correlation(
		models.LastWindow(p1, m.cfg.ReactiveWindow),
		models.LastWindow(p2, m.cfg.ReactiveWindow),
	); err == nil {
		reactiveCorr = corr
	}

	confirmZ, err := quant.ZScore(spread, m.cfg.ConfirmWindow)
	if err != nil {
		confirmZ = 0
	}

	return &PairSnapshot{
		Fitness:      fitness,
		Spread:       spread,
		ReactiveCorr: reactiveCorr,
		ConfirmZ:     confirmZ,
	}, nil
}

// refreshEntry обновляет метрики записи watchlist по свежему снимку
func (m *Monitor) refreshEntry(entry *models.WatchlistEntry, snap *PairSnapshot) {
	entry.Fitness = *snap.Fitness
	if absZ := math.Abs(snap.Fitness.ZScore); absZ > entry.MaxHistoricalZ {
		entry.MaxHistoricalZ = absZ
	}
	ok, _ := m.EntrySignal(entry, snap)
	entry.IsReady = ok
	entry.UpdatedAt = time.Now()
}

// EntrySignal проверяет количественные условия входа в порядке
// убывания селективности. Первая непройденная проверка - причина отказа.
// Пороги корреляции и half-life берутся из MonitorConfig.
// Невычислимые half-life и Hurst проваливают свои проверки.
func (m *Monitor) EntrySignal(entry *models.WatchlistEntry, snap *PairSnapshot) (bool, string) {
	threshold := entry.EntryThreshold
	if threshold <= 0 {
		threshold = models.DefaultEntryThreshold
	}
	minCorr := m.cfg.MinCorrelation
	if minCorr <= 0 {
		minCorr = DefaultMonitorConfig().MinCorrelation
	}
	maxHalfLife := m.cfg.MaxHalfLifeDays
	if maxHalfLife <= 0 {
		maxHalfLife = DefaultMonitorConfig().MaxHalfLifeDays
	}
	f := snap.Fitness
	absZ := math.Abs(f.ZScore)

	if absZ < threshold {
		return false, ReasonBelowThreshold
	}
	if snap.ReactiveCorr < minCorr {
		return false, ReasonLowCorrelation
	}
	if !f.IsCointegrated {
		return false, ReasonNotCointegrated
	}
	if !f.HalfLife.Valid || f.HalfLife.Days > maxHalfLife {
		return false, ReasonHalfLifeTooLong
	}
	if sameSign := f.ZScore*snap.ConfirmZ > 0; !sameSign || math.Abs(snap.ConfirmZ) < confirmFraction*threshold {
		return false, ReasonWeakConfirmation
	}
	if !f.Hurst.Valid || f.Hurst.Exponent >= 0.5 {
		return false, ReasonTrendingSpread
	}
	if entry.ReversionWarning {
		return false, ReasonReversionWarning
	}
	return true, ""
}

// confirmReversionProfile строит часовой профиль возвратов перед входом
// и проверяет историческую статистику на уровне текущей дивергенции.
// Профиль считается только для готовых кандидатов: часовые свечи дороги.
// Сбой загрузки трактуется консервативно - вход откладывается.
func (m *Monitor) confirmReversionProfile(ctx context.Context, entry *models.WatchlistEntry, z float64) bool {
	profile, err := m.hourlyProfile(ctx, entry.Asset1, entry.Asset2)
	if err != nil {
		log.Printf("[monitor] %s: hourly profile: %v", entry.PairSymbol, err)
		return false
	}
	if profile.MaxAbsZ > entry.MaxHistoricalZ {
		entry.MaxHistoricalZ = profile.MaxAbsZ
	}
	entry.ReversionWarning = quant.PoorReversionAtZ(*profile, z)
	return !entry.ReversionWarning
}

func (m *Monitor) hourlyProfile(ctx context.Context, asset1, asset2 string) (*quant.ReversionProfile, error) {
	c1, err := m.market.GetCandles(ctx, asset1, models.IntervalHour, m.cfg.HourlyDepth)
	if err != nil {
		return nil, err
	}
	c2, err := m.market.GetCandles(ctx, asset2, models.IntervalHour, m.cfg.HourlyDepth)
	if err != nil {
		return nil, err
	}
	p1, p2 := alignTails(models.Closes(c1), models.Closes(c2))

	beta, err := quant.Beta(p1, p2)
	if err != nil {
		return nil, err
	}
	spread, err := quant.LogSpread(p1, p2, beta)
	if err != nil {
		return nil, err
	}
	zs, err := quant.ZScoreSeries(spread, m.cfg.ReactiveWindow)
	if err != nil {
		return nil, err
	}
	profile := quant.ProfileReversion(zs)
	return &profile, nil
}

// OpenFromEntry открывает позицию по готовому сигналу.
// Допуск (конфликты ног, ёмкость) проверяется здесь; количественные
// условия - ответственность вызывающего (EntrySignal или команда force).
func (m *Monitor) OpenFromEntry(ctx context.Context, entry *models.WatchlistEntry, snap *PairSnapshot, open []*models.Position) (*models.Position, error) {
	z := snap.Fitness.ZScore

	// Отрицательный z: спред ниже среднего, первая нога недооценена
	direction := models.DirectionShort
	longAsset, shortAsset := entry.Asset2, entry.Asset1
	if z < 0 {
		direction = models.DirectionLong
		longAsset, shortAsset = entry.Asset1, entry.Asset2
	}

	ok, reason := CheckAdmission(longAsset, shortAsset, open, m.cfg.MaxPositions)
	if !ok {
		EntriesRejected.WithLabelValues(reason).Inc()
		return nil, fmt.Errorf("%w: %s", ErrStateConflict, reason)
	}

	w1, w2 := models.LegWeights(snap.Fitness.Beta)
	longWeight, shortWeight := w2, w1
	if direction == models.DirectionLong {
		longWeight, shortWeight = w1, w2
	}

	longPrice, err := m.market.GetMarkPrice(ctx, longAsset)
	if err != nil {
		return nil, fmt.Errorf("mark price %s: %w", longAsset, err)
	}
	shortPrice, err := m.market.GetMarkPrice(ctx, shortAsset)
	if err != nil {
		return nil, fmt.Errorf("mark price %s: %w", shortAsset, err)
	}

	threshold := entry.EntryThreshold
	if threshold <= 0 {
		threshold = models.DefaultEntryThreshold
	}
	maxHist := entry.MaxHistoricalZ
	if absZ := math.Abs(z); absZ > maxHist {
		maxHist = absZ
	}

	now := time.Now()
	pos := &models.Position{
		PairSymbol:         entry.PairSymbol,
		State:              models.StateEntered,
		Direction:          direction,
		LongAsset:          longAsset,
		ShortAsset:         shortAsset,
		LongWeight:         longWeight,
		ShortWeight:        shortWeight,
		LongEntryPrice:     longPrice,
		ShortEntryPrice:    shortPrice,
		EntryZScore:        z,
		EntryThreshold:     threshold,
		EntryHalfLife:      snap.Fitness.HalfLife,
		MaxHistoricalZ:     maxHist,
		CurrentZ:           z,
		CurrentCorrelation: snap.ReactiveCorr,
		CurrentHalfLife:    snap.Fitness.HalfLife,
		CurrentHurst:       snap.Fitness.Hurst,
		BetaDrift:          snap.Fitness.DualBeta.Drift,
		MaxBetaDrift:       snap.Fitness.DualBeta.Drift,
		OpenedAt:           now,
		UpdatedAt:          now,
	}
	pos.HealthScore, pos.HealthBand = HealthScore(pos)

	if err := m.positions.Create(pos); err != nil {
		return nil, err
	}
	EntriesTotal.Inc()

	log.Printf("[monitor] %s: ENTERED %s (z=%.2f, threshold=%.2f, β=%.3f)",
		pos.PairSymbol, direction, z, threshold, snap.Fitness.Beta)
	m.notifier.Notify(models.Notification{
		Timestamp:  now,
		Type:       models.NotificationTypeEntry,
		Severity:   models.SeverityInfo,
		PairSymbol: pos.PairSymbol,
		Message: fmt.Sprintf("Вход %s: long %s / short %s, z=%.2f",
			pos.PairSymbol, longAsset, shortAsset, z),
		Meta: map[string]interface{}{
			"z_score":   z,
			"direction": direction,
			"beta":      snap.Fitness.Beta,
		},
	})
	return pos, nil
}

// updatePosition пересчитывает текущие метрики позиции и применяет
// правила выхода. Частичный выход атомарен со своей записью: модель
// мутируется, затем одна операция Update.
func (m *Monitor) updatePosition(ctx context.Context, pos *models.Position, snap *PairSnapshot) error {
	longPrice, err := m.market.GetMarkPrice(ctx, pos.LongAsset)
	if err != nil {
		return fmt.Errorf("mark price %s: %w", pos.LongAsset, err)
	}
	shortPrice, err := m.market.GetMarkPrice(ctx, pos.ShortAsset)
	if err != nil {
		return fmt.Errorf("mark price %s: %w", pos.ShortAsset, err)
	}

	now := time.Now()
	pos.CurrentZ = snap.Fitness.ZScore
	pos.CurrentPnlPct = PositionPnlPct(pos, longPrice, shortPrice)
	pos.CurrentCorrelation = snap.ReactiveCorr
	pos.CurrentHalfLife = snap.Fitness.HalfLife
	pos.CurrentHurst = snap.Fitness.Hurst
	pos.BetaDrift = snap.Fitness.DualBeta.Drift
	if pos.BetaDrift > pos.MaxBetaDrift {
		pos.MaxBetaDrift = pos.BetaDrift
	}
	pos.HealthScore, pos.HealthBand = HealthScore(pos)
	pos.UpdatedAt = now

	decision := DecideExit(pos, now)
	switch decision.Action {
	case ExitActionPartial:
		pos.PartialExitTaken = true
		pos.PartialExitPnl = pos.CurrentPnlPct
		pos.State = models.StatePartiallyExited
		if err := m.positions.Update(pos); err != nil {
			return fmt.Errorf("persist partial exit: %w", err)
		}
		PartialExitsTotal.Inc()
		log.Printf("[monitor] %s: PARTIALLY_EXITED (z=%.2f, pnl=%.2f%%)",
			pos.PairSymbol, pos.CurrentZ, pos.PartialExitPnl)
		m.notifier.Notify(models.Notification{
			Timestamp:  now,
			Type:       models.NotificationTypePartialExit,
			Severity:   models.SeverityInfo,
			PairSymbol: pos.PairSymbol,
			Message: fmt.Sprintf("Частичный выход %s: закрыто 50%%, pnl=%.2f%%",
				pos.PairSymbol, pos.PartialExitPnl),
		})
		return nil

	case ExitActionClose:
		_, err := m.finalizeClose(pos, decision.Reason, now)
		return err

	default:
		return m.positions.Update(pos)
	}
}

// ExitDecision - результат проверки правил выхода
type ExitDecision struct {
	Action string
	Reason string
}

// Действия по позиции
const (
	ExitActionNone    = "none"
	ExitActionPartial = "partial"
	ExitActionClose   = "close"
)

// DecideExit применяет правила выхода в порядке приоритета.
// Побеждает первое сработавшее правило; правила проверяются
// в этом порядке каждый цикл. Чистая функция: вся нужная
// информация уже в обновлённых полях позиции.
func DecideExit(p *models.Position, now time.Time) ExitDecision {
	absZ := math.Abs(p.CurrentZ)

	// 1. Частичный выход (срабатывает один раз)
	if p.State == models.StateEntered && !p.PartialExitTaken {
		if absZ <= partialReversionFactor*p.EntryThreshold || p.CurrentPnlPct >= partialProfitPct {
			return ExitDecision{Action: ExitActionPartial, Reason: models.ExitReasonPartialReversion}
		}
	}

	// 2. Финальный выход после частичного
	if p.State == models.StatePartiallyExited {
		if p.CurrentPnlPct >= finalProfitPct {
			return ExitDecision{Action: ExitActionClose, Reason: models.ExitReasonTakeProfit}
		}
		if absZ <= fullReversionZ {
			return ExitDecision{Action: ExitActionClose, Reason: models.ExitReasonFullReversion}
		}
	}

	// 3. Полный выход без частичного
	if p.State == models.StateEntered && absZ <= fullReversionZ {
		return ExitDecision{Action: ExitActionClose, Reason: models.ExitReasonFullReversion}
	}

	// 4. Stop-loss
	if absZ >= StopLossLevel(p.EntryZScore, p.MaxHistoricalZ) {
		return ExitDecision{Action: ExitActionClose, Reason: models.ExitReasonStopLoss}
	}

	// 5. Time stop
	if p.EntryHalfLife.Valid && p.DaysInTrade(now) > timeStopHalfLives*p.EntryHalfLife.Days {
		return ExitDecision{Action: ExitActionClose, Reason: models.ExitReasonTimeStop}
	}

	// 6. Распад корреляции
	if p.CurrentCorrelation < breakdownCorrelation {
		return ExitDecision{Action: ExitActionClose, Reason: models.ExitReasonCorrelationBreak}
	}

	return ExitDecision{Action: ExitActionNone}
}

// ClosePosition закрывает позицию по текущим рыночным ценам.
// Используется командным интерфейсом (принудительный выход)
// и переиспользует ту же PnL-математику, что и торговый цикл.
func (m *Monitor) ClosePosition(ctx context.Context, pos *models.Position, reason string) (*models.HistoryRecord, error) {
	longPrice, err := m.market.GetMarkPrice(ctx, pos.LongAsset)
	if err != nil {
		return nil, fmt.Errorf("mark price %s: %w", pos.LongAsset, err)
	}
	shortPrice, err := m.market.GetMarkPrice(ctx, pos.ShortAsset)
	if err != nil {
		return nil, fmt.Errorf("mark price %s: %w", pos.ShortAsset, err)
	}
	pos.CurrentPnlPct = PositionPnlPct(pos, longPrice, shortPrice)
	return m.finalizeClose(pos, reason, time.Now())
}

// finalizeClose переводит позицию в CLOSED: удаление из пула
// и запись в history атомарны (одна транзакция хранилища)
func (m *Monitor) finalizeClose(pos *models.Position, reason string, now time.Time) (*models.HistoryRecord, error) {
	if !CanTransition(pos.State, models.StateClosed) {
		return nil, fmt.Errorf("%w: close from %s", ErrStateConflict, pos.State)
	}

	total := pos.CurrentPnlPct
	if pos.PartialExitTaken {
		total = BlendedPnlPct(pos.PartialExitPnl, pos.CurrentPnlPct)
	}

	record := &models.HistoryRecord{
		PairSymbol:       pos.PairSymbol,
		Direction:        pos.Direction,
		LongAsset:        pos.LongAsset,
		ShortAsset:       pos.ShortAsset,
		EntryZScore:      pos.EntryZScore,
		ExitZScore:       pos.CurrentZ,
		ExitReason:       reason,
		TotalPnlPct:      total,
		PartialExitTaken: pos.PartialExitTaken,
		DaysInTrade:      pos.DaysInTrade(now),
		OpenedAt:         pos.OpenedAt,
		ClosedAt:         now,
	}
	if err := m.positions.CloseWithHistory(pos, record); err != nil {
		return nil, fmt.Errorf("close position: %w", err)
	}
	ExitsTotal.WithLabelValues(reason).Inc()

	severity := models.SeverityInfo
	notifType := models.NotificationTypeExit
	if reason == models.ExitReasonStopLoss {
		severity = models.SeverityWarn
		notifType = models.NotificationTypeStopLoss
	}
	log.Printf("[monitor] %s: CLOSED %s (pnl=%.2f%%, %.1f дн.)",
		pos.PairSymbol, reason, total, record.DaysInTrade)
	m.notifier.Notify(models.Notification{
		Timestamp:  now,
		Type:       notifType,
		Severity:   severity,
		PairSymbol: pos.PairSymbol,
		Message: fmt.Sprintf("Выход %s: %s, pnl=%.2f%%",
			pos.PairSymbol, reason, total),
		Meta: map[string]interface{}{
			"exit_reason": reason,
			"pnl_pct":     total,
		},
	})
	return record, nil
}

// requestRescan просит внеплановое сканирование когда есть свободная
// ёмкость, но ни один кандидат не готов. Rate limit защищает сканер
// от шторма запросов при пустом watchlist.
func (m *Monitor) requestRescan() {
	if m.rescanCh == nil || !m.rescanLimiter.Allow() {
		return
	}
	select {
	case m.rescanCh <- struct{}{}:
		RescanRequests.Inc()
		log.Printf("[monitor] requested rescan: free capacity, no ready candidates")
	default:
	}
}

// alignTails выравнивает два ряда по общему хвосту
func alignTails(p1, p2 []float64) ([]float64, []float64) {
	n := len(p1)
	if len(p2) < n {
		n = len(p2)
	}
	return p1[len(p1)-n:], p2[len(p2)-n:]
}
