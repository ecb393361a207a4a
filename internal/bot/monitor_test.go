package bot

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"statarb/internal/models"
)

func readySnapshot() *PairSnapshot {
	return &PairSnapshot{
		Fitness: &models.PairFitness{
			ZScore:         2.3,
			Correlation:    0.9,
			Beta:           0.8,
			IsCointegrated: true,
			HalfLife:       models.HalfLife{Days: 4, Valid: true},
			Hurst:          models.Hurst{Exponent: 0.38, Valid: true},
			DualBeta:       models.DualBeta{Structural: 0.8, Dynamic: 0.82, Drift: 0.025, R2: 0.9},
		},
		ReactiveCorr: 0.85,
		ConfirmZ:     2.0,
	}
}

func watchedEntry() *models.WatchlistEntry {
	return &models.WatchlistEntry{
		PairSymbol:     "SOLUSDT/AVAXUSDT",
		Asset1:         "SOLUSDT",
		Asset2:         "AVAXUSDT",
		Sector:         models.SectorL1,
		EntryThreshold: 2.0,
		ExitThreshold:  models.DefaultExitThreshold,
	}
}

func TestEntrySignalGates(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(e *models.WatchlistEntry, s *PairSnapshot)
		wantOK     bool
		wantReason string
	}{
		{
			name:   "все условия выполнены",
			mutate: func(e *models.WatchlistEntry, s *PairSnapshot) {},
			wantOK: true,
		},
		{
			name:       "z ниже порога",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.Fitness.ZScore = 1.5; s.ConfirmZ = 1.4 },
			wantOK:     false,
			wantReason: ReasonBelowThreshold,
		},
		{
			name:       "слабая реактивная корреляция",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.ReactiveCorr = 0.5 },
			wantOK:     false,
			wantReason: ReasonLowCorrelation,
		},
		{
			name:       "нет коинтеграции",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.Fitness.IsCointegrated = false },
			wantOK:     false,
			wantReason: ReasonNotCointegrated,
		},
		{
			name:       "half-life за потолком",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.Fitness.HalfLife = models.HalfLife{Days: 45, Valid: true} },
			wantOK:     false,
			wantReason: ReasonHalfLifeTooLong,
		},
		{
			// Невычислимый half-life проваливает проверку, не трактуется как ноль
			name:       "невалидный half-life",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.Fitness.HalfLife = models.HalfLife{} },
			wantOK:     false,
			wantReason: ReasonHalfLifeTooLong,
		},
		{
			name:       "подтверждающее окно другого знака",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.ConfirmZ = -2.0 },
			wantOK:     false,
			wantReason: ReasonWeakConfirmation,
		},
		{
			name:       "подтверждающее окно слишком слабое",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.ConfirmZ = 1.2 },
			wantOK:     false,
			wantReason: ReasonWeakConfirmation,
		},
		{
			name:       "трендовый спред",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.Fitness.Hurst = models.Hurst{Exponent: 0.6, Valid: true} },
			wantOK:     false,
			wantReason: ReasonTrendingSpread,
		},
		{
			name:       "невалидный Hurst",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { s.Fitness.Hurst = models.Hurst{Exponent: 0.5} },
			wantOK:     false,
			wantReason: ReasonTrendingSpread,
		},
		{
			name:       "предупреждение профиля возвратов",
			mutate:     func(e *models.WatchlistEntry, s *PairSnapshot) { e.ReversionWarning = true },
			wantOK:     false,
			wantReason: ReasonReversionWarning,
		},
	}

	m := NewMonitor(nil, nil, nil, nil, DefaultMonitorConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := watchedEntry()
			snap := readySnapshot()
			tt.mutate(entry, snap)

			ok, reason := m.EntrySignal(entry, snap)
			if ok != tt.wantOK {
				t.Fatalf("EntrySignal ok = %v, want %v (reason %q)", ok, tt.wantOK, reason)
			}
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

// Рефлексивность порога: если z-порог - единственное непройденное
// условие, его снижение ниже |z| делает сигнал готовым
func TestEntrySignalThresholdReflexivity(t *testing.T) {
	m := NewMonitor(nil, nil, nil, nil, DefaultMonitorConfig())
	entry := watchedEntry()
	snap := readySnapshot() // z=2.3

	entry.EntryThreshold = 2.5
	ok, reason := m.EntrySignal(entry, snap)
	if ok || reason != ReasonBelowThreshold {
		t.Fatalf("при пороге 2.5: ok=%v reason=%q, ожидался below_threshold", ok, reason)
	}

	entry.EntryThreshold = 2.0
	if ok, reason := m.EntrySignal(entry, snap); !ok {
		t.Errorf("при пороге 2.0 сигнал должен стать готовым, получен отказ %q", reason)
	}
}

func TestEntrySignalNegativeZ(t *testing.T) {
	m := NewMonitor(nil, nil, nil, nil, DefaultMonitorConfig())
	entry := watchedEntry()
	snap := readySnapshot()
	snap.Fitness.ZScore = -2.3
	snap.ConfirmZ = -2.0

	if ok, reason := m.EntrySignal(entry, snap); !ok {
		t.Errorf("отрицательная дивергенция должна давать сигнал, отказ %q", reason)
	}
}

// Порог корреляции и потолок half-life берутся из конфигурации,
// а не из значений по умолчанию: ужесточение меняет исход гейта
func TestEntrySignalConfiguredThresholds(t *testing.T) {
	cfg := DefaultMonitorConfig()
	cfg.MinCorrelation = 0.9
	cfg.MaxHalfLifeDays = 10
	strict := NewMonitor(nil, nil, nil, nil, cfg)
	lax := NewMonitor(nil, nil, nil, nil, DefaultMonitorConfig())

	entry := watchedEntry()
	snap := readySnapshot() // corr=0.85, half-life=4d

	snap.ReactiveCorr = 0.65
	if ok, reason := lax.EntrySignal(entry, snap); !ok {
		t.Errorf("corr 0.65 проходит дефолтный пол 0.6, отказ %q", reason)
	}
	if ok, reason := strict.EntrySignal(entry, snap); ok || reason != ReasonLowCorrelation {
		t.Errorf("пол 0.9: ok=%v reason=%q, ожидался low_correlation", ok, reason)
	}

	snap.ReactiveCorr = 0.95
	snap.Fitness.HalfLife = models.HalfLife{Days: 25, Valid: true}
	if ok, reason := lax.EntrySignal(entry, snap); !ok {
		t.Errorf("half-life 25d проходит дефолтный потолок 30, отказ %q", reason)
	}
	if ok, reason := strict.EntrySignal(entry, snap); ok || reason != ReasonHalfLifeTooLong {
		t.Errorf("потолок 10d: ok=%v reason=%q, ожидался half_life_too_long", ok, reason)
	}
}

func enteredPosition() *models.Position {
	return &models.Position{
		PairSymbol:         "SOLUSDT/AVAXUSDT",
		State:              models.StateEntered,
		Direction:          models.DirectionShort,
		LongAsset:          "AVAXUSDT",
		ShortAsset:         "SOLUSDT",
		LongWeight:         0.5,
		ShortWeight:        0.5,
		LongEntryPrice:     40,
		ShortEntryPrice:    150,
		EntryZScore:        2.2,
		EntryThreshold:     2.0,
		EntryHalfLife:      models.HalfLife{Days: 4, Valid: true},
		MaxHistoricalZ:     2.5,
		CurrentZ:           2.2,
		CurrentCorrelation: 0.85,
		OpenedAt:           time.Now().Add(-24 * time.Hour),
	}
}

func TestDecideExit(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name       string
		mutate     func(p *models.Position)
		wantAction string
		wantReason string
	}{
		{
			name:       "нет сигнала выхода",
			mutate:     func(p *models.Position) { p.CurrentZ = 1.8 },
			wantAction: ExitActionNone,
		},
		{
			// Сценарий: вход при z=2.2, порог 2.0, спред вернулся до 0.9 < 1.0
			name:       "частичная реверсия по z",
			mutate:     func(p *models.Position) { p.CurrentZ = 0.9 },
			wantAction: ExitActionPartial,
			wantReason: models.ExitReasonPartialReversion,
		},
		{
			name:       "частичный выход по прибыли",
			mutate:     func(p *models.Position) { p.CurrentZ = 1.8; p.CurrentPnlPct = 3.5 },
			wantAction: ExitActionPartial,
			wantReason: models.ExitReasonPartialReversion,
		},
		{
			// Из ENTERED частичный выход приоритетнее полного даже при z ≤ 0.5
			name:       "частичный приоритетнее полного",
			mutate:     func(p *models.Position) { p.CurrentZ = 0.3 },
			wantAction: ExitActionPartial,
			wantReason: models.ExitReasonPartialReversion,
		},
		{
			name: "take profit после частичного",
			mutate: func(p *models.Position) {
				p.State = models.StatePartiallyExited
				p.PartialExitTaken = true
				p.CurrentZ = 0.8
				p.CurrentPnlPct = 5.5
			},
			wantAction: ExitActionClose,
			wantReason: models.ExitReasonTakeProfit,
		},
		{
			name: "полная реверсия после частичного",
			mutate: func(p *models.Position) {
				p.State = models.StatePartiallyExited
				p.PartialExitTaken = true
				p.CurrentZ = 0.4
				p.CurrentPnlPct = 1.0
			},
			wantAction: ExitActionClose,
			wantReason: models.ExitReasonFullReversion,
		},
		{
			// Сценарий: entryZ=2.0, maxHist=2.5, z=3.2 ≥ max(3.0, 3.0, 3.0)
			name: "stop loss",
			mutate: func(p *models.Position) {
				p.EntryZScore = 2.0
				p.MaxHistoricalZ = 2.5
				p.CurrentZ = 3.2
			},
			wantAction: ExitActionClose,
			wantReason: models.ExitReasonStopLoss,
		},
		{
			name: "time stop",
			mutate: func(p *models.Position) {
				p.CurrentZ = 1.8
				p.EntryHalfLife = models.HalfLife{Days: 2, Valid: true}
				p.OpenedAt = now.Add(-5 * 24 * time.Hour)
			},
			wantAction: ExitActionClose,
			wantReason: models.ExitReasonTimeStop,
		},
		{
			// Невалидный entry half-life не запускает time stop
			name: "time stop без валидного half-life",
			mutate: func(p *models.Position) {
				p.CurrentZ = 1.8
				p.EntryHalfLife = models.HalfLife{}
				p.OpenedAt = now.Add(-100 * 24 * time.Hour)
			},
			wantAction: ExitActionNone,
		},
		{
			name: "распад корреляции",
			mutate: func(p *models.Position) {
				p.CurrentZ = 1.8
				p.CurrentCorrelation = 0.3
			},
			wantAction: ExitActionClose,
			wantReason: models.ExitReasonCorrelationBreak,
		},
		{
			// Stop loss приоритетнее распада корреляции
			name: "порядок правил: stop loss раньше корреляции",
			mutate: func(p *models.Position) {
				p.CurrentZ = 4.0
				p.CurrentCorrelation = 0.2
			},
			wantAction: ExitActionClose,
			wantReason: models.ExitReasonStopLoss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := enteredPosition()
			tt.mutate(p)

			got := DecideExit(p, now)
			if got.Action != tt.wantAction {
				t.Fatalf("action = %q, want %q (reason %q)", got.Action, tt.wantAction, got.Reason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func newTestMonitor(t *testing.T) (*Monitor, *fakeMarket, *memWatchlist, *memPositions, *captureNotifier) {
	t.Helper()
	fm := newFakeMarket()
	wl := newMemWatchlist()
	ps := newMemPositions()
	notifier := &captureNotifier{}
	cfg := DefaultMonitorConfig()
	cfg.InterCallDelay = 0
	return NewMonitor(fm, wl, ps, notifier, cfg), fm, wl, ps, notifier
}

// Сценарий: позиция ENTERED с порогом 2.0 получает обновление z=0.9 -
// частичный выход фиксируется атомарно с записью в хранилище
func TestUpdatePositionPartialExit(t *testing.T) {
	m, fm, _, ps, notifier := newTestMonitor(t)

	pos := enteredPosition()
	if err := ps.Create(pos); err != nil {
		t.Fatal(err)
	}
	fm.markPrices["AVAXUSDT"] = 42  // long +5%
	fm.markPrices["SOLUSDT"] = 148.5 // short +1%

	snap := readySnapshot()
	snap.Fitness.ZScore = 0.9

	if err := m.updatePosition(context.Background(), pos, snap); err != nil {
		t.Fatalf("updatePosition: %v", err)
	}

	stored, err := ps.GetBySymbol(pos.PairSymbol)
	if err != nil {
		t.Fatalf("позиция должна остаться в пуле: %v", err)
	}
	if stored.State != models.StatePartiallyExited {
		t.Errorf("state = %s, want PARTIALLY_EXITED", stored.State)
	}
	if !stored.PartialExitTaken {
		t.Error("PartialExitTaken должен быть установлен")
	}
	wantPnl := 0.5*5.0 + 0.5*1.0
	if math.Abs(stored.PartialExitPnl-wantPnl) > 1e-9 {
		t.Errorf("PartialExitPnl = %.4f, want %.4f", stored.PartialExitPnl, wantPnl)
	}
	if n := notifier.byType(models.NotificationTypePartialExit); len(n) != 1 {
		t.Errorf("ожидалось 1 уведомление о частичном выходе, получено %d", len(n))
	}
}

// Сценарий: entryZ=2.0, maxHist=2.5, z=3.2 - срабатывает stop loss
func TestUpdatePositionStopLoss(t *testing.T) {
	m, fm, _, ps, notifier := newTestMonitor(t)

	pos := enteredPosition()
	pos.EntryZScore = 2.0
	pos.MaxHistoricalZ = 2.5
	if err := ps.Create(pos); err != nil {
		t.Fatal(err)
	}
	fm.markPrices["AVAXUSDT"] = 38 // long -5%
	fm.markPrices["SOLUSDT"] = 153 // short -2%

	snap := readySnapshot()
	snap.Fitness.ZScore = 3.2

	if err := m.updatePosition(context.Background(), pos, snap); err != nil {
		t.Fatalf("updatePosition: %v", err)
	}

	if _, err := ps.GetBySymbol(pos.PairSymbol); err == nil {
		t.Error("позиция должна быть удалена из пула")
	}
	if len(ps.history) != 1 {
		t.Fatalf("ожидалась 1 запись history, получено %d", len(ps.history))
	}
	record := ps.history[0]
	if record.ExitReason != models.ExitReasonStopLoss {
		t.Errorf("exit reason = %s, want STOP_LOSS", record.ExitReason)
	}
	wantPnl := 0.5*(-5.0) + 0.5*(-2.0)
	if math.Abs(record.TotalPnlPct-wantPnl) > 1e-9 {
		t.Errorf("TotalPnlPct = %.4f, want %.4f", record.TotalPnlPct, wantPnl)
	}
	if n := notifier.byType(models.NotificationTypeStopLoss); len(n) != 1 {
		t.Errorf("ожидалось 1 уведомление stop loss, получено %d", len(n))
	}
}

// Итоговый PnL после частичного выхода - бленд 50/50
func TestFinalizeCloseBlendsPartialPnl(t *testing.T) {
	m, _, _, ps, _ := newTestMonitor(t)

	pos := enteredPosition()
	pos.State = models.StatePartiallyExited
	pos.PartialExitTaken = true
	pos.PartialExitPnl = 4.0
	pos.CurrentPnlPct = 6.0
	if err := ps.Create(pos); err != nil {
		t.Fatal(err)
	}

	record, err := m.finalizeClose(pos, models.ExitReasonTakeProfit, time.Now())
	if err != nil {
		t.Fatalf("finalizeClose: %v", err)
	}
	if math.Abs(record.TotalPnlPct-5.0) > 1e-9 {
		t.Errorf("TotalPnlPct = %.4f, want 5.0", record.TotalPnlPct)
	}
	if !record.PartialExitTaken {
		t.Error("запись history должна отмечать частичный выход")
	}
}

func TestOpenFromEntryDirectionAndFrozenFields(t *testing.T) {
	m, fm, _, ps, notifier := newTestMonitor(t)
	fm.markPrices["SOLUSDT"] = 150
	fm.markPrices["AVAXUSDT"] = 40

	entry := watchedEntry()
	entry.MaxHistoricalZ = 2.0
	snap := readySnapshot()
	snap.Fitness.ZScore = -2.3 // спред ниже среднего: long первой ноги
	snap.ConfirmZ = -2.0

	pos, err := m.OpenFromEntry(context.Background(), entry, snap, nil)
	if err != nil {
		t.Fatalf("OpenFromEntry: %v", err)
	}

	if pos.Direction != models.DirectionLong {
		t.Errorf("direction = %s, want long", pos.Direction)
	}
	if pos.LongAsset != "SOLUSDT" || pos.ShortAsset != "AVAXUSDT" {
		t.Errorf("ноги = long %s / short %s, want long SOLUSDT / short AVAXUSDT", pos.LongAsset, pos.ShortAsset)
	}

	// Веса из β=0.8: w1 = 1/1.8, w2 = 0.8/1.8
	if math.Abs(pos.LongWeight-1.0/1.8) > 1e-9 || math.Abs(pos.ShortWeight-0.8/1.8) > 1e-9 {
		t.Errorf("веса = %.4f/%.4f, want %.4f/%.4f", pos.LongWeight, pos.ShortWeight, 1.0/1.8, 0.8/1.8)
	}
	if math.Abs(pos.LongWeight+pos.ShortWeight-1.0) > 1e-9 {
		t.Error("веса должны суммироваться в 1")
	}

	// Замороженные поля
	if pos.EntryZScore != -2.3 || pos.EntryThreshold != 2.0 {
		t.Errorf("entry поля: z=%.2f threshold=%.2f", pos.EntryZScore, pos.EntryThreshold)
	}
	if !pos.EntryHalfLife.Valid || pos.EntryHalfLife.Days != 4 {
		t.Errorf("EntryHalfLife = %+v, want {4 true}", pos.EntryHalfLife)
	}
	if math.Abs(pos.MaxHistoricalZ-2.3) > 1e-9 {
		t.Errorf("MaxHistoricalZ = %.2f, want 2.3 (|z| превысил исторический)", pos.MaxHistoricalZ)
	}
	if pos.LongEntryPrice != 150 || pos.ShortEntryPrice != 40 {
		t.Errorf("цены входа: %.1f/%.1f", pos.LongEntryPrice, pos.ShortEntryPrice)
	}

	if _, err := ps.GetBySymbol(entry.PairSymbol); err != nil {
		t.Errorf("позиция должна быть в хранилище: %v", err)
	}
	if n := notifier.byType(models.NotificationTypeEntry); len(n) != 1 {
		t.Errorf("ожидалось 1 уведомление о входе, получено %d", len(n))
	}
}

// Сценарий: инструмент уже short в открытой позиции - вход,
// делающий его long, отклоняется, никогда не проходит молча
func TestOpenFromEntryAdmissionConflict(t *testing.T) {
	m, fm, _, _, _ := newTestMonitor(t)
	fm.markPrices["SOLUSDT"] = 150
	fm.markPrices["AVAXUSDT"] = 40

	open := []*models.Position{openPosition("ETHUSDT", "SOLUSDT")}

	entry := watchedEntry()
	snap := readySnapshot()
	snap.Fitness.ZScore = -2.3 // кандидат хочет SOLUSDT long

	_, err := m.OpenFromEntry(context.Background(), entry, snap, open)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("ожидался ErrStateConflict, получено %v", err)
	}
}

// Часовая история с невырожденным спредом для профиля возвратов
func setHourlyHistory(fm *fakeMarket) {
	h1 := make([]float64, 120)
	h2 := make([]float64, 120)
	for i := range h1 {
		h1[i] = 150 * math.Exp(0.03*math.Sin(0.7*float64(i)))
		h2[i] = math.Pow(h1[i], 0.9) * math.Exp(0.01*math.Sin(1.9*float64(i)))
	}
	fm.setCloses("SOLUSDT", models.IntervalHour, h1)
	fm.setCloses("AVAXUSDT", models.IntervalHour, h2)
}

// Кандидат, отклонённый допуском или оставшийся без профиля, не занимает
// слот: цикл сохраняет право запросить пересканирование. Временный сбой
// открытия, напротив, слот занимает - сигнал в силе и вход повторится.
func TestTryEnterCandidateSlotAccounting(t *testing.T) {
	t.Run("отказ допуска оставляет слот свободным", func(t *testing.T) {
		m, fm, _, _, _ := newTestMonitor(t)
		setHourlyHistory(fm)
		open := []*models.Position{openPosition("ETHUSDT", "SOLUSDT")}

		entry := watchedEntry()
		snap := readySnapshot()
		snap.Fitness.ZScore = -2.3 // кандидат хочет SOLUSDT long
		snap.ConfirmZ = -2.0

		pos, enterable := m.tryEnterCandidate(context.Background(), entry, snap, open)
		if pos != nil || enterable {
			t.Errorf("конфликт ног: pos=%v enterable=%v, слот должен остаться свободным", pos, enterable)
		}
	})

	t.Run("недоступный часовой профиль откладывает вход", func(t *testing.T) {
		m, _, _, _, _ := newTestMonitor(t)

		pos, enterable := m.tryEnterCandidate(context.Background(), watchedEntry(), readySnapshot(), nil)
		if pos != nil || enterable {
			t.Errorf("без профиля: pos=%v enterable=%v, вход откладывается без занятия слота", pos, enterable)
		}
	})

	t.Run("временный сбой хранилища сохраняет кандидата", func(t *testing.T) {
		m, fm, _, ps, _ := newTestMonitor(t)
		setHourlyHistory(fm)
		fm.markPrices["SOLUSDT"] = 150
		fm.markPrices["AVAXUSDT"] = 40
		ps.createErr = errors.New("storage down")

		pos, enterable := m.tryEnterCandidate(context.Background(), watchedEntry(), readySnapshot(), nil)
		if pos != nil {
			t.Errorf("при сбое хранилища позиция не должна вернуться: %v", pos)
		}
		if !enterable {
			t.Error("сигнал в силе: кандидат остаётся доступным, пересканирование не нужно")
		}
	})

	t.Run("успешный вход занимает слот", func(t *testing.T) {
		m, fm, _, _, _ := newTestMonitor(t)
		setHourlyHistory(fm)
		fm.markPrices["SOLUSDT"] = 150
		fm.markPrices["AVAXUSDT"] = 40

		pos, enterable := m.tryEnterCandidate(context.Background(), watchedEntry(), readySnapshot(), nil)
		if pos == nil || !enterable {
			t.Fatalf("ожидался вход: pos=%v enterable=%v", pos, enterable)
		}
	})
}

// Свободная ёмкость без единого доступного кандидата - запрос
// внепланового сканирования уходит в канал
func TestRunCycleRequestsRescan(t *testing.T) {
	m, _, _, _, _ := newTestMonitor(t)
	ch := make(chan struct{}, 1)
	m.SetRescanChannel(ch)

	if err := m.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	select {
	case <-ch:
	default:
		t.Error("пустой watchlist при свободной ёмкости должен запросить пересканирование")
	}
}

// Сбой данных одной пары не прерывает цикл: остальные пары обрабатываются
func TestRunCycleIsolatesPairFailures(t *testing.T) {
	m, fm, wl, ps, _ := newTestMonitor(t)

	// Пара без свечей: пропускается
	broken := watchedEntry()
	broken.PairSymbol = "BTCUSDT/ETHUSDT"
	broken.Asset1 = "BTCUSDT"
	broken.Asset2 = "ETHUSDT"
	if err := wl.Upsert(broken); err != nil {
		t.Fatal(err)
	}

	// Пара с данными и открытой позицией
	good := watchedEntry()
	if err := wl.Upsert(good); err != nil {
		t.Fatal(err)
	}
	closes1 := make([]float64, 120)
	closes2 := make([]float64, 120)
	for i := range closes1 {
		closes1[i] = 150 * math.Exp(0.05*math.Sin(0.9*float64(i)))
		closes2[i] = math.Pow(closes1[i], 0.9)
	}
	fm.setCloses("SOLUSDT", models.IntervalDay, closes1)
	fm.setCloses("AVAXUSDT", models.IntervalDay, closes2)
	fm.markPrices["SOLUSDT"] = closes1[119]
	fm.markPrices["AVAXUSDT"] = closes2[119]

	pos := enteredPosition()
	pos.LongEntryPrice = closes2[119]
	pos.ShortEntryPrice = closes1[119]
	if err := ps.Create(pos); err != nil {
		t.Fatal(err)
	}

	if err := m.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// Работающая пара получила свежий fitness
	updated, err := wl.GetBySymbol(good.PairSymbol)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Fitness.Correlation < 0.9 {
		t.Errorf("fitness не обновлён: corr=%.3f", updated.Fitness.Correlation)
	}

	// Позиция обработана: либо обновлена, либо закрыта правилом выхода с записью history
	if _, err := ps.GetBySymbol(pos.PairSymbol); err != nil && len(ps.history) == 0 {
		t.Error("позиция исчезла без записи history")
	}

	// Сломанная пара не тронута
	stale, err := wl.GetBySymbol(broken.PairSymbol)
	if err != nil {
		t.Fatal(err)
	}
	if stale.Fitness.Correlation != 0 {
		t.Error("пара со сбоем данных не должна обновляться в этом цикле")
	}
}
