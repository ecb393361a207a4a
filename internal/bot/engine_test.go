package bot

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, cfg EngineConfig) (*Engine, *fakeMarket) {
	t.Helper()
	fm := newFakeMarket()
	wl := newMemWatchlist()
	ps := newMemPositions()
	bl := &memBlacklist{}

	mcfg := DefaultMonitorConfig()
	mcfg.InterCallDelay = 0
	scfg := DefaultScannerConfig()
	scfg.InterCallDelay = 0

	monitor := NewMonitor(fm, wl, ps, nil, mcfg)
	scanner := NewScanner(fm, wl, ps, bl, nil, scfg)
	return NewEngine(scanner, monitor, cfg), fm
}

func TestEngineRunsScanOnStart(t *testing.T) {
	cfg := EngineConfig{
		ScanInterval:    time.Hour,
		MonitorInterval: time.Hour,
		ScanOnStart:     true,
	}
	e, fm := newTestEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	// Стартовое сканирование должно дойти до запроса вселенной
	deadline := time.After(2 * time.Second)
	for {
		fm.mu.Lock()
		calls := fm.instrumentCalls
		fm.mu.Unlock()
		if calls >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("стартовое сканирование не запустилось")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run вернул %v, ожидался context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}

func TestEngineRescanChannelTriggersScan(t *testing.T) {
	cfg := EngineConfig{
		ScanInterval:    time.Hour,
		MonitorInterval: time.Hour,
		ScanOnStart:     false,
	}
	e, fm := newTestEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	e.rescan <- struct{}{}

	deadline := time.After(2 * time.Second)
	for {
		fm.mu.Lock()
		calls := fm.instrumentCalls
		fm.mu.Unlock()
		if calls >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("запрос rescan не запустил сканирование")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

// Single-flight: пока сканирование идёт, повторный trigger пропускается
func TestEngineSingleFlightScan(t *testing.T) {
	cfg := DefaultEngineConfig()
	e, _ := newTestEngine(t, cfg)

	e.scanRunning = 1
	e.triggerScan(context.Background())
	// Флаг занят: новая горутина не стартует и флаг не сбрасывается
	if e.scanRunning != 1 {
		t.Error("запуск при занятом флаге не должен менять состояние")
	}
	e.scanRunning = 0
}
