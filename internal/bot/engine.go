package bot

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ============ ENGINE: планировщик циклов ============
//
// Периодическая single-flight модель: планировщик запускает Monitor
// и Scanner по фиксированным интервалам, перекрытие запусков одного
// типа исключено атомарным run-in-progress флагом. Пропущенный из-за
// ещё идущего запуска тик просто теряется: следующий тик догонит.
//
// Monitor может запросить внеплановое сканирование через канал
// rescan (свободная ёмкость без готовых кандидатов); запрос
// игнорируется, если сканирование уже идёт.

// EngineConfig - интервалы планировщика
type EngineConfig struct {
	ScanInterval    time.Duration // полное сканирование вселенной
	MonitorInterval time.Duration // торговый цикл
	ScanOnStart     bool          // сканировать сразу при запуске
}

// DefaultEngineConfig возвращает интервалы по умолчанию
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ScanInterval:    6 * time.Hour,
		MonitorInterval: 15 * time.Minute,
		ScanOnStart:     true,
	}
}

// Engine связывает сканер и монитор в один управляемый цикл
type Engine struct {
	scanner *Scanner
	monitor *Monitor
	cfg     EngineConfig

	// Run-in-progress флаги (0 - свободен, 1 - занят)
	scanRunning    int32
	monitorRunning int32

	rescan chan struct{}
	wg     sync.WaitGroup
}

// NewEngine создаёт движок и подключает канал rescan к монитору
func NewEngine(scanner *Scanner, monitor *Monitor, cfg EngineConfig) *Engine {
	e := &Engine{
		scanner: scanner,
		monitor: monitor,
		cfg:     cfg,
		rescan:  make(chan struct{}, 1),
	}
	monitor.SetRescanChannel(e.rescan)
	return e
}

// Run блокируется до отмены контекста
func (e *Engine) Run(ctx context.Context) error {
	log.Printf("[engine] started: scan every %v, monitor every %v",
		e.cfg.ScanInterval, e.cfg.MonitorInterval)

	if e.cfg.ScanOnStart {
		e.triggerScan(ctx)
	}

	scanTicker := time.NewTicker(e.cfg.ScanInterval)
	defer scanTicker.Stop()
	monitorTicker := time.NewTicker(e.cfg.MonitorInterval)
	defer monitorTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.wg.Wait()
			log.Printf("[engine] stopped")
			return ctx.Err()
		case <-scanTicker.C:
			e.triggerScan(ctx)
		case <-e.rescan:
			e.triggerScan(ctx)
		case <-monitorTicker.C:
			e.triggerMonitor(ctx)
		}
	}
}

// triggerScan запускает сканирование, если оно ещё не идёт
func (e *Engine) triggerScan(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&e.scanRunning, 0, 1) {
		log.Printf("[engine] scan already in progress, tick skipped")
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer atomic.StoreInt32(&e.scanRunning, 0)
		if err := e.scanner.RunScan(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[engine] scan failed: %v", err)
		}
	}()
}

// triggerMonitor запускает торговый цикл, если он ещё не идёт
func (e *Engine) triggerMonitor(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&e.monitorRunning, 0, 1) {
		log.Printf("[engine] monitor cycle already in progress, tick skipped")
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer atomic.StoreInt32(&e.monitorRunning, 0)
		if err := e.monitor.RunCycle(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[engine] monitor cycle failed: %v", err)
		}
	}()
}
