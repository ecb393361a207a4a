package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики торгового ядра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации цикла
// - Alertmanager для уведомлений о деградации данных

// ============ Метрики цикла монитора ============

// CycleDuration - длительность полного прохода монитора
var CycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a full monitor cycle in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	},
)

// PairsEvaluated - количество оценённых пар
var PairsEvaluated = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "pairs_evaluated_total",
		Help:      "Total number of pair fitness evaluations",
	},
)

// PairErrors - пары, пропущенные в цикле из-за ошибок данных
var PairErrors = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "pair_errors_total",
		Help:      "Number of pairs skipped due to fetch or evaluation errors",
	},
)

// ============ Метрики состояния ============

// OpenPositions - текущее количество открытых позиций
var OpenPositions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "open_positions",
		Help:      "Current number of open positions",
	},
)

// WatchlistSize - размер watchlist
var WatchlistSize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "watchlist_size",
		Help:      "Current number of watchlist entries",
	},
)

// ============ Метрики переходов ============

// EntriesTotal - количество входов в позиции
var EntriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "entries_total",
		Help:      "Total number of position entries",
	},
)

// EntriesRejected - отказы допуска по причинам
var EntriesRejected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "entries_rejected_total",
		Help:      "Number of entry signals rejected by admission control",
	},
	[]string{"reason"}, // capacity, long_conflict, short_conflict, max_exposure
)

// PartialExitsTotal - количество частичных выходов
var PartialExitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "partial_exits_total",
		Help:      "Total number of partial exits",
	},
)

// ExitsTotal - финальные выходы по причинам
var ExitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "exits_total",
		Help:      "Total number of final exits",
	},
	[]string{"reason"},
)

// RescanRequests - запросы внепланового сканирования
var RescanRequests = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "monitor",
		Name:      "rescan_requests_total",
		Help:      "Number of out-of-schedule scan requests",
	},
)

// ============ Метрики сканера ============

// ScanDuration - длительность полного сканирования вселенной
var ScanDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "statarb",
		Subsystem: "scanner",
		Name:      "scan_duration_seconds",
		Help:      "Duration of a full universe scan in seconds",
		Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200},
	},
)

// ScanCandidates - рассмотренные кандидаты по типу
var ScanCandidates = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "statarb",
		Subsystem: "scanner",
		Name:      "candidates_total",
		Help:      "Number of candidate pairs considered",
	},
	[]string{"kind"}, // same_sector, cross_sector
)

// ScanSelected - пары, опубликованные в watchlist
var ScanSelected = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "statarb",
		Subsystem: "scanner",
		Name:      "selected_pairs",
		Help:      "Number of pairs published by the last scan",
	},
)

// ConvictionObserved - распределение conviction прошедших фильтры пар
var ConvictionObserved = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "statarb",
		Subsystem: "scanner",
		Name:      "conviction_score",
		Help:      "Conviction scores of pairs passing fitness gates",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90},
	},
)
