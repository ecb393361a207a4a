package models

import "time"

// HistoryRecord представляет архивную запись закрытой позиции
// Создаётся только финальным выходом, никогда не изменяется
type HistoryRecord struct {
	ID               int       `json:"id" db:"id"`
	PairSymbol       string    `json:"pair_symbol" db:"pair_symbol"`
	Direction        string    `json:"direction" db:"direction"`
	LongAsset        string    `json:"long_asset" db:"long_asset"`
	ShortAsset       string    `json:"short_asset" db:"short_asset"`
	EntryZScore      float64   `json:"entry_z_score" db:"entry_z_score"`
	ExitZScore       float64   `json:"exit_z_score" db:"exit_z_score"`
	ExitReason       string    `json:"exit_reason" db:"exit_reason"`
	TotalPnlPct      float64   `json:"total_pnl_pct" db:"total_pnl_pct"`
	PartialExitTaken bool      `json:"partial_exit_taken" db:"partial_exit_taken"`
	DaysInTrade      float64   `json:"days_in_trade" db:"days_in_trade"`
	OpenedAt         time.Time `json:"opened_at" db:"opened_at"`
	ClosedAt         time.Time `json:"closed_at" db:"closed_at"`
}

// Причины выхода (в порядке приоритета проверки)
const (
	ExitReasonPartialReversion = "PARTIAL_REVERSION"     // |z| ≤ 0.5×entry или PnL ≥ +3% (частичный)
	ExitReasonTakeProfit       = "TAKE_PROFIT"           // PnL ≥ +5% после частичного выхода
	ExitReasonFullReversion    = "FULL_REVERSION"        // |z| ≤ 0.5
	ExitReasonStopLoss         = "STOP_LOSS"             // |z| ≥ max(1.5×entryZ, 1.2×maxHistZ, 3.0)
	ExitReasonTimeStop         = "TIME_STOP"             // дней в позиции > 2×half-life
	ExitReasonCorrelationBreak = "CORRELATION_BREAKDOWN" // корреляция < 0.4
	ExitReasonForced           = "FORCED"                // принудительное закрытие командой
)
