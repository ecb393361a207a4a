package models

import "time"

// Position представляет открытую спредовую позицию
//
// Идентичность: символ пары. Инвариант: не более одной открытой позиции
// на пару; инструмент может участвовать максимум в двух позициях и никогда
// в противоположных направлениях на одной ноге.
type Position struct {
	ID         int    `json:"id" db:"id"`
	PairSymbol string `json:"pair_symbol" db:"pair_symbol"`
	State      string `json:"state" db:"state"`         // ENTERED, PARTIALLY_EXITED
	Direction  string `json:"direction" db:"direction"` // long/short первой ноги

	LongAsset  string `json:"long_asset" db:"long_asset"`
	ShortAsset string `json:"short_asset" db:"short_asset"`

	// Веса ног из hedge ratio: w1 = 1/(1+β), w2 = β/(1+β)
	LongWeight  float64 `json:"long_weight" db:"long_weight"`
	ShortWeight float64 `json:"short_weight" db:"short_weight"`

	LongEntryPrice  float64 `json:"long_entry_price" db:"long_entry_price"`
	ShortEntryPrice float64 `json:"short_entry_price" db:"short_entry_price"`

	// Параметры, зафиксированные при входе
	EntryZScore    float64  `json:"entry_z_score" db:"entry_z_score"`
	EntryThreshold float64  `json:"entry_threshold" db:"entry_threshold"`
	EntryHalfLife  HalfLife `json:"entry_half_life"`                          // half-life на момент входа
	MaxHistoricalZ float64  `json:"max_historical_z" db:"max_historical_z"` // для stop-loss

	// Текущие метрики (пересчитываются каждый цикл)
	CurrentZ           float64  `json:"current_z" db:"current_z"`
	CurrentPnlPct      float64  `json:"current_pnl_pct" db:"current_pnl_pct"`
	CurrentCorrelation float64  `json:"current_correlation" db:"current_correlation"`
	CurrentHalfLife    HalfLife `json:"current_half_life"`
	CurrentHurst       Hurst    `json:"current_hurst"`
	BetaDrift          float64  `json:"beta_drift" db:"beta_drift"`
	MaxBetaDrift       float64  `json:"max_beta_drift" db:"max_beta_drift"`
	HealthScore        int      `json:"health_score" db:"health_score"`
	HealthBand         string   `json:"health_band" db:"health_band"`

	// Частичный выход (срабатывает один раз)
	PartialExitTaken bool    `json:"partial_exit_taken" db:"partial_exit_taken"`
	PartialExitPnl   float64 `json:"partial_exit_pnl" db:"partial_exit_pnl"`

	OpenedAt  time.Time `json:"opened_at" db:"opened_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Состояния позиции (state machine)
// WATCHED и CLOSED не хранятся в таблице positions: WATCHED живёт в watchlist,
// а закрытая позиция становится записью history
const (
	StateWatched         = "WATCHED"          // кандидат в watchlist, позиции нет
	StateEntered         = "ENTERED"          // позиция открыта полностью
	StatePartiallyExited = "PARTIALLY_EXITED" // 50% закрыто
	StateClosed          = "CLOSED"           // терминальное состояние
)

// Направления позиции (первая нога пары)
const (
	DirectionLong  = "long"  // лонг asset1, шорт asset2 (z < 0)
	DirectionShort = "short" // шорт asset1, лонг asset2 (z > 0)
)

// DaysInTrade возвращает количество дней с момента входа
func (p *Position) DaysInTrade(now time.Time) float64 {
	return now.Sub(p.OpenedAt).Hours() / 24
}

// IsOpen возвращает true если позиция активна
func (p *Position) IsOpen() bool {
	return p.State == StateEntered || p.State == StatePartiallyExited
}

// LegWeights вычисляет веса ног из hedge ratio
// Бета берётся по модулю: отрицательная бета не инвертирует веса
func LegWeights(beta float64) (w1, w2 float64) {
	b := beta
	if b < 0 {
		b = -b
	}
	w1 = 1 / (1 + b)
	w2 = b / (1 + b)
	return w1, w2
}
