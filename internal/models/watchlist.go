package models

import "time"

// WatchlistEntry представляет пару-кандидата в watchlist
//
// Идентичность: неупорядоченная пара символов + направление обнаружения.
// Создаётся сканером, обновляется монитором каждый цикл, удаляется сканером
// когда пара выпала из топа И не обеспечивает открытую позицию.
type WatchlistEntry struct {
	ID             int     `json:"id" db:"id"`
	PairSymbol     string  `json:"pair_symbol" db:"pair_symbol"` // BTCUSDT/ETHUSDT
	Asset1         string  `json:"asset1" db:"asset1"`           // BTCUSDT
	Asset2         string  `json:"asset2" db:"asset2"`           // ETHUSDT
	Sector         string  `json:"sector" db:"sector"`
	CrossSector    bool    `json:"cross_sector" db:"cross_sector"`
	EntryThreshold float64 `json:"entry_threshold" db:"entry_threshold"` // |z| для сигнала
	ExitThreshold  float64 `json:"exit_threshold" db:"exit_threshold"`   // default 0.5
	MaxHistoricalZ float64 `json:"max_historical_z" db:"max_historical_z"`
	InitialBeta    float64 `json:"initial_beta" db:"initial_beta"` // бета на момент обнаружения, неизменна

	// Последний снимок fitness (обновляется монитором in-place)
	Fitness PairFitness `json:"fitness"`

	IsReady          bool `json:"is_ready" db:"is_ready"`                   // сигнал достиг entry threshold
	ReversionWarning bool `json:"reversion_warning" db:"reversion_warning"` // плохая историческая статистика возврата

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Дефолтные пороги watchlist
const (
	DefaultExitThreshold  = 0.5
	DefaultEntryThreshold = 2.0
	MinEntryThreshold     = 1.5 // нижняя граница optimal entry
)

// PairKey возвращает канонический ключ пары (symbol1/symbol2)
func PairKey(asset1, asset2 string) string {
	return asset1 + "/" + asset2
}
