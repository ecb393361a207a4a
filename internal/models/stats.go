package models

// Stats представляет агрегированную статистику по закрытым сделкам
type Stats struct {
	TotalTrades   int     `json:"total_trades"`
	TotalPnlPct   float64 `json:"total_pnl_pct"` // сумма PnL закрытых сделок, %
	WinTrades     int     `json:"win_trades"`
	LossTrades    int     `json:"loss_trades"`
	WinRate       float64 `json:"win_rate"` // [0,1]
	AvgPnlPct     float64 `json:"avg_pnl_pct"`
	AvgDaysHeld   float64 `json:"avg_days_held"`
	OpenPositions int     `json:"open_positions"`

	// Разбивка по причинам выхода
	ByExitReason []ExitReasonStat `json:"by_exit_reason"`

	// Топ пар по результату
	TopPairsByProfit []PairStat `json:"top_pairs_by_profit"` // топ-5
	TopPairsByLoss   []PairStat `json:"top_pairs_by_loss"`   // топ-5
}

// ExitReasonStat представляет статистику по одной причине выхода
type ExitReasonStat struct {
	Reason string  `json:"reason"`
	Count  int     `json:"count"`
	PnlPct float64 `json:"pnl_pct"`
}

// PairStat представляет агрегат по одной паре
type PairStat struct {
	PairSymbol string  `json:"pair_symbol"`
	Trades     int     `json:"trades"`
	PnlPct     float64 `json:"pnl_pct"`
}
