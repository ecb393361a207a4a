package handlers

import (
	"net/http"

	"statarb/internal/models"
	"statarb/internal/service"
)

// StatsHandler обрабатывает HTTP запросы для торговой статистики
//
// Endpoints:
// - GET /api/v1/stats - агрегированная статистика по закрытым сделкам
//
// Статистика включает:
// - Количество сделок, win rate, суммарный и средний PnL
// - Среднее время удержания позиции
// - Разбивку по причинам выхода
// - Топ-5 пар по прибыли и по убытку
// - Количество открытых позиций
type StatsHandler struct {
	statsService service.StatsServiceInterface
}

// NewStatsHandler создает новый StatsHandler с внедрением зависимости
func NewStatsHandler(statsService service.StatsServiceInterface) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats возвращает агрегированную статистику
//
// GET /api/v1/stats
//
// Response 200 OK:
//
//	{
//	  "total_trades": 42,
//	  "total_pnl_pct": 63.5,
//	  "win_trades": 30,
//	  "loss_trades": 12,
//	  "win_rate": 0.714,
//	  "avg_pnl_pct": 1.51,
//	  "avg_days_held": 4.2,
//	  "open_positions": 3,
//	  "by_exit_reason": [
//	    {"reason": "TAKE_PROFIT", "count": 18, "pnl_pct": 71.2},
//	    {"reason": "STOP_LOSS", "count": 6, "pnl_pct": -24.8}
//	  ],
//	  "top_pairs_by_profit": [
//	    {"pair_symbol": "SOLUSDT/AVAXUSDT", "trades": 5, "pnl_pct": 12.4}
//	  ]
//	}
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get stats: "+err.Error())
		return
	}

	// Пустые массивы возвращаются как [], а не null
	if stats.ByExitReason == nil {
		stats.ByExitReason = []models.ExitReasonStat{}
	}
	if stats.TopPairsByProfit == nil {
		stats.TopPairsByProfit = []models.PairStat{}
	}
	if stats.TopPairsByLoss == nil {
		stats.TopPairsByLoss = []models.PairStat{}
	}

	respondWithJSON(w, http.StatusOK, stats)
}
