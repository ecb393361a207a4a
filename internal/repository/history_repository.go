package repository

import (
	"database/sql"

	"statarb/internal/models"
)

// HistoryRepository - работа с таблицей history
//
// Записи создаются транзакцией финального выхода
// (PositionRepository.CloseWithHistory) и никогда не изменяются.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository создает новый экземпляр репозитория
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const historyColumns = `
	id, pair_symbol, direction, long_asset, short_asset,
	entry_z_score, exit_z_score, exit_reason, total_pnl_pct,
	partial_exit_taken, days_in_trade, opened_at, closed_at`

// GetRecent возвращает последние закрытые сделки
func (r *HistoryRepository) GetRecent(limit int) ([]*models.HistoryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + historyColumns + `
		FROM history
		ORDER BY closed_at DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// GetByPair возвращает историю сделок одной пары
func (r *HistoryRepository) GetByPair(pairSymbol string) ([]*models.HistoryRecord, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM history
		WHERE pair_symbol = $1
		ORDER BY closed_at DESC`

	rows, err := r.db.Query(query, pairSymbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// GetStats возвращает агрегированную статистику по закрытым сделкам
//
// Поле OpenPositions здесь не заполняется - это зона PositionRepository.
func (r *HistoryRepository) GetStats() (*models.Stats, error) {
	stats := &models.Stats{}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_pnl_pct), 0),
			COALESCE(SUM(CASE WHEN total_pnl_pct > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN total_pnl_pct <= 0 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(total_pnl_pct), 0),
			COALESCE(AVG(days_in_trade), 0)
		FROM history`

	err := r.db.QueryRow(query).Scan(
		&stats.TotalTrades,
		&stats.TotalPnlPct,
		&stats.WinTrades,
		&stats.LossTrades,
		&stats.AvgPnlPct,
		&stats.AvgDaysHeld,
	)
	if err != nil {
		return nil, err
	}

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.WinTrades) / float64(stats.TotalTrades)
	}

	if stats.ByExitReason, err = r.statsByExitReason(); err != nil {
		return nil, err
	}
	if stats.TopPairsByProfit, err = r.topPairs(true); err != nil {
		return nil, err
	}
	if stats.TopPairsByLoss, err = r.topPairs(false); err != nil {
		return nil, err
	}

	return stats, nil
}

// statsByExitReason возвращает разбивку результата по причинам выхода
func (r *HistoryRepository) statsByExitReason() ([]models.ExitReasonStat, error) {
	query := `
		SELECT exit_reason, COUNT(*), COALESCE(SUM(total_pnl_pct), 0)
		FROM history
		GROUP BY exit_reason
		ORDER BY COUNT(*) DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExitReasonStat
	for rows.Next() {
		var s models.ExitReasonStat
		if err := rows.Scan(&s.Reason, &s.Count, &s.PnlPct); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// topPairs возвращает топ-5 пар по суммарному результату
func (r *HistoryRepository) topPairs(byProfit bool) ([]models.PairStat, error) {
	order := "DESC"
	if !byProfit {
		order = "ASC"
	}

	query := `
		SELECT pair_symbol, COUNT(*), COALESCE(SUM(total_pnl_pct), 0) AS pnl
		FROM history
		GROUP BY pair_symbol
		ORDER BY pnl ` + order + `
		LIMIT 5`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PairStat
	for rows.Next() {
		var s models.PairStat
		if err := rows.Scan(&s.PairSymbol, &s.Trades, &s.PnlPct); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// Count возвращает количество закрытых сделок
func (r *HistoryRepository) Count() (int, error) {
	query := `SELECT COUNT(*) FROM history`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// scanHistoryRows читает строки history
func scanHistoryRows(rows *sql.Rows) ([]*models.HistoryRecord, error) {
	var records []*models.HistoryRecord
	for rows.Next() {
		record := &models.HistoryRecord{}
		err := rows.Scan(
			&record.ID,
			&record.PairSymbol,
			&record.Direction,
			&record.LongAsset,
			&record.ShortAsset,
			&record.EntryZScore,
			&record.ExitZScore,
			&record.ExitReason,
			&record.TotalPnlPct,
			&record.PartialExitTaken,
			&record.DaysInTrade,
			&record.OpenedAt,
			&record.ClosedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
