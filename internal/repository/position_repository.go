package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"statarb/internal/models"
)

// Ошибки репозитория позиций
var (
	ErrPositionNotFound = errors.New("position not found")
	ErrPositionExists   = errors.New("position for pair already exists")
)

// PositionRepository - работа с таблицей positions
//
// Таблица держит только живые позиции (ENTERED, PARTIALLY_EXITED).
// Финальный выход атомарно переносит позицию в history: удаление
// и вставка архивной записи в одной транзакции.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository создает новый экземпляр репозитория
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

const positionColumns = `
	id, pair_symbol, state, direction, long_asset, short_asset,
	long_weight, short_weight, long_entry_price, short_entry_price,
	entry_z_score, entry_threshold, entry_half_life, max_historical_z,
	current_z, current_pnl_pct, current_correlation, current_half_life,
	current_hurst, beta_drift, max_beta_drift, health_score, health_band,
	partial_exit_taken, partial_exit_pnl, opened_at, updated_at`

// Create сохраняет новую позицию
func (r *PositionRepository) Create(p *models.Position) error {
	entryHL, currentHL, currentHurst, err := marshalPositionMetrics(p)
	if err != nil {
		return err
	}

	now := time.Now()
	if p.OpenedAt.IsZero() {
		p.OpenedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO positions (
			pair_symbol, state, direction, long_asset, short_asset,
			long_weight, short_weight, long_entry_price, short_entry_price,
			entry_z_score, entry_threshold, entry_half_life, max_historical_z,
			current_z, current_pnl_pct, current_correlation, current_half_life,
			current_hurst, beta_drift, max_beta_drift, health_score, health_band,
			partial_exit_taken, partial_exit_pnl, opened_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING id`

	err = r.db.QueryRow(
		query,
		p.PairSymbol, p.State, p.Direction, p.LongAsset, p.ShortAsset,
		p.LongWeight, p.ShortWeight, p.LongEntryPrice, p.ShortEntryPrice,
		p.EntryZScore, p.EntryThreshold, entryHL, p.MaxHistoricalZ,
		p.CurrentZ, p.CurrentPnlPct, p.CurrentCorrelation, currentHL,
		currentHurst, p.BetaDrift, p.MaxBetaDrift, p.HealthScore, p.HealthBand,
		p.PartialExitTaken, p.PartialExitPnl, p.OpenedAt, p.UpdatedAt,
	).Scan(&p.ID)

	if err != nil {
		if isPositionUniqueViolation(err) {
			return ErrPositionExists
		}
		return err
	}

	return nil
}

// GetBySymbol возвращает позицию по символу пары
func (r *PositionRepository) GetBySymbol(pairSymbol string) (*models.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE pair_symbol = $1`

	p, err := scanPosition(r.db.QueryRow(query, pairSymbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	return p, nil
}

// GetAll возвращает все открытые позиции
func (r *PositionRepository) GetAll() ([]*models.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		ORDER BY opened_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

// Update сохраняет изменяемые поля позиции (текущие метрики и состояние)
//
// Замороженные параметры входа намеренно не обновляются.
func (r *PositionRepository) Update(p *models.Position) error {
	_, currentHL, currentHurst, err := marshalPositionMetrics(p)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now()

	query := `
		UPDATE positions SET
			state = $1,
			current_z = $2,
			current_pnl_pct = $3,
			current_correlation = $4,
			current_half_life = $5,
			current_hurst = $6,
			beta_drift = $7,
			max_beta_drift = $8,
			health_score = $9,
			health_band = $10,
			partial_exit_taken = $11,
			partial_exit_pnl = $12,
			updated_at = $13
		WHERE pair_symbol = $14`

	result, err := r.db.Exec(
		query,
		p.State, p.CurrentZ, p.CurrentPnlPct, p.CurrentCorrelation,
		currentHL, currentHurst, p.BetaDrift, p.MaxBetaDrift,
		p.HealthScore, p.HealthBand, p.PartialExitTaken, p.PartialExitPnl,
		p.UpdatedAt, p.PairSymbol,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPositionNotFound
	}

	return nil
}

// CloseWithHistory атомарно закрывает позицию: удаляет из positions
// и вставляет архивную запись в history в одной транзакции
func (r *PositionRepository) CloseWithHistory(p *models.Position, record *models.HistoryRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM positions WHERE pair_symbol = $1`, p.PairSymbol)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPositionNotFound
	}

	query := `
		INSERT INTO history (
			pair_symbol, direction, long_asset, short_asset,
			entry_z_score, exit_z_score, exit_reason, total_pnl_pct,
			partial_exit_taken, days_in_trade, opened_at, closed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	if record.ClosedAt.IsZero() {
		record.ClosedAt = time.Now()
	}

	err = tx.QueryRow(
		query,
		record.PairSymbol, record.Direction, record.LongAsset, record.ShortAsset,
		record.EntryZScore, record.ExitZScore, record.ExitReason, record.TotalPnlPct,
		record.PartialExitTaken, record.DaysInTrade, record.OpenedAt, record.ClosedAt,
	).Scan(&record.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Count возвращает количество открытых позиций
func (r *PositionRepository) Count() (int, error) {
	query := `SELECT COUNT(*) FROM positions`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// marshalPositionMetrics сериализует tagged-optional метрики в JSONB
func marshalPositionMetrics(p *models.Position) (entryHL, currentHL, currentHurst []byte, err error) {
	if entryHL, err = json.Marshal(p.EntryHalfLife); err != nil {
		return nil, nil, nil, err
	}
	if currentHL, err = json.Marshal(p.CurrentHalfLife); err != nil {
		return nil, nil, nil, err
	}
	if currentHurst, err = json.Marshal(p.CurrentHurst); err != nil {
		return nil, nil, nil, err
	}
	return entryHL, currentHL, currentHurst, nil
}

// scanPosition читает одну строку positions
func scanPosition(row scanner) (*models.Position, error) {
	p := &models.Position{}
	var entryHL, currentHL, currentHurst []byte

	err := row.Scan(
		&p.ID, &p.PairSymbol, &p.State, &p.Direction, &p.LongAsset, &p.ShortAsset,
		&p.LongWeight, &p.ShortWeight, &p.LongEntryPrice, &p.ShortEntryPrice,
		&p.EntryZScore, &p.EntryThreshold, &entryHL, &p.MaxHistoricalZ,
		&p.CurrentZ, &p.CurrentPnlPct, &p.CurrentCorrelation, &currentHL,
		&currentHurst, &p.BetaDrift, &p.MaxBetaDrift, &p.HealthScore, &p.HealthBand,
		&p.PartialExitTaken, &p.PartialExitPnl, &p.OpenedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(entryHL) > 0 {
		if err := json.Unmarshal(entryHL, &p.EntryHalfLife); err != nil {
			return nil, err
		}
	}
	if len(currentHL) > 0 {
		if err := json.Unmarshal(currentHL, &p.CurrentHalfLife); err != nil {
			return nil, err
		}
	}
	if len(currentHurst) > 0 {
		if err := json.Unmarshal(currentHurst, &p.CurrentHurst); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// isPositionUniqueViolation проверяет, является ли ошибка нарушением UNIQUE constraint
func isPositionUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "23505")
}
