package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"statarb/internal/models"
)

// Ошибки репозитория watchlist
var (
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")
)

// WatchlistRepository - работа с таблицей watchlist
//
// Снимок fitness хранится в JSONB колонке: он пересоздаётся целиком
// каждый цикл мониторинга и не участвует в SQL-фильтрации.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository создает новый экземпляр репозитория
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

const watchlistColumns = `
	id, pair_symbol, asset1, asset2, sector, cross_sector,
	entry_threshold, exit_threshold, max_historical_z, initial_beta,
	fitness, is_ready, reversion_warning, created_at, updated_at`

// Upsert вставляет или обновляет запись по pair_symbol
//
// При конфликте initial_beta и created_at сохраняются от первой вставки:
// бета обнаружения фиксируется и не дрейфует вместе с переоценками.
func (r *WatchlistRepository) Upsert(entry *models.WatchlistEntry) error {
	fitnessJSON, err := json.Marshal(entry.Fitness)
	if err != nil {
		return err
	}

	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	query := `
		INSERT INTO watchlist (
			pair_symbol, asset1, asset2, sector, cross_sector,
			entry_threshold, exit_threshold, max_historical_z, initial_beta,
			fitness, is_ready, reversion_warning, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (pair_symbol) DO UPDATE SET
			sector = EXCLUDED.sector,
			cross_sector = EXCLUDED.cross_sector,
			entry_threshold = EXCLUDED.entry_threshold,
			exit_threshold = EXCLUDED.exit_threshold,
			max_historical_z = EXCLUDED.max_historical_z,
			fitness = EXCLUDED.fitness,
			is_ready = EXCLUDED.is_ready,
			reversion_warning = EXCLUDED.reversion_warning,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	return r.db.QueryRow(
		query,
		entry.PairSymbol,
		entry.Asset1,
		entry.Asset2,
		entry.Sector,
		entry.CrossSector,
		entry.EntryThreshold,
		entry.ExitThreshold,
		entry.MaxHistoricalZ,
		entry.InitialBeta,
		fitnessJSON,
		entry.IsReady,
		entry.ReversionWarning,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID)
}

// GetAll возвращает весь watchlist, готовые к входу пары первыми
func (r *WatchlistRepository) GetAll() ([]*models.WatchlistEntry, error) {
	query := `
		SELECT ` + watchlistColumns + `
		FROM watchlist
		ORDER BY is_ready DESC, pair_symbol`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WatchlistEntry
	for rows.Next() {
		entry, err := scanWatchlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetBySymbol возвращает запись по символу пары
func (r *WatchlistRepository) GetBySymbol(pairSymbol string) (*models.WatchlistEntry, error) {
	query := `
		SELECT ` + watchlistColumns + `
		FROM watchlist
		WHERE pair_symbol = $1`

	entry, err := scanWatchlistEntry(r.db.QueryRow(query, pairSymbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWatchlistEntryNotFound
		}
		return nil, err
	}

	return entry, nil
}

// Delete удаляет запись по символу пары
func (r *WatchlistRepository) Delete(pairSymbol string) error {
	query := `DELETE FROM watchlist WHERE pair_symbol = $1`

	result, err := r.db.Exec(query, pairSymbol)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrWatchlistEntryNotFound
	}

	return nil
}

// Count возвращает размер watchlist
func (r *WatchlistRepository) Count() (int, error) {
	query := `SELECT COUNT(*) FROM watchlist`

	var count int
	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// scanner абстрагирует *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanWatchlistEntry читает одну строку watchlist
func scanWatchlistEntry(row scanner) (*models.WatchlistEntry, error) {
	entry := &models.WatchlistEntry{}
	var fitnessJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.PairSymbol,
		&entry.Asset1,
		&entry.Asset2,
		&entry.Sector,
		&entry.CrossSector,
		&entry.EntryThreshold,
		&entry.ExitThreshold,
		&entry.MaxHistoricalZ,
		&entry.InitialBeta,
		&fitnessJSON,
		&entry.IsReady,
		&entry.ReversionWarning,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(fitnessJSON) > 0 {
		if err := json.Unmarshal(fitnessJSON, &entry.Fitness); err != nil {
			return nil, err
		}
	}

	return entry, nil
}
