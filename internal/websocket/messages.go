package websocket

import (
	"time"

	"statarb/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypePositionUpdate - обновление открытой позиции
	// Отправляется после каждого цикла монитора для каждой открытой позиции
	MessageTypePositionUpdate MessageType = "positionUpdate"

	// MessageTypeWatchlistUpdate - снимок watchlist
	// Отправляется после завершения сканирования
	MessageTypeWatchlistUpdate MessageType = "watchlistUpdate"

	// MessageTypeNotification - новое уведомление
	// Отправляется при событиях: вход, частичный выход, выход, stop-loss, ошибки
	MessageTypeNotification MessageType = "notification"

	// MessageTypeStatsUpdate - обновление торговой статистики
	// Отправляется после закрытия позиции
	MessageTypeStatsUpdate MessageType = "statsUpdate"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// PositionUpdateMessage - сообщение об обновлении спредовой позиции
//
// Содержит актуальные метрики позиции после цикла монитора:
// текущий z-score, PnL, здоровье, корреляция и дрейф беты.
type PositionUpdateMessage struct {
	BaseMessage
	PairSymbol string              `json:"pair_symbol"`
	Data       *PositionUpdateData `json:"data"`
}

// PositionUpdateData - данные обновления позиции
type PositionUpdateData struct {
	// Состояние позиции (ENTERED, PARTIALLY_EXITED)
	State string `json:"state"`

	// Текущий z-score спреда
	CurrentZ float64 `json:"current_z"`

	// Взвешенный PnL позиции в процентах
	CurrentPnlPct float64 `json:"current_pnl_pct"`

	// Текущая корреляция лог-доходностей
	Correlation float64 `json:"correlation"`

	// Относительный дрейф беты от значения на входе
	BetaDrift float64 `json:"beta_drift"`

	// Здоровье позиции [0,100] и полоса (STRONG/OK/WEAK/BROKEN)
	HealthScore int    `json:"health_score"`
	HealthBand  string `json:"health_band"`

	// Частичный выход уже сделан
	PartialExitTaken bool `json:"partial_exit_taken"`

	LastUpdate time.Time `json:"last_update"`
}

// WatchlistUpdateMessage - снимок watchlist после сканирования
type WatchlistUpdateMessage struct {
	BaseMessage
	Pairs []WatchlistPairData `json:"pairs"`
}

// WatchlistPairData - данные одной пары watchlist
type WatchlistPairData struct {
	PairSymbol     string  `json:"pair_symbol"`
	Sector         string  `json:"sector"`
	CrossSector    bool    `json:"cross_sector"`
	ZScore         float64 `json:"z_score"`
	Conviction     float64 `json:"conviction"`
	EntryThreshold float64 `json:"entry_threshold"`
	IsReady        bool    `json:"is_ready"`
}

// NotificationMessage - сообщение о новом уведомлении
type NotificationMessage struct {
	BaseMessage
	Data *NotificationData `json:"data"`
}

// NotificationData - данные уведомления
type NotificationData struct {
	ID int `json:"id"`

	// Тип уведомления (ENTRY, PARTIAL_EXIT, EXIT, STOP_LOSS, SCAN, ERROR)
	Type string `json:"type"`

	// Уровень важности (info, warn, error)
	Severity string `json:"severity"`

	// Символ связанной пары (если применимо)
	PairSymbol string `json:"pair_symbol,omitempty"`

	Message string `json:"message"`

	// Дополнительные метаданные (z-score, PnL, причина выхода)
	Meta map[string]interface{} `json:"meta,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// StatsUpdateMessage - сообщение об обновлении статистики
type StatsUpdateMessage struct {
	BaseMessage
	Data *models.Stats `json:"data"`
}

// ============ Фабричные функции для создания сообщений ============

// NewPositionUpdateMessage создает сообщение обновления позиции
func NewPositionUpdateMessage(pos *models.Position) *PositionUpdateMessage {
	return &PositionUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePositionUpdate,
			Timestamp: time.Now(),
		},
		PairSymbol: pos.PairSymbol,
		Data: &PositionUpdateData{
			State:            pos.State,
			CurrentZ:         pos.CurrentZ,
			CurrentPnlPct:    pos.CurrentPnlPct,
			Correlation:      pos.CurrentCorrelation,
			BetaDrift:        pos.BetaDrift,
			HealthScore:      pos.HealthScore,
			HealthBand:       pos.HealthBand,
			PartialExitTaken: pos.PartialExitTaken,
			LastUpdate:       pos.UpdatedAt,
		},
	}
}

// NewWatchlistUpdateMessage создает снимок watchlist
func NewWatchlistUpdateMessage(entries []*models.WatchlistEntry) *WatchlistUpdateMessage {
	pairs := make([]WatchlistPairData, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, WatchlistPairData{
			PairSymbol:     e.PairSymbol,
			Sector:         e.Sector,
			CrossSector:    e.CrossSector,
			ZScore:         e.Fitness.ZScore,
			Conviction:     e.Fitness.Conviction,
			EntryThreshold: e.EntryThreshold,
			IsReady:        e.IsReady,
		})
	}
	return &WatchlistUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeWatchlistUpdate,
			Timestamp: time.Now(),
		},
		Pairs: pairs,
	}
}

// NewNotificationMessage создает сообщение уведомления
func NewNotificationMessage(n models.Notification) *NotificationMessage {
	return &NotificationMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeNotification,
			Timestamp: time.Now(),
		},
		Data: &NotificationData{
			ID:         n.ID,
			Type:       n.Type,
			Severity:   n.Severity,
			PairSymbol: n.PairSymbol,
			Message:    n.Message,
			Meta:       n.Meta,
			Timestamp:  n.Timestamp,
		},
	}
}

// NewStatsUpdateMessage создает сообщение обновления статистики
func NewStatsUpdateMessage(stats *models.Stats) *StatsUpdateMessage {
	return &StatsUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeStatsUpdate,
			Timestamp: time.Now(),
		},
		Data: stats,
	}
}
