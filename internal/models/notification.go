package models

import "time"

// Notification представляет уведомление о событии торгового цикла
type Notification struct {
	ID         int                    `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	Type       string                 `json:"type"`     // ENTRY, PARTIAL_EXIT, EXIT, STOP_LOSS, SCAN, ERROR
	Severity   string                 `json:"severity"` // info, warn, error
	PairSymbol string                 `json:"pair_symbol,omitempty"`
	Message    string                 `json:"message"`
	Meta       map[string]interface{} `json:"meta,omitempty"` // дополнительные данные
}

// Типы уведомлений
const (
	NotificationTypeEntry       = "ENTRY"        // вход в позицию
	NotificationTypePartialExit = "PARTIAL_EXIT" // частичный выход
	NotificationTypeExit        = "EXIT"         // финальный выход
	NotificationTypeStopLoss    = "STOP_LOSS"    // срабатывание stop-loss
	NotificationTypeScan        = "SCAN"         // завершение сканирования
	NotificationTypeError       = "ERROR"        // ошибка цикла/данных
)

// Уровни важности
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)
