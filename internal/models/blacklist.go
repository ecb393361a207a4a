package models

import "time"

// BlacklistEntry представляет запись в черном списке инструментов
// Инструменты из списка исключаются из вселенной сканера
type BlacklistEntry struct {
	ID        int       `json:"id" db:"id"`
	Asset     string    `json:"asset" db:"asset"`   // BTCUSDT
	Reason    string    `json:"reason" db:"reason"` // причина исключения
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
