package market

import (
	"context"

	"statarb/internal/models"
)

// MarketData определяет унифицированный интерфейс источника рыночных данных
//
// Движку нужны только публичные данные перпетуальных фьючерсов:
// вселенная инструментов, исторические свечи и текущие цены.
// Торговых операций нет - исполнение вне зоны ответственности движка.
type MarketData interface {
	// GetInstruments возвращает вселенную линейных перпетуалов
	// с 24h объёмом, открытым интересом и funding rate
	GetInstruments(ctx context.Context) ([]models.Instrument, error)

	// GetCandles возвращает свечи символа в хронологическом порядке
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)

	// GetMarkPrice возвращает текущую mark price символа
	GetMarkPrice(ctx context.Context, symbol string) (float64, error)

	// GetName возвращает имя источника данных
	GetName() string

	// Close закрывает соединения источника
	Close() error
}

// MarketError представляет ошибку источника рыночных данных
type MarketError struct {
	Source   string
	Code     string
	Message  string
	Original error
}

func (e *MarketError) Error() string {
	return e.Source + ": " + e.Message
}

// Unwrap возвращает оригинальную ошибку для поддержки errors.Is() и errors.As()
func (e *MarketError) Unwrap() error {
	return e.Original
}
