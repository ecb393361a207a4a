package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config - параметры повторных попыток.
//
// Экспоненциальный backoff с jitter:
// delay = min(InitialDelay * Multiplier^attempt, MaxDelay) ± jitter.
// Jitter размазывает повторы по времени, чтобы клиенты не били
// в упавший источник синхронно.
type Config struct {
	// MaxRetries - число попыток, включая первую.
	// Ноль и отрицательные значения означают бесконечные повторы.
	MaxRetries int

	// InitialDelay - задержка перед вторым заходом.
	InitialDelay time.Duration

	// MaxDelay - потолок задержки.
	MaxDelay time.Duration

	// Multiplier - множитель экспоненциального роста.
	Multiplier float64

	// JitterFactor - доля случайной вариации задержки, 0..1.
	JitterFactor float64

	// RetryIf решает, повторять ли данную ошибку.
	// nil = повторять всё.
	RetryIf func(error) bool
}

// NetworkConfig - профиль для запросов рыночных данных.
//
// 4 попытки с задержками ~1s, 2s, 4s; ошибки, помеченные Permanent,
// не повторяются.
func NetworkConfig() Config {
	return Config{
		MaxRetries:   4,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.2,
		RetryIf:      IsRetryable,
	}
}

func (c *Config) validate() {
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.JitterFactor < 0 {
		c.JitterFactor = 0
	}
	if c.JitterFactor > 1 {
		c.JitterFactor = 1
	}
}

// calculateDelay считает задержку перед попыткой attempt+2
func (c *Config) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.JitterFactor > 0 {
		delay += delay * c.JitterFactor * (rand.Float64()*2 - 1)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Do выполняет операцию с повторами по конфигурации.
// Возвращает nil при первом успехе, иначе последнюю ошибку.
// Отмена контекста прерывает и ожидание между попытками.
func Do(ctx context.Context, operation func() error, cfg Config) error {
	cfg.validate()

	var lastErr error

	for attempt := 0; cfg.MaxRetries <= 0 || attempt < cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return lastErr
			}
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.RetryIf != nil && !cfg.RetryIf(err) {
			return err
		}
		if cfg.MaxRetries > 0 && attempt >= cfg.MaxRetries-1 {
			break
		}

		select {
		case <-time.After(cfg.calculateDelay(attempt)):
		case <-ctx.Done():
			return lastErr
		}
	}

	return lastErr
}

// RetryableError - ошибка, которая сама знает, повторяема ли она
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable сообщает, имеет ли смысл повторять операцию.
// Ошибки с Retryable() решают сами, остальные повторяются.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}
	return true
}

// PermanentError помечает ошибку как неповторяемую:
// невалидный запрос не станет валидным от повтора
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func (e *PermanentError) Retryable() bool {
	return false
}

// Permanent оборачивает ошибку в PermanentError
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
