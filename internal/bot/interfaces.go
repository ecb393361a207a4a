package bot

import "statarb/internal/models"

// Интерфейсы хранилищ, которые нужны движку.
// Реализации живут в internal/repository, зависимости внедряются
// при сборке приложения, в тестах подставляются моки.

// WatchlistStore - хранилище пар-кандидатов
type WatchlistStore interface {
	Upsert(entry *models.WatchlistEntry) error
	GetAll() ([]*models.WatchlistEntry, error)
	GetBySymbol(pairSymbol string) (*models.WatchlistEntry, error)
	Delete(pairSymbol string) error
}

// PositionStore - хранилище открытых позиций
type PositionStore interface {
	Create(p *models.Position) error
	GetBySymbol(pairSymbol string) (*models.Position, error)
	GetAll() ([]*models.Position, error)
	Update(p *models.Position) error
	CloseWithHistory(p *models.Position, record *models.HistoryRecord) error
	Count() (int, error)
}

// BlacklistStore - хранилище исключённых инструментов
type BlacklistStore interface {
	GetAll() ([]*models.BlacklistEntry, error)
}

// Notifier доставляет уведомления о событиях цикла.
// Доставка fire-and-forget: торговый цикл никогда не блокируется
// и не падает из-за уведомлений.
type Notifier interface {
	Notify(n models.Notification)
}

// NopNotifier - заглушка для тестов и сборок без уведомлений
type NopNotifier struct{}

func (NopNotifier) Notify(models.Notification) {}
