package service

import (
	"sync"
	"time"

	"statarb/internal/models"
)

// Количество уведомлений, удерживаемых в памяти
const maxRecentNotifications = 200

// Broadcaster доставляет уведомление подключенным клиентам
type Broadcaster interface {
	BroadcastNotification(n models.Notification)
}

// NotificationService - конвейер уведомлений торгового цикла.
//
// Реализует bot.Notifier: движок отдает событие и идет дальше.
// Доставка fire-and-forget - сбой или медленный клиент WebSocket
// никогда не блокирует и не роняет торговый цикл. Последние
// уведомления удерживаются в кольцевом буфере для REST-выдачи.
type NotificationService struct {
	mu     sync.Mutex
	recent []models.Notification
	nextID int

	hub Broadcaster // может быть nil
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(hub Broadcaster) *NotificationService {
	return &NotificationService{nextID: 1, hub: hub}
}

// Notify принимает событие движка
func (s *NotificationService) Notify(n models.Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	s.mu.Lock()
	n.ID = s.nextID
	s.nextID++
	s.recent = append(s.recent, n)
	if len(s.recent) > maxRecentNotifications {
		s.recent = s.recent[len(s.recent)-maxRecentNotifications:]
	}
	hub := s.hub
	s.mu.Unlock()

	if hub != nil {
		hub.BroadcastNotification(n)
	}
}

// GetRecent возвращает последние уведомления (новые в конце)
func (s *NotificationService) GetRecent(limit int) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]models.Notification, limit)
	copy(out, s.recent[len(s.recent)-limit:])
	return out
}

// GetByType возвращает последние уведомления указанных типов
func (s *NotificationService) GetByType(types []string, limit int) []models.Notification {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for i := len(s.recent) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if len(want) == 0 || want[s.recent[i].Type] {
			out = append(out, s.recent[i])
		}
	}
	// Разворачиваем в хронологический порядок
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Clear очищает буфер уведомлений
func (s *NotificationService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = nil
}

// Count возвращает количество удерживаемых уведомлений
func (s *NotificationService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recent)
}
