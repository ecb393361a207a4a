package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"statarb/internal/models"
	"statarb/internal/service"
)

// NotificationHandler отвечает за журнал уведомлений
//
// Endpoints:
// - GET /api/v1/notifications - получение списка уведомлений
// - GET /api/v1/notifications?types=ENTRY,EXIT - с фильтрацией по типам
// - GET /api/v1/notifications?limit=50 - с ограничением количества
// - DELETE /api/v1/notifications - очистка журнала
//
// Типы уведомлений:
// - ENTRY: вход в позицию
// - PARTIAL_EXIT: частичный выход
// - EXIT: финальный выход
// - STOP_LOSS: срабатывание stop-loss
// - SCAN: завершение сканирования
// - ERROR: ошибка цикла/данных
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

// NewNotificationHandler создает новый NotificationHandler с внедрением зависимости
func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotificationsResponse представляет ответ списка уведомлений
type GetNotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int                   `json:"total"`
}

// GetNotifications возвращает список уведомлений с фильтрацией
//
// GET /api/v1/notifications
//
// Query параметры:
// - types (string): фильтр по типам через запятую (ENTRY,PARTIAL_EXIT,EXIT,STOP_LOSS,SCAN,ERROR)
// - limit (int): количество записей (по умолчанию 100)
//
// Примеры запросов:
// - GET /api/v1/notifications - последние 100 уведомлений
// - GET /api/v1/notifications?types=STOP_LOSS,ERROR - только критические
// - GET /api/v1/notifications?types=ENTRY,EXIT&limit=20 - только сделки, 20 записей
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	typesParam := r.URL.Query().Get("types")
	limitParam := r.URL.Query().Get("limit")

	var types []string
	if typesParam != "" {
		for _, part := range strings.Split(typesParam, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				types = append(types, strings.ToUpper(trimmed))
			}
		}
	}

	limit := 100
	if limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var notifications []models.Notification
	if len(types) > 0 {
		notifications = h.notificationService.GetByType(types, limit)
	} else {
		notifications = h.notificationService.GetRecent(limit)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	respondWithJSON(w, http.StatusOK, GetNotificationsResponse{
		Notifications: notifications,
		Total:         len(notifications),
	})
}

// ClearNotifications очищает журнал уведомлений
//
// DELETE /api/v1/notifications
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	h.notificationService.Clear()
	respondWithJSON(w, http.StatusOK, SuccessResponse{Message: "notifications cleared"})
}
