package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"statarb/internal/service"

	"github.com/gorilla/mux"
)

// BlacklistHandler отвечает за управление черным списком инструментов
//
// Endpoints:
// - GET /api/v1/blacklist            - получение черного списка
// - POST /api/v1/blacklist           - добавление инструмента
// - DELETE /api/v1/blacklist/{asset} - удаление инструмента
//
// Черный список исключает инструмент из вселенной сканера: пары с
// заблокированным инструментом не оцениваются и не публикуются.
// Открытые позиции блокировка не трогает.
type BlacklistHandler struct {
	blacklistService service.BlacklistServiceInterface
}

// NewBlacklistHandler создает новый BlacklistHandler с внедрением зависимости
func NewBlacklistHandler(blacklistService service.BlacklistServiceInterface) *BlacklistHandler {
	return &BlacklistHandler{blacklistService: blacklistService}
}

// AddToBlacklistRequest структура запроса на добавление в черный список
type AddToBlacklistRequest struct {
	Asset  string `json:"asset"`            // BTCUSDT
	Reason string `json:"reason,omitempty"` // причина блокировки
}

// GetBlacklist возвращает весь черный список
//
// GET /api/v1/blacklist
func (h *BlacklistHandler) GetBlacklist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.blacklistService.GetBlacklist()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get blacklist: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// AddToBlacklist добавляет инструмент в черный список
//
// POST /api/v1/blacklist
//
// Request Body:
//
//	{"asset": "LUNCUSDT", "reason": "delisted"}
//
// HTTP коды:
// - 201 Created: инструмент добавлен
// - 400 Bad Request: пустой символ или невалидный JSON
// - 409 Conflict: инструмент уже в списке
func (h *BlacklistHandler) AddToBlacklist(w http.ResponseWriter, r *http.Request) {
	var req AddToBlacklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.blacklistService.AddToBlacklist(req.Asset, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlacklistAssetEmpty):
			respondWithError(w, http.StatusBadRequest, "asset cannot be empty")
		case errors.Is(err, service.ErrBlacklistAssetExists):
			respondWithError(w, http.StatusConflict, "asset already in blacklist")
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to add to blacklist: "+err.Error())
		}
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

// RemoveFromBlacklist удаляет инструмент из черного списка
//
// DELETE /api/v1/blacklist/{asset}
//
// HTTP коды:
// - 204 No Content: инструмент удален
// - 404 Not Found: инструмент не в списке
func (h *BlacklistHandler) RemoveFromBlacklist(w http.ResponseWriter, r *http.Request) {
	asset := mux.Vars(r)["asset"]

	if err := h.blacklistService.RemoveFromBlacklist(asset); err != nil {
		switch {
		case errors.Is(err, service.ErrBlacklistNotFound), errors.Is(err, service.ErrBlacklistAssetEmpty):
			respondWithError(w, http.StatusNotFound, "asset not in blacklist")
		default:
			respondWithError(w, http.StatusInternalServerError, "failed to remove from blacklist: "+err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
