package service

import (
	"errors"
	"strings"

	"statarb/internal/models"
	"statarb/internal/repository"
)

// Ошибки сервиса черного списка
var (
	ErrBlacklistAssetEmpty  = errors.New("asset cannot be empty")
	ErrBlacklistAssetExists = errors.New("asset already in blacklist")
	ErrBlacklistNotFound    = errors.New("blacklist entry not found")
)

// BlacklistService предоставляет бизнес-логику черного списка.
//
// Черный список ИСКЛЮЧАЕТ инструменты из вселенной сканера:
// пары с заблокированным инструментом не оцениваются и не публикуются.
// Открытые позиции блокировка не трогает - они доживают по правилам выхода.
type BlacklistService struct {
	blacklistRepo BlacklistRepositoryInterface
}

// NewBlacklistService создает новый экземпляр BlacklistService
func NewBlacklistService(blacklistRepo BlacklistRepositoryInterface) *BlacklistService {
	return &BlacklistService{blacklistRepo: blacklistRepo}
}

// AddToBlacklist добавляет инструмент в черный список.
// Символ приводится к верхнему регистру.
func (s *BlacklistService) AddToBlacklist(asset, reason string) (*models.BlacklistEntry, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if asset == "" {
		return nil, ErrBlacklistAssetEmpty
	}

	exists, err := s.blacklistRepo.Exists(asset)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBlacklistAssetExists
	}

	entry := &models.BlacklistEntry{
		Asset:  asset,
		Reason: strings.TrimSpace(reason),
	}
	if err := s.blacklistRepo.Create(entry); err != nil {
		// Гонка между Exists и Create
		if errors.Is(err, repository.ErrBlacklistEntryExists) {
			return nil, ErrBlacklistAssetExists
		}
		return nil, err
	}
	return entry, nil
}

// GetBlacklist возвращает весь черный список
func (s *BlacklistService) GetBlacklist() ([]*models.BlacklistEntry, error) {
	return s.blacklistRepo.GetAll()
}

// RemoveFromBlacklist убирает инструмент из черного списка
func (s *BlacklistService) RemoveFromBlacklist(asset string) error {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if asset == "" {
		return ErrBlacklistAssetEmpty
	}
	if err := s.blacklistRepo.Delete(asset); err != nil {
		if errors.Is(err, repository.ErrBlacklistEntryNotFound) {
			return ErrBlacklistNotFound
		}
		return err
	}
	return nil
}

// IsBlacklisted проверяет, заблокирован ли инструмент
func (s *BlacklistService) IsBlacklisted(asset string) (bool, error) {
	return s.blacklistRepo.Exists(strings.ToUpper(strings.TrimSpace(asset)))
}

// GetCount возвращает размер черного списка
func (s *BlacklistService) GetCount() (int, error) {
	return s.blacklistRepo.Count()
}
