package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"publication-management-api/config"
	"publication-management-api/models"
	"publication-management-api/workflow"
)

var (
	statusCacheMu sync.RWMutex
	statusCache   *statusCacheEntry
	statusTTL     = 5 * time.Minute
)

type statusCacheEntry struct {
	statuses  []models.SubmissionStatus
	byName    map[string]models.SubmissionStatus
	byID      map[int]models.SubmissionStatus
	fetchedAt time.Time
}

func loadStatuses(force bool) (*statusCacheEntry, error) {
	statusCacheMu.RLock()
	cached := statusCache
	statusCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < statusTTL {
		return cached, nil
	}

	statusCacheMu.Lock()
	defer statusCacheMu.Unlock()

	if statusCache != nil && !force && time.Since(statusCache.fetchedAt) < statusTTL {
		return statusCache, nil
	}

	var rows []models.SubmissionStatus
	if err := config.DB.Where("delete_at IS NULL").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load submission statuses: %w", err)
	}

	byName := make(map[string]models.SubmissionStatus, len(rows))
	byID := make(map[int]models.SubmissionStatus, len(rows))
	for _, status := range rows {
		if status.Name == "" {
			continue
		}
		byName[strings.TrimSpace(status.Name)] = status
		byID[status.StatusID] = status
	}

	entry := &statusCacheEntry{
		statuses:  rows,
		byName:    byName,
		byID:      byID,
		fetchedAt: time.Now(),
	}
	statusCache = entry
	return entry, nil
}

// ClearStatusCache invalidates the in-memory status cache.
func ClearStatusCache() {
	statusCacheMu.Lock()
	defer statusCacheMu.Unlock()
	statusCache = nil
}

// GetStatusByName returns the submission status that matches the exact name.
func GetStatusByName(name string) (*models.SubmissionStatus, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, errors.New("status name is required")
	}

	entry, err := loadStatuses(false)
	if err != nil {
		return nil, err
	}

	if status, ok := entry.byName[trimmed]; ok {
		return &status, nil
	}

	// Force refresh cache once before giving up
	entry, err = loadStatuses(true)
	if err != nil {
		return nil, err
	}

	if status, ok := entry.byName[trimmed]; ok {
		return &status, nil
	}

	return nil, fmt.Errorf("status '%s' not found", trimmed)
}

// GetStatusByID resolves a status row from its primary key.
func GetStatusByID(id int) (*models.SubmissionStatus, error) {
	entry, err := loadStatuses(false)
	if err != nil {
		return nil, err
	}

	if status, ok := entry.byID[id]; ok {
		return &status, nil
	}

	entry, err = loadStatuses(true)
	if err != nil {
		return nil, err
	}

	if status, ok := entry.byID[id]; ok {
		return &status, nil
	}

	return nil, fmt.Errorf("status id %d not found", id)
}

// SeedStatuses inserts any workflow status missing from the table. Labels
// and badge colors come from the workflow status list.
func SeedStatuses() error {
	for _, info := range workflow.Statuses {
		var existing models.SubmissionStatus
		err := config.DB.Where("name = ?", info.Name).First(&existing).Error
		if err == nil {
			continue
		}
		row := models.SubmissionStatus{
			Name:       info.Name,
			Label:      info.Label,
			Background: info.Background,
			Text:       info.Text,
		}
		if err := config.DB.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to seed status %s: %w", info.Name, err)
		}
	}
	ClearStatusCache()
	return nil
}
