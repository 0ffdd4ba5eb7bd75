package database

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yeremiapane/cafe-api/models"
	"github.com/yeremiapane/cafe-api/utils"
	"gorm.io/gorm"
)

// Seed loads a JSON array of cafes from path into an empty cafe table.
// Ids in the file are ignored. It returns the number of inserted rows.
func Seed(db *gorm.DB, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	var count int64
	if err := db.Model(&models.Cafe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cafes: %w", err)
	}
	if count > 0 {
		utils.InfoLogger.Printf("Skipping seed, cafe table already has %d rows", count)
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var cafes []models.Cafe
	if err := json.Unmarshal(raw, &cafes); err != nil {
		return 0, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(cafes) == 0 {
		return 0, nil
	}
	for i := range cafes {
		cafes[i].ID = 0
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&cafes, 100).Error
	}); err != nil {
		return 0, fmt.Errorf("failed to insert seed cafes: %w", err)
	}

	utils.InfoLogger.Printf("Seeded %d cafes from %s", len(cafes), path)
	return len(cafes), nil
}
