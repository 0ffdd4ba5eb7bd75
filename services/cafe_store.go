package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/yeremiapane/cafe-api/models"
	"gorm.io/gorm"
)

var (
	ErrCafeNotFound  = errors.New("cafe not found")
	ErrDuplicateCafe = errors.New("cafe already exists")
)

// CafeStore is the persistence layer for cafes. Each mutation runs in its own
// transaction; there is no application level locking.
type CafeStore struct {
	db *gorm.DB
}

// NewCafeStore membuat instance baru CafeStore
func NewCafeStore(db *gorm.DB) *CafeStore {
	return &CafeStore{db: db}
}

// List returns every cafe in insertion order.
func (s *CafeStore) List(ctx context.Context) ([]models.Cafe, error) {
	cafes := []models.Cafe{}
	if err := s.db.WithContext(ctx).Order("id").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	return cafes, nil
}

// Random picks one cafe uniformly.
func (s *CafeStore) Random(ctx context.Context) (*models.Cafe, error) {
	cafes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(cafes) == 0 {
		return nil, ErrCafeNotFound
	}
	cafe := cafes[rand.IntN(len(cafes))]
	return &cafe, nil
}

// FindByLocation does an exact, case-sensitive match. No match is an empty slice.
func (s *CafeStore) FindByLocation(ctx context.Context, location string) ([]models.Cafe, error) {
	cafes := []models.Cafe{}
	// BINARY keeps mysql's default collation from folding case; sqlite compares bytes already.
	query := s.db.WithContext(ctx)
	if s.db.Dialector.Name() == "mysql" {
		query = query.Where("BINARY location = ?", location)
	} else {
		query = query.Where("location = ?", location)
	}
	if err := query.Order("id").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("failed to search cafes: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) Get(ctx context.Context, id int) (*models.Cafe, error) {
	var cafe models.Cafe
	if err := s.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("failed to get cafe %d: %w", id, err)
	}
	return &cafe, nil
}

func (s *CafeStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Cafe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cafes: %w", err)
	}
	return count, nil
}

// Create inserts cafe and fills in its store-assigned id.
func (s *CafeStore) Create(ctx context.Context, cafe *models.Cafe) error {
	cafe.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Cafe{}).Where("name = ?", cafe.Name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateCafe
		}
		return tx.Create(cafe).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateCafe), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateCafe
	default:
		return fmt.Errorf("failed to create cafe: %w", err)
	}
}

// UpdatePrice overwrites coffee_price only. A nil price stores NULL.
func (s *CafeStore) UpdatePrice(ctx context.Context, id int, price *string) (*models.Cafe, error) {
	var cafe models.Cafe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cafe, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&cafe).Update("coffee_price", price).Error; err != nil {
			return err
		}
		cafe.CoffeePrice = price
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("failed to update price of cafe %d: %w", id, err)
	}
	return &cafe, nil
}

// Delete removes the cafe and returns it as it was.
func (s *CafeStore) Delete(ctx context.Context, id int) (*models.Cafe, error) {
	var cafe models.Cafe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cafe, id).Error; err != nil {
			return err
		}
		return tx.Delete(&cafe).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("failed to delete cafe %d: %w", id, err)
	}
	return &cafe, nil
}
