// Package composition maintains the ordered ingredient list of a cosmetic.
// Positions are assigned automatically when omitted and uniqueness of both
// the (cosmetic, ingredient) pair and the (cosmetic, position) pair is
// enforced by database constraints rather than pre-checks alone.
package composition

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

var (
	// ErrNotFound signals an unknown cosmetic barcode or ingredient
	// reference number in a link request.
	ErrNotFound = errors.New("composition: cosmetic or ingredient not found")
	// ErrDuplicateLink signals an attempt to link the same ingredient twice
	// to one cosmetic.
	ErrDuplicateLink = errors.New("composition: ingredient already linked to cosmetic")
	// ErrPositionConflict signals that two writers raced for the same
	// position and the retry could not resolve it.
	ErrPositionConflict = errors.New("composition: position already taken")
)

// Service sequences composition links on top of a gorm handle. The handle
// must be opened with TranslateError so constraint violations surface as
// gorm.ErrDuplicatedKey.
type Service struct {
	db *gorm.DB
	// nextPos computes the next free position inside the create
	// transaction. Indirected so tests can model a writer racing the
	// assignment.
	nextPos func(tx *gorm.DB, barcode string) (uint, error)
}

// NewService returns a Service bound to the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, nextPos: nextPosition}
}

// CreateLink inserts a composition link. When position is nil the link is
// appended after the highest existing position of the cosmetic, starting at
// 1 for an empty composition. The read-max-and-insert pair runs in one
// transaction; a position collision from a concurrent writer is retried once
// with a recomputed position before ErrPositionConflict is returned.
func (s *Service) CreateLink(ctx context.Context, barcode string, refNo int, position *uint) (*models.CosmeticComposition, error) {
	link, err := s.tryCreate(ctx, barcode, refNo, position)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, ErrPositionConflict) {
		return nil, err
	}

	applog.Debug(ctx, "composition position conflict, retrying once", "barcode", barcode, "ingredient", refNo)
	return s.tryCreate(ctx, barcode, refNo, position)
}

func (s *Service) tryCreate(ctx context.Context, barcode string, refNo int, position *uint) (*models.CosmeticComposition, error) {
	link := &models.CosmeticComposition{
		CosmeticBarcode: barcode,
		IngredientRefNo: refNo,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cosmetic models.Cosmetic
		if err := tx.Select("barcode").First(&cosmetic, "barcode = ?", barcode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cosmetic %s", ErrNotFound, barcode)
			}
			return fmt.Errorf("find cosmetic %s: %w", barcode, err)
		}

		var ingredient models.IngredientINCI
		if err := tx.Select("cosing_ref_no").First(&ingredient, "cosing_ref_no = ?", refNo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ingredient %d", ErrNotFound, refNo)
			}
			return fmt.Errorf("find ingredient %d: %w", refNo, err)
		}

		var count int64
		if err := tx.Model(&models.CosmeticComposition{}).
			Where("cosmetic_barcode = ? AND ingredient_ref_no = ?", barcode, refNo).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check existing link: %w", err)
		}
		if count > 0 {
			return ErrDuplicateLink
		}

		if position != nil {
			value := *position
			link.OrderInComposition = &value
		} else {
			next, err := s.nextPos(tx, barcode)
			if err != nil {
				return err
			}
			link.OrderInComposition = &next
		}

		if err := tx.Create(link).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// The ingredient pre-check passed inside this transaction,
				// so the violated constraint is the position index.
				return ErrPositionConflict
			}
			return fmt.Errorf("create composition link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func nextPosition(tx *gorm.DB, barcode string) (uint, error) {
	var max *uint
	err := tx.Model(&models.CosmeticComposition{}).
		Where("cosmetic_barcode = ?", barcode).
		Select("MAX(order_in_composition)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("read max position for %s: %w", barcode, err)
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// ListForCosmetic returns the composition of a cosmetic ordered by position
// ascending, ties and missing positions broken by INCI name.
func (s *Service) ListForCosmetic(ctx context.Context, barcode string) ([]models.CosmeticComposition, error) {
	var links []models.CosmeticComposition
	err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Joins("LEFT JOIN ingredient_incis ON ingredient_incis.cosing_ref_no = cosmetic_compositions.ingredient_ref_no").
		Where("cosmetic_compositions.cosmetic_barcode = ?", barcode).
		Order("cosmetic_compositions.order_in_composition asc").
		Order("ingredient_incis.inci_name asc").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list composition for %s: %w", barcode, err)
	}
	return links, nil
}

// DeleteLink removes a single composition link by its identifier. Remaining
// positions are not renumbered; gaps are expected.
func (s *Service) DeleteLink(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.CosmeticComposition{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete composition link %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: link %d", ErrNotFound, id)
	}
	return nil
}

// DeleteAllForCosmetic clears the entire composition of a cosmetic and
// reports how many links were removed.
func (s *Service) DeleteAllForCosmetic(ctx context.Context, barcode string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("cosmetic_barcode = ?", barcode).
		Delete(&models.CosmeticComposition{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete composition for %s: %w", barcode, result.Error)
	}
	return result.RowsAffected, nil
}
