// Package mock provides a seeded in-memory database for local development
// runs where no DATABASE_URL is configured.
package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kowalczyk-j/cosmetics-analyser/internal/db"
	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/safety"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

// New returns an in-memory sqlite database seeded with representative
// catalog data: a staff operator, a handful of classified COSING entries,
// and one verified product with an ordered composition.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:cosmetics-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("analyser"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:           "Demo Admin",
		Email:          "admin@cosmetics.local",
		PasswordHash:   string(password),
		Specialization: "dermatologist",
		IsStaff:        true,
	}
	if err := database.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}

	ingredients := []models.IngredientINCI{
		{
			CosingRefNo: 55898,
			INCIName:    "TOCOPHEROL",
			CommonName:  "tocopherol",
			Description: "2H-1-Benzopyran-6-ol, 3,4-dihydro-2,5,7,8-tetramethyl-2-(4,8,12-trimethyltridecyl)-",
			Function:    "ANTIOXIDANT, SKIN CONDITIONING",
			UpdateDate:  "2021-10-05",
		},
		{
			CosingRefNo: 32278,
			INCIName:    "GLYCERIN",
			CommonName:  "glycerol",
			Description: "1,2,3-Propanetriol",
			Function:    "HUMECTANT, SKIN PROTECTING, SOLVENT",
			UpdateDate:  "2019-04-23",
		},
		{
			CosingRefNo: 34040,
			INCIName:    "AQUA",
			CommonName:  "water",
			Description: "Water (aqua)",
			Function:    "SOLVENT",
			UpdateDate:  "2019-04-23",
		},
		{
			CosingRefNo:  28458,
			INCIName:     "BENZYL ALCOHOL",
			CommonName:   "benzyl alcohol",
			Description:  "Benzenemethanol",
			Function:     "PRESERVATIVE, SOLVENT",
			Restrictions: "Annex V/34",
			UpdateDate:   "2020-02-17",
		},
	}

	for idx := range ingredients {
		ingredient := &ingredients[idx]
		ingredient.SafetyRating = string(safety.Classify(ingredient.Function, ingredient.Restrictions))
		ingredient.RestrictionDescription = safety.DescribeRestrictions(ingredient.Restrictions)
		if err := database.WithContext(ctx).Create(ingredient).Error; err != nil {
			return err
		}
	}

	cream := models.Cosmetic{
		Barcode:      "5901234123457",
		ProductName:  "Hydra Calm Cream",
		Manufacturer: "Demo Labs",
		Description:  "Lightweight moisturiser for sensitive skin.",
		Category:     "face cream",
		IsVerified:   true,
	}
	if err := database.WithContext(ctx).Create(&cream).Error; err != nil {
		return err
	}

	positions := []uint{1, 2, 3, 4}
	refNos := []int{34040, 32278, 55898, 28458}
	for idx, refNo := range refNos {
		link := models.CosmeticComposition{
			CosmeticBarcode:    cream.Barcode,
			IngredientRefNo:    refNo,
			OrderInComposition: &positions[idx],
		}
		if err := database.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
