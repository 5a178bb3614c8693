package seed

import (
	"time"

	"catalog-service/internal/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run seeds the database with a demo tenant, user and catalogs. Each step is
// idempotent: rows are only written into empty tables.
func Run(db *gorm.DB, log *zap.Logger) error {
	if err := seedTenants(db, log); err != nil {
		return err
	}
	if err := seedUsers(db, log); err != nil {
		return err
	}
	if err := seedCatalogs(db, log); err != nil {
		return err
	}
	log.Info("Database seeding completed successfully")
	return nil
}

func seedTenants(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Tenant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Tenants already exist, skipping seed")
		return nil
	}

	tenant := model.Tenant{ID: 1, Name: "Test Client"}
	if err := db.Create(&tenant).Error; err != nil {
		return err
	}
	log.Info("Tenants seeded successfully")
	return nil
}

func seedUsers(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Users already exist, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@gmail.com",
		Password: string(hashed),
		TenantID: 1,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Info("Users seeded successfully")
	return nil
}

func seedCatalogs(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Catalog{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Catalogs already exist, skipping seed")
		return nil
	}

	now := time.Now()
	catalogs := []model.Catalog{
		{
			ID:        1,
			Name:      "Spring Fashion Trends",
			Vertical:  model.VerticalFashion,
			Primary:   false,
			Locales:   model.LocaleList{"en_US", "en_CA", "es_ES"},
			IndexedAt: &now,
			TenantID:  1,
		},
		{
			ID:        2,
			Name:      "Modern Home Essentials",
			Vertical:  model.VerticalHome,
			Primary:   false,
			Locales:   model.LocaleList{"en_US", "fr_FR", "es_ES"},
			IndexedAt: &now,
			TenantID:  1,
		},
		{
			ID:        3,
			Name:      "Modern Essentials",
			Vertical:  model.VerticalGeneral,
			Primary:   false,
			Locales:   model.LocaleList{"en_US", "fr_FR", "es_ES"},
			IndexedAt: &now,
			TenantID:  1,
		},
	}
	if err := db.Create(&catalogs).Error; err != nil {
		return err
	}
	log.Info("Catalogs seeded successfully")
	return nil
}
