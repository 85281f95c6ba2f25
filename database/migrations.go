package database

import (
	"log"

	"dearday/models"

	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.SocialAccount{},
		&models.RefreshToken{},
		&models.Wedding{},
		&models.WeddingDetail{},
		&models.SectionSetting{},
		&models.Media{},
	)

	if err != nil {
		log.Printf("Error running migrations: %v", err)
		return err
	}

	log.Println("Migrations completed successfully")
	return nil
}
