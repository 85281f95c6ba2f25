package common

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDb opens the application database. A Postgres DSN in DB_DSN
// wins; otherwise a local sqlite file is used (default dearday.db),
// which is also what the tests run against.
func ConnectDb() *gorm.DB {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Println("Error opening postgres db: " + err.Error())
			return nil
		}
		log.Println("opened postgres db")
		return db
	}

	dbFile := os.Getenv("sqlite_db")
	if dbFile == "" {
		dbFile = "dearday.db"
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Println("Error opening sqlite db: " + err.Error())
		return nil
	}
	log.Println("opened sqlite db at:", dbFile)
	return db
}
