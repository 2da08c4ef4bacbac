package db

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campusops/registrar-back/internal/models"
)

var DB *gorm.DB

// ErrNotFound is returned instead of gorm.ErrRecordNotFound so callers
// outside this package do not depend on the ORM.
var ErrNotFound = errors.New("record not found")

func InitDB(dsn string) {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.StudentProfile{},
		&models.Course{},
		&models.Grade{},
		&models.Announcement{},
		&models.ResitExamSchedule{},
		&models.ResitExamContent{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	fmt.Println("✅ Database connected and migrated")
}

func PingDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
