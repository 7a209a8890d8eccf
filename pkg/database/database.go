package database

import (
	"fmt"
	"log"

	"english_placement_backend/internal/config"
	"english_placement_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.TestSession{},
		&model.PlacementAnswer{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed the question bank so a fresh install can run placements
	// immediately.
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count == 0 {
		if err := seedQuestionBank(db); err != nil {
			return nil, err
		}
		log.Println("Question bank seeded")
	}

	return db, nil
}
