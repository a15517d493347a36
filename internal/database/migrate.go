package database

import (
	"gorm.io/gorm"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Job{},
	)
}
