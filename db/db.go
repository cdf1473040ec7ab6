package db

import (
	"fmt"

	"github.com/malwarebo/taskhub/config"
	"github.com/malwarebo/taskhub/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Connect opens the primary connection, registers read replicas when
// configured, and applies the pool settings.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// TranslateError surfaces unique violations as gorm.ErrDuplicatedKey,
	// which the services map onto field errors.
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if len(cfg.Database.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Database.ReplicaDSNs))
		for _, dsn := range cfg.Database.ReplicaDSNs {
			replicas = append(replicas, postgres.Open(dsn))
		}

		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	return db, nil
}

// Migrate brings the schema up to date for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Todo{},
		&models.Tag{},
		&models.Subtask{},
		&models.BlogPost{},
	)
}
