// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"farmlink_backend/internal/auth"
	"farmlink_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideTokenBlocklist builds the in-memory revoked-token store. The sweep
// interval only bounds how long expired entries linger; correctness does not
// depend on it.
func provideTokenBlocklist() auth.TokenBlocklistService {
	return auth.NewInMemoryBlocklistService(5 * time.Minute)
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
