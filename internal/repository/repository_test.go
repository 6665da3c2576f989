package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// sqlite allows one writer; a single pooled connection keeps
	// concurrent test transactions from tripping over the file lock.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.EngineerModel{}, &domain.ChatMessageModel{}))
	return db
}

func seedEngineer(t *testing.T, repo *GormEngineerRepository, name string, group domain.GroupType) *domain.Engineer {
	t.Helper()

	eng := &domain.Engineer{
		Name:      name,
		GroupType: group,
		Email:     name + "@jerobyte.test",
		Password:  "secret",
		Phone:     "0400000000",
	}
	require.NoError(t, repo.Create(t.Context(), eng))
	return eng
}
