package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kubesentry-dev/kubesentry/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A second pool connection would see a different in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.Incident{}, &models.Notification{}))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return New(gdb)
}

func crashLoopInput() IncidentInput {
	return IncidentInput{
		Cluster:      "prod",
		Namespace:    "default",
		ResourceType: "pod",
		ResourceName: "web-7f",
		IssueType:    "CrashLoopBackOff",
		Severity:     "high",
		Description:  "pod restarting",
	}
}
