package db

import (
	"fmt"
	"testing"

	"github.com/ekremdev/pazarca/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *GormDB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrate(gdb))
	return &GormDB{DB: gdb}
}

// requireCounterConsistency asserts the invariant the counter engine must
// hold after every completed operation: the denormalized total equals the
// sum of the user's per-conversation rows.
func requireCounterConsistency(t *testing.T, g *GormDB, userID string) {
	t.Helper()
	var sum int64
	require.NoError(t, g.DB.Model(&models.ConversationUnreadCounter{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&sum).Error)

	var row models.UserUnreadCounter
	err := g.DB.Where("user_id = ?", userID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		require.Zero(t, sum, "per-conversation counters exist but no total row")
		return
	}
	require.NoError(t, err)
	require.Equal(t, sum, row.TotalUnread)
}
