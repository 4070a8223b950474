package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := dialector("mysql", "dsn")
	assert.Error(t, err)

	_, err = gooseDialect("mysql")
	assert.Error(t, err)
}

func TestMigrateSQLiteCreatesSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := NewQuietGormDB(DriverSQLite, dsn)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	// Re-running is a no-op.
	require.NoError(t, Migrate(ctx, db, DriverSQLite))

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("chat_history"))

	require.NoError(t, db.Exec(
		"INSERT INTO chat_history (id, passcode, user_message, bot_response) VALUES (?, ?, ?, ?)",
		"t1", "ABC123", "Hello", "Hi there",
	).Error)

	var stamped int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM chat_history WHERE timestamp IS NOT NULL").Scan(&stamped).Error)
	assert.Equal(t, int64(1), stamped)
}
