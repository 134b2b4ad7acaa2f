package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createVerificationSessionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE verification_sessions (
		id TEXT PRIMARY KEY,
		community_id TEXT NOT NULL,
		identity_id TEXT NOT NULL,
		wallet_address TEXT,
		token_hash TEXT NOT NULL UNIQUE,
		challenge_message TEXT NOT NULL,
		status TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createUserVerificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_verifications (
		id TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL,
		community_id TEXT NOT NULL,
		wallet_address TEXT NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT false,
		asset_count INTEGER NOT NULL DEFAULT 0,
		last_checked_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(identity_id, community_id)
	);`)
}

func createGuildRuleTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE guild_rules (
		id TEXT PRIMARY KEY,
		community_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		collection_id TEXT NOT NULL DEFAULT '',
		role_id TEXT NOT NULL,
		required_count INTEGER NOT NULL DEFAULT 0,
		max_count INTEGER,
		trait_type TEXT NOT NULL DEFAULT '',
		trait_value TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
