package db

import (
	"database/sql"
	"fmt"
)

// createTables 如果数据库中不存在必要的表，则创建它们
func createTables(conn *sql.DB) error {
	createDecisionsTableSQL := `
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_message_id TEXT NOT NULL,
		moderator_id TEXT NOT NULL,
		decision TEXT NOT NULL,
		clips_message_id TEXT NOT NULL DEFAULT '',
		decided_at INTEGER NOT NULL
	);`
	if _, err := conn.Exec(createDecisionsTableSQL); err != nil {
		return fmt.Errorf("create decisions table: %w", err)
	}

	createIndexSQL := `CREATE INDEX IF NOT EXISTS idx_decisions_moderator ON decisions (moderator_id);`
	if _, err := conn.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("create decisions index: %w", err)
	}
	return nil
}
