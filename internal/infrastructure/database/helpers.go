package database

import (
	"log"
)

// Close đóng tất cả connections trong pool và cleanup resources
// Safe to call multiple times - subsequent calls là no-op
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}

	log.Println("[DATABASE] Closing database connection pool...")

	// Pool.Close() đợi các acquired connections được release rồi mới terminate
	db.Pool.Close()
	db.Pool = nil

	log.Println("[DATABASE] Connection pool closed successfully")
}
