package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurant_tables (
		id         BIGINT      NOT NULL PRIMARY KEY,
		number     INT         NOT NULL,
		attributes JSON        NULL,
		created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_restaurant_tables_number (number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		table_number    INT          NOT NULL,
		client_name     VARCHAR(255) NOT NULL,
		phone_number    VARCHAR(64)  NOT NULL,
		res_date        VARCHAR(10)  NOT NULL,
		slot_time_start VARCHAR(8)   NOT NULL,
		slot_time_end   VARCHAR(8)   NOT NULL,
		created_at      TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_reservations_table_number (table_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		first_name    VARCHAR(255)    NOT NULL DEFAULT '',
		last_name     VARCHAR(255)    NOT NULL DEFAULT '',
		confirmed     BOOLEAN         NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the service's tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
