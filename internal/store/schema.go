package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the tables the service owns. Deleting a category
// cascades to its products; that is the referential-integrity policy of the
// whole system, so it lives in the schema rather than in application code.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categorias (
		id BIGSERIAL PRIMARY KEY,
		nombre VARCHAR(25) NOT NULL,
		descripcion VARCHAR(80) NOT NULL,
		icono VARCHAR(80) NOT NULL,
		CONSTRAINT categorias_nombre_key UNIQUE (nombre)
	);`,
	`CREATE TABLE IF NOT EXISTS productos (
		id BIGSERIAL PRIMARY KEY,
		titulo VARCHAR(50) NOT NULL,
		descripcion VARCHAR(100) NOT NULL,
		precio INTEGER NOT NULL,
		imagen VARCHAR(150),
		categoria_id BIGINT NOT NULL,
		CONSTRAINT productos_categoria_id_fkey
			FOREIGN KEY (categoria_id) REFERENCES categorias (id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS productos_categoria_id_idx ON productos (categoria_id);`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(120) NOT NULL,
		password_hash BYTEA NOT NULL,
		password_salt BYTEA NOT NULL,
		is_admin BOOLEAN NOT NULL,
		CONSTRAINT usuarios_email_key UNIQUE (email)
	);`,
}

// EnsureSchema creates the tables if they do not exist. It runs once at
// startup, before the HTTP server starts accepting requests.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: EnsureSchema failed to execute statement: %w", err)
		}
	}
	return nil
}
