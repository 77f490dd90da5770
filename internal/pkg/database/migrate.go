package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate executa um comando do goose (up, down, status, ...) com as
// migrações embarcadas no binário.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: dialeto inválido: %w", err)
	}
	return goose.RunContext(ctx, command, db, "migrations", args...)
}
