package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Drivers registrados em database/sql: "postgres" (lib/pq) e "pgx" (jackc/pgx).
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Querier é o subconjunto comum a *sql.DB e *sql.Tx usado pelos repositórios.
// Um repositório construído com um *sql.Tx participa da unidade de trabalho.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// NewPostgresDB inicializa e configura o pool de conexões com o PostgreSQL.
// driver aceita "postgres" (padrão) ou "pgx".
func NewPostgresDB(driver, dataSourceName string) (*sql.DB, error) {
	switch driver {
	case "", "postgres":
		driver = "postgres"
	case "pgx":
	default:
		return nil, fmt.Errorf("driver de banco desconhecido: %q", driver)
	}

	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	// Garante que as credenciais e o servidor estão corretos
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}
