//go:build integration

// Package testutil sobe um PostgreSQL descartável para os testes de integração
// dos repositórios e aplica as migrações do goose.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"sghss/migrations"
)

// NewPostgres devolve uma conexão com o schema migrado. Com SGHSS_TEST_DATABASE_URL
// definida reutiliza esse banco; caso contrário sobe um container postgres:16.
func NewPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("SGHSS_TEST_DATABASE_URL")
	if dsn == "" {
		pgC, err := postgres.Run(ctx,
			"postgres:16",
			postgres.WithDatabase("sghss_test"),
			postgres.WithUsername("sghss"),
			postgres.WithPassword("sghss"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

		dsn, err = pgC.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(pingCtx))

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, "."))

	Truncate(t, db)
	return db
}

// Truncate limpa as tabelas entre cenários.
func Truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE audit_logs, patients, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}
