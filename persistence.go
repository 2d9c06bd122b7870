package uptask

import (
	"database/sql"
	"strings"

	"github.com/goliatone/go-uptask/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenDB connects to the database named by the DSN. Postgres DSNs go
// through pgx; anything else is treated as a SQLite path or URI, which
// keeps local development and tests driver-free.
func OpenDB(dsn string) (*bun.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}
		sqldb := stdlib.OpenDB(*cfg)
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate brings the schema up to date using the embedded SQL migrations.
func Migrate(db *bun.DB) error {
	goose.SetBaseFS(migrations.FS)

	dialect := "sqlite3"
	if db.Dialect().Name().String() == "pg" {
		dialect = "postgres"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	return goose.Up(db.DB, ".")
}
