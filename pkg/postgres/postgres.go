package postgres

import (
	"context"
	"fmt"
	"time"

	"fitcoach-api/pkg/config"
	"github.com/golang-migrate/migrate"
	migratepg "github.com/golang-migrate/migrate/database/postgres"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func BuildDSN(cfg config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Name, cfg.Password, cfg.SSL)
}

// New opens the shared connection pool, retrying while the database comes up.
func New(ctx context.Context) (*sqlx.DB, error) {
	dsn := BuildDSN(config.GlobalConfig.DB)
	return ConnectWithRetry(ctx, "pgx", dsn, RetryConfig{
		BaseDelay:   time.Second,
		MaxDelay:    15 * time.Second,
		MaxAttempts: 10,
		PingTimeout: 5 * time.Second,
	}, logrus.Infof)
}

// MigrateDB applies the bundled migrations. The migrations path is optional:
// when the API points at a pre-existing schema the resolver adapts to it and
// no migrations run at all.
func MigrateDB(db *sqlx.DB, dbname string) {
	dir := config.GlobalConfig.DB.Migrations
	if dir == "" {
		logrus.Info("no migrations path configured, skipping")
		return
	}

	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		logrus.Fatalf("couldn't get database instance for running migrations; %s", err.Error())
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", dir), dbname, driver)
	if err != nil {
		logrus.Fatalf("couldn't create migrate instance; %s", err.Error())
	}

	if err := m.Up(); err != nil {
		if err.Error() == "no change" {
			return
		}
		logrus.Fatalf("couldn't run database migrations; %s", err.Error())
	}
	logrus.Info("database migration was run successfully")
}
