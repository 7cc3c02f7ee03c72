// Package mysql implements the bench.Adapter contract against MySQL,
// storing each record as a single JSON column keyed by a primary-key text
// column derived from the harness's key encoding.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/dbutils"
	"github.com/surrealdb/crud-bench/internal/docker"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

const (
	defaultImage = "mysql:8"
	defaultPort  = "3306"

	defaultUser     = "root"
	defaultPassword = "mysql"
	defaultDatabase = "bench"

	tableName           = "bench_table"
	containerNamePrefix = "crud-bench-mysql"
)

// Adapter implements bench.Adapter for MySQL.
type Adapter struct {
	bench.UnsupportedBatches

	db        *sql.DB
	container *docker.Container
	sync      bool
}

// New creates an unconnected MySQL adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return "mysql" }
func (a *Adapter) Blocking() bool { return true }

func (a *Adapter) Startup(ctx context.Context, tmpl *values.Template, cfg bench.StartupConfig) error {
	a.sync = cfg.Sync
	image := cfg.Image
	if image == "" {
		image = defaultImage
	}

	var dsn string
	if cfg.Endpoint == "" {
		container, err := startContainer(ctx, image, cfg.Privileged)
		if err != nil {
			return fmt.Errorf("failed to start mysql container: %w", err)
		}
		a.container = container
		dsn = dataSourceName()
	} else {
		dsn = cfg.Endpoint
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping mysql: %w", err)
	}
	a.db = db

	if a.sync {
		if _, err := db.ExecContext(ctx, "SET GLOBAL innodb_flush_log_at_trx_commit = 1"); err != nil {
			return fmt.Errorf("failed to enable durable commit: %w", err)
		}
	}

	if err := a.createTable(ctx); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (a *Adapter) Shutdown(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close mysql connection: %w", err)
		}
	}
	if a.container != nil {
		if err := a.container.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop mysql container: %w", err)
		}
	}
	return nil
}

func (a *Adapter) createTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id   VARCHAR(512) PRIMARY KEY,
			data JSON NOT NULL
		)`, tableName)
	_, err := a.db.ExecContext(ctx, query)
	return err
}

func (a *Adapter) Create(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	start := time.Now()
	_, err := a.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, data) VALUES (?, ?)", tableName),
		key.String(), string(value))
	return time.Since(start), err
}

func (a *Adapter) Read(ctx context.Context, key keys.Key) (time.Duration, bool, error) {
	start := time.Now()
	var data string
	err := a.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE id = ?", tableName), key.String()).Scan(&data)
	elapsed := time.Since(start)
	if err == sql.ErrNoRows {
		return elapsed, false, nil
	}
	if err != nil {
		return elapsed, false, err
	}
	return elapsed, true, nil
}

func (a *Adapter) Update(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	start := time.Now()
	_, err := a.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET data = ? WHERE id = ?", tableName),
		string(value), key.String())
	return time.Since(start), err
}

func (a *Adapter) Delete(ctx context.Context, key keys.Key) (time.Duration, error) {
	start := time.Now()
	_, err := a.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", tableName), key.String())
	return time.Since(start), err
}

func (a *Adapter) Scan(ctx context.Context, d bench.ScanDescriptor) (time.Duration, int, error) {
	start := time.Now()

	if d.Projection == bench.ProjectionCount {
		var count int
		err := a.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&count)
		return time.Since(start), count, err
	}

	column := "id"
	if d.Projection == bench.ProjectionFull {
		column = "id, data"
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", column, tableName)
	if d.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", d.Limit)
		if d.Start > 0 {
			query += fmt.Sprintf(" OFFSET %d", d.Start)
		}
	}

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return time.Since(start), 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	return time.Since(start), count, rows.Err()
}

func dataSourceName() string {
	return fmt.Sprintf("%s:%s@tcp(localhost:%s)/%s?parseTime=true", defaultUser, defaultPassword, defaultPort, defaultDatabase)
}

func startContainer(ctx context.Context, image string, privileged bool) (*docker.Container, error) {
	containerName := fmt.Sprintf("%s-%d", containerNamePrefix, time.Now().UnixNano())
	ports := map[string]string{"3306/tcp": defaultPort}
	env := []string{
		"MYSQL_ROOT_PASSWORD=" + defaultPassword,
		"MYSQL_DATABASE=" + defaultDatabase,
	}

	container, err := dbutils.CreateContainerWithRetry(ctx, containerName, image, ports, privileged, env)
	if err != nil {
		return nil, err
	}

	checkFunc := func(ctx context.Context) error {
		db, err := sql.Open("mysql", dataSourceName())
		if err != nil {
			return err
		}
		defer db.Close()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}

	if err := container.WaitForHealthy(ctx, 120*time.Second, checkFunc); err != nil {
		_ = container.Stop(ctx)
		return nil, fmt.Errorf("mysql health check failed: %w", err)
	}
	return container, nil
}
