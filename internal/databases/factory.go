// Package databases wires a backend name to its bench.Adapter
// implementation.
package databases

import (
	"fmt"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/databases/badger"
	"github.com/surrealdb/crud-bench/internal/databases/dry"
	"github.com/surrealdb/crud-bench/internal/databases/mapdb"
	"github.com/surrealdb/crud-bench/internal/databases/mongodb"
	"github.com/surrealdb/crud-bench/internal/databases/mysql"
	"github.com/surrealdb/crud-bench/internal/databases/postgres"
	"github.com/surrealdb/crud-bench/internal/databases/redis"
)

// NewAdapter builds the bench.Adapter for the named backend.
func NewAdapter(name string) (bench.Adapter, error) {
	switch name {
	case "dry":
		return dry.New(), nil
	case "map":
		return mapdb.New(), nil
	case "postgres":
		return postgres.New(), nil
	case "mysql":
		return mysql.New(), nil
	case "redis":
		return redis.New(), nil
	case "mongodb":
		return mongodb.New(), nil
	case "badger":
		return badger.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", name)
	}
}
