package storage

import "fmt"

// Open returns the repository for driver: "sqlite3", "postgres" or "memory".
func Open(driver, dsn string) (Repository, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return NewSQLiteRepository(dsn)
	case "postgres":
		return NewPostgresRepository(dsn)
	case "memory":
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
