package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/yourusername/challenge-blueprint/internal/storage/clickhouse"
	"github.com/yourusername/challenge-blueprint/internal/storage/postgres"
)

// statements returns the non-empty migration files under dir in lexical order.
func statements(fsys fs.FS, dir string) ([]string, []string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read embedded %s migrations: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	var names, sqls []string
	for _, file := range files {
		data, err := fs.ReadFile(fsys, dir+"/"+file)
		if err != nil {
			return nil, nil, fmt.Errorf("read migration %s: %w", file, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		names = append(names, file)
		sqls = append(sqls, string(data))
	}
	return names, sqls, nil
}

// RunPostgresMigrations applies all embedded SQL files in lexical order.
// Migrations are expected to be idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	names, sqls, err := statements(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for i, sql := range sqls {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", names[i], err)
		}
	}
	return nil
}

// RunClickhouseMigrations applies all embedded ClickHouse files in lexical order.
// Each file must hold exactly one statement.
func RunClickhouseMigrations(ctx context.Context, conn *clickhouse.Conn) error {
	names, sqls, err := statements(ClickhouseFS, "clickhouse")
	if err != nil {
		return err
	}
	for i, sql := range sqls {
		if err := conn.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", names[i], err)
		}
	}
	return nil
}
