package postgres_test

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)
	alterTableRe  = regexp.MustCompile(`(?s)ALTER TABLE (?:IF EXISTS )?(\w+)(.*?);`)
	addColumnRe   = regexp.MustCompile(`ADD COLUMN IF NOT EXISTS (\w+)`)
	columnNameRe  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// migratedColumns applies the up migrations in order and returns table -> columns.
func migratedColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	files, err := filepath.Glob(filepath.Join("..", "..", "..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)

	tables := map[string]map[string]bool{}
	for _, f := range files {
		raw, err := os.ReadFile(f)
		require.NoError(t, err)
		sql := string(raw)

		for _, m := range createTableRe.FindAllStringSubmatch(sql, -1) {
			cols := map[string]bool{}
			for _, line := range strings.Split(m[2], "\n") {
				fields := strings.Fields(line)
				if len(fields) > 0 && columnNameRe.MatchString(fields[0]) {
					cols[fields[0]] = true
				}
			}
			tables[m[1]] = cols
		}
		for _, m := range alterTableRe.FindAllStringSubmatch(sql, -1) {
			for _, add := range addColumnRe.FindAllStringSubmatch(m[2], -1) {
				require.Contains(t, tables, m[1], "%s alters unknown table", filepath.Base(f))
				tables[m[1]][add[1]] = true
			}
		}
	}
	return tables
}

func TestMigrationsMatchModels(t *testing.T) {
	tables := migratedColumns(t)

	cache := &sync.Map{}
	var modelTables []string
	for _, model := range postgres.AllModels() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		modelTables = append(modelTables, s.Table)

		cols, ok := tables[s.Table]
		if !assert.True(t, ok, "no migration creates %s", s.Table) {
			continue
		}
		for _, name := range s.DBNames {
			assert.True(t, cols[name], "%s.%s is mapped but never migrated", s.Table, name)
		}
	}

	var migrated []string
	for name := range tables {
		migrated = append(migrated, name)
	}
	// каждая таблица из миграций должна иметь модель
	assert.ElementsMatch(t, modelTables, migrated)
}
