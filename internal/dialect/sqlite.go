package dialect

import (
	"fmt"
	"strings"
)

// SQLiteDialect targets modernc.org/sqlite, for local runs and tests.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// ConnString uses the endpoint as the database path. SQLite has no
// credentials, the key is only checked for presence by the caller.
func (d *SQLiteDialect) ConnString(endpoint, credential string) (string, error) {
	if strings.TrimSpace(endpoint) == "" {
		return "", fmt.Errorf("sqlite endpoint must be a file path")
	}
	return endpoint, nil
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	return `SELECT m.name, p.name FROM sqlite_master m JOIN pragma_table_info(m.name) p WHERE m.type = 'table' AND ? IS NOT NULL ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) SelectLegacyQuery(table string) string {
	return selectLegacy(table, "test_cases <> ''")
}

func (d *SQLiteDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *SQLiteDialect) CountBySourceQuery(table string) string {
	return countBySource(table, d.Placeholder(0))
}

func (d *SQLiteDialect) DeleteBySourceQuery(table string) string {
	return deleteBySource(table, d.Placeholder(0))
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) BoolValue(b bool) interface{} { return b }

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func (d *SQLiteDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
