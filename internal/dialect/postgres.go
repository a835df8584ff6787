package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

// ConnString accepts either a postgres:// URL or a key/value connection string.
func (d *PostgresDialect) ConnString(endpoint, credential string) (string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if strings.HasPrefix(trimmed, "postgres://") || strings.HasPrefix(trimmed, "postgresql://") {
		return urlWithPassword(trimmed, credential, "postgres", "postgresql")
	}
	// key/value form: values with spaces or quotes must be single-quoted
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(credential)
	return fmt.Sprintf("%s password='%s'", trimmed, escaped), nil
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	return `SELECT c.table_name, c.column_name FROM information_schema.columns c WHERE c.table_schema = $1 ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) SelectLegacyQuery(table string) string {
	return selectLegacy(table, "test_cases <> ''")
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	// Generate placeholders ($1, $2, ...)
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *PostgresDialect) CountBySourceQuery(table string) string {
	return countBySource(table, d.Placeholder(0))
}

func (d *PostgresDialect) DeleteBySourceQuery(table string) string {
	return deleteBySource(table, d.Placeholder(0))
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) BoolValue(b bool) interface{} { return b }

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
