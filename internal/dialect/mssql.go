package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) often prefers @p1, @p2 named parameters over ?
// especially when prepared statements are involved or simple Exec.

func (d *MSSQLDialect) DriverName() string { return "sqlserver" }

func (d *MSSQLDialect) ConnString(endpoint, credential string) (string, error) {
	return urlWithPassword(endpoint, credential, "sqlserver")
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	// Use @p1 for schema binding
	return `SELECT c.TABLE_NAME, c.COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS c WHERE c.TABLE_SCHEMA = @p1 ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *MSSQLDialect) SelectLegacyQuery(table string) string {
	// ntext/nvarchar(max) columns cannot be compared with <>
	return selectLegacy(table, "DATALENGTH(test_cases) > 0")
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *MSSQLDialect) CountBySourceQuery(table string) string {
	return countBySource(table, d.Placeholder(0))
}

func (d *MSSQLDialect) DeleteBySourceQuery(table string) string {
	return deleteBySource(table, d.Placeholder(0))
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) BoolValue(b bool) interface{} { return b }

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	// Simple T-SQL TOP injection
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		// Replaces the first occurrence only; generated queries start with SELECT.
		return strings.Replace(query, "SELECT", fmt.Sprintf("SELECT TOP %d", limit), 1)
	}
	return query
}
