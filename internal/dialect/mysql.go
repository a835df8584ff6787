package dialect

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

type MysqlDialect struct{}

func (d *MysqlDialect) DriverName() string { return "mysql" }

func (d *MysqlDialect) ConnString(endpoint, credential string) (string, error) {
	cfg, err := mysql.ParseDSN(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.Passwd = credential
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) SelectLegacyQuery(table string) string {
	return selectLegacy(table, "test_cases <> ''")
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), vals)
}

func (d *MysqlDialect) CountBySourceQuery(table string) string {
	return countBySource(table, d.Placeholder(0))
}

func (d *MysqlDialect) DeleteBySourceQuery(table string) string {
	return deleteBySource(table, d.Placeholder(0))
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) BoolValue(b bool) interface{} { return b }

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}
